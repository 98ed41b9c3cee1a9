// Package model defines the eHour data model: the entity records returned
// by the REST API and the identity store that guarantees a single live
// instance per entity ID.
package model

import (
	"fmt"
	"time"
)

// FillState tracks how much of an entity has been populated from the API.
type FillState int

const (
	// FillNone means only the ID is known.
	FillNone FillState = iota
	// FillPartial means fields were populated from a list response.
	FillPartial
	// FillFull means the entity holds a complete detail snapshot.
	FillFull
)

// User is an eHour user account. IDs look like "USR123".
type User struct {
	ID        string            `json:"id"`
	Active    bool              `json:"active"`
	FirstName string            `json:"firstName,omitempty"`
	LastName  string            `json:"lastName,omitempty"`
	Name      string            `json:"name,omitempty"`
	Email     string            `json:"email,omitempty"`
	Extra     map[string]any    `json:"extra,omitempty"`
	Fill      FillState         `json:"-"`
}

// DeriveName recomputes the display name from first/last name. An
// explicitly assigned non-empty Name is left alone.
func (u *User) DeriveName() {
	if u.Name != "" {
		return
	}
	switch {
	case u.FirstName != "" && u.LastName != "":
		u.Name = u.FirstName + " " + u.LastName
	case u.FirstName != "":
		u.Name = u.FirstName
	case u.LastName != "":
		u.Name = u.LastName
	}
}

// Reset clears every field except the identifying ID, preparing the
// instance to receive a full detail snapshot.
func (u *User) Reset() {
	*u = User{ID: u.ID}
}

func (u *User) String() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

// Client is an eHour client (customer). IDs look like "CLT45".
type Client struct {
	ID           string            `json:"id"`
	Code         string            `json:"code,omitempty"`
	Name         string            `json:"name,omitempty"`
	Active       bool              `json:"active"`
	Description  []string          `json:"description,omitempty"`
	CustomFields map[string]string `json:"customFields,omitempty"`
	Extra        map[string]any    `json:"extra,omitempty"`
	Fill         FillState         `json:"-"`
}

// Reset clears every field except the identifying ID.
func (c *Client) Reset() {
	*c = Client{ID: c.ID}
}

// SetCustomField records a custom field under its (possibly remapped)
// display name.
func (c *Client) SetCustomField(name, value string) {
	if c.CustomFields == nil {
		c.CustomFields = make(map[string]string)
	}
	c.CustomFields[name] = value
}

func (c *Client) String() string {
	if c == nil {
		return ""
	}
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Project is an eHour project. IDs look like "PRJ7".
type Project struct {
	ID             string         `json:"id"`
	Code           string         `json:"code,omitempty"`
	Name           string         `json:"name,omitempty"`
	Active         bool           `json:"active"`
	Billable       bool           `json:"billable"`
	BudgetMinutes  int            `json:"budgetMinutes,omitempty"`
	Contact        string         `json:"contact,omitempty"`
	Description    []string       `json:"description,omitempty"`
	Client         *Client        `json:"client,omitempty"`
	ProjectManager *User          `json:"projectManager,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
	Fill           FillState      `json:"-"`
}

// Reset clears every field except the identifying ID.
func (p *Project) Reset() {
	*p = Project{ID: p.ID}
}

func (p *Project) String() string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// ExpenseCategory is a value type attached to expense rows. It is not
// cached and cannot be fetched on its own.
type ExpenseCategory struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Billable bool   `json:"billable"`
}

// ReportEntry is the common part of a report row.
type ReportEntry struct {
	Date    time.Time `json:"date"`
	Client  *Client   `json:"client,omitempty"`
	Project *Project  `json:"project,omitempty"`
	User    *User     `json:"user,omitempty"`
}

// Hours is a single tracked-time row from the hours report.
type Hours struct {
	ReportEntry
	Duration Duration `json:"duration"`
	Turnover float64  `json:"turnover"`
	Comment  string   `json:"comment,omitempty"`
	Rate     float64  `json:"rate"`
}

// Expense is a single row from the expense report.
type Expense struct {
	ReportEntry
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Cost        float64         `json:"cost"`
	VAT         float64         `json:"vat"`
	Comment     string          `json:"comment,omitempty"`
	Category    ExpenseCategory `json:"category"`
	NumReceipts int             `json:"numReceipts"`
	Tag         string          `json:"tag,omitempty"`
	Custom1     string          `json:"custom1,omitempty"`
	Custom2     string          `json:"custom2,omitempty"`
	Custom3     string          `json:"custom3,omitempty"`
}

// Duration is an hour/minute pair, the unit eHour reports time in.
type Duration struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// MinutesToDuration converts a raw total-minutes value as returned by the
// report endpoint into an hour/minute Duration.
func MinutesToDuration(minutes int) Duration {
	return Duration{Hours: minutes / 60, Minutes: minutes % 60}
}

// TotalMinutes returns the duration as raw minutes.
func (d Duration) TotalMinutes() int {
	return d.Hours*60 + d.Minutes
}

// String formats the duration as "H:MM".
func (d Duration) String() string {
	return fmt.Sprintf("%d:%02d", d.Hours, d.Minutes)
}
