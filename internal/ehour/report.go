package ehour

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/geanix/ehour/internal/model"
)

// The report endpoint is a generic tabular query: the request names the
// columns it wants, the response returns a column header list plus data
// rows. When the caller pins a user, client, or project, that entity's
// column group is omitted from the request and the pinned instance is
// used for every row instead.
//
// Only the first response page is consumed; report pagination is a known
// limitation of the upstream API client.

// ReportFilter pins report rows to a fixed user, client, and/or project.
type ReportFilter struct {
	User    *model.User
	Client  *model.Client
	Project *model.Project
}

// Column groups and names used by the report endpoint.
var (
	clientColumns  = []string{"client-id", "client-code", "client-name"}
	projectColumns = []string{"project-id", "project-code", "project-name"}
	userColumns    = []string{"user-id", "user-name"}

	hoursColumns = []string{"time-allotted", "turnover", "comment", "rate"}

	expenseColumns = []string{
		"expense-id", "expense-name", "cost", "vat", "comment",
		"category-code", "category-name", "category-billable",
		"receipts", "tag",
		"custom-field-1", "custom-field-2", "custom-field-3",
	}
)

type reportResponse struct {
	Columns []string            `json:"columns"`
	Data    [][]json.RawMessage `json:"data"`
}

// Hours fetches tracked-time rows between two calendar dates, inclusive.
func (c *Client) Hours(ctx context.Context, start, end time.Time, filter ReportFilter) ([]model.Hours, error) {
	rows, err := c.report(ctx, "reports/hours", start, end, filter, hoursColumns)
	if err != nil {
		return nil, err
	}

	hours := make([]model.Hours, 0, len(rows))
	for i, row := range rows {
		entry, err := c.decodeEntry(row, filter)
		if err != nil {
			return nil, schemaErrorf("hours row %d: %v", i, err)
		}
		minutes, err := row.intCell("time-allotted")
		if err != nil {
			return nil, schemaErrorf("hours row %d: %v", i, err)
		}
		turnover, _ := row.floatCell("turnover")
		rate, _ := row.floatCell("rate")
		comment, _ := row.strCell("comment")

		hours = append(hours, model.Hours{
			ReportEntry: entry,
			Duration:    model.MinutesToDuration(minutes),
			Turnover:    turnover,
			Comment:     comment,
			Rate:        rate,
		})
	}
	return hours, nil
}

// Expenses fetches expense rows between two calendar dates, inclusive.
func (c *Client) Expenses(ctx context.Context, start, end time.Time, filter ReportFilter) ([]model.Expense, error) {
	rows, err := c.report(ctx, "reports/expenses", start, end, filter, expenseColumns)
	if err != nil {
		return nil, err
	}

	expenses := make([]model.Expense, 0, len(rows))
	for i, row := range rows {
		entry, err := c.decodeEntry(row, filter)
		if err != nil {
			return nil, schemaErrorf("expense row %d: %v", i, err)
		}
		id, err := row.strCell("expense-id")
		if err != nil {
			return nil, schemaErrorf("expense row %d: %v", i, err)
		}
		name, _ := row.strCell("expense-name")
		cost, _ := row.floatCell("cost")
		vat, _ := row.floatCell("vat")
		comment, _ := row.strCell("comment")
		receipts, _ := row.strCell("receipts")
		tag, _ := row.strCell("tag")

		catCode, _ := row.strCell("category-code")
		catName, _ := row.strCell("category-name")
		catBillable, _ := row.boolCell("category-billable")

		// Optional custom fields: absent means empty string.
		custom1, _ := row.strCell("custom-field-1")
		custom2, _ := row.strCell("custom-field-2")
		custom3, _ := row.strCell("custom-field-3")

		expenses = append(expenses, model.Expense{
			ReportEntry: entry,
			ID:          id,
			Name:        name,
			Cost:        cost,
			VAT:         vat,
			Comment:     comment,
			Category: model.ExpenseCategory{
				Code:     catCode,
				Name:     catName,
				Billable: catBillable,
			},
			NumReceipts: CountReceipts(receipts),
			Tag:         tag,
			Custom1:     custom1,
			Custom2:     custom2,
			Custom3:     custom3,
		})
	}
	return expenses, nil
}

// report issues the tabular query and indexes the response rows by column
// name.
func (c *Client) report(ctx context.Context, path string, start, end time.Time, filter ReportFilter, extra []string) ([]reportRow, error) {
	columns := []string{"daily"}
	params := url.Values{
		"start": {start.Format("2006-01-02")},
		"end":   {end.Format("2006-01-02")},
	}

	// Pinned entities fix the value for the whole report, so their
	// columns are not requested.
	if filter.Client != nil {
		params.Set("clientId", filter.Client.ID)
	} else {
		columns = append(columns, clientColumns...)
	}
	if filter.Project != nil {
		params.Set("projectId", filter.Project.ID)
	} else {
		columns = append(columns, projectColumns...)
	}
	if filter.User != nil {
		params.Set("userId", filter.User.ID)
	} else {
		columns = append(columns, userColumns...)
	}
	columns = append(columns, extra...)
	params.Set("columns", strings.Join(columns, ","))

	var resp reportResponse
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(resp.Columns))
	for i, name := range resp.Columns {
		idx[name] = i
	}

	rows := make([]reportRow, 0, len(resp.Data))
	for _, cells := range resp.Data {
		rows = append(rows, reportRow{idx: idx, cells: cells})
	}
	return rows, nil
}

// decodeEntry assembles the date and entity references shared by every
// report row. Entities come from the pinned filter or from the row's
// prefixed column group, resolved through the identity store either way.
func (c *Client) decodeEntry(row reportRow, filter ReportFilter) (model.ReportEntry, error) {
	daily, err := row.strCell("daily")
	if err != nil {
		return model.ReportEntry{}, err
	}
	date, err := ParseReportDate(daily)
	if err != nil {
		return model.ReportEntry{}, err
	}

	entry := model.ReportEntry{Date: date}

	if filter.Client != nil {
		entry.Client = filter.Client
	} else {
		id, err := row.strCell("client-id")
		if err != nil {
			return model.ReportEntry{}, err
		}
		code, _ := row.strCell("client-code")
		name, _ := row.strCell("client-name")
		entry.Client = c.store.GetClient(id, func(cl *model.Client) {
			cl.Code = code
			cl.Name = name
			if cl.Fill == model.FillNone {
				cl.Fill = model.FillPartial
			}
		})
	}

	if filter.Project != nil {
		entry.Project = filter.Project
	} else {
		id, err := row.strCell("project-id")
		if err != nil {
			return model.ReportEntry{}, err
		}
		code, _ := row.strCell("project-code")
		name, _ := row.strCell("project-name")
		entry.Project = c.store.GetProject(id, func(p *model.Project) {
			p.Code = code
			p.Name = name
			if p.Fill == model.FillNone {
				p.Fill = model.FillPartial
			}
		})
		entry.Project.Client = entry.Client
	}

	if filter.User != nil {
		entry.User = filter.User
	} else {
		id, err := row.strCell("user-id")
		if err != nil {
			return model.ReportEntry{}, err
		}
		name, _ := row.strCell("user-name")
		entry.User = c.store.GetUser(id, func(u *model.User) {
			if name != "" {
				u.Name = name
			}
			if u.Fill == model.FillNone {
				u.Fill = model.FillPartial
			}
		})
	}

	return entry, nil
}

// reportRow is one data row indexed by the response column header.
type reportRow struct {
	idx   map[string]int
	cells []json.RawMessage
}

func (r reportRow) cell(col string) (json.RawMessage, bool) {
	i, ok := r.idx[col]
	if !ok || i >= len(r.cells) {
		return nil, false
	}
	raw := r.cells[i]
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

// strCell returns a string cell, or "" without error when the column is
// absent or null.
func (r reportRow) strCell(col string) (string, error) {
	raw, ok := r.cell(col)
	if !ok {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", schemaErrorf("column %s: %v", col, err)
	}
	return s, nil
}

func (r reportRow) intCell(col string) (int, error) {
	raw, ok := r.cell(col)
	if !ok {
		return 0, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, schemaErrorf("column %s: %v", col, err)
	}
	return n, nil
}

func (r reportRow) floatCell(col string) (float64, error) {
	raw, ok := r.cell(col)
	if !ok {
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, schemaErrorf("column %s: %v", col, err)
	}
	return f, nil
}

func (r reportRow) boolCell(col string) (bool, error) {
	raw, ok := r.cell(col)
	if !ok {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, schemaErrorf("column %s: %v", col, err)
	}
	return b, nil
}

// ParseReportDate parses the report "daily" column, a DD/MM/YYYY date.
// Day and month may omit the leading zero.
func ParseReportDate(s string) (time.Time, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, schemaErrorf("malformed report date %q", s)
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil ||
		month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, schemaErrorf("malformed report date %q", s)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// CountReceipts counts the comma-separated receipt filenames in a report
// cell. An empty cell means no receipts.
func CountReceipts(list string) int {
	n := 0
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) != "" {
			n++
		}
	}
	return n
}
