package ehour

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/geanix/ehour/internal/model"
)

// The Fill* methods fetch an entity's full detail record and replace the
// instance's fields with the fresh snapshot. All previously held optional
// fields are pruned first so stale values never mix with new ones; only
// the identifying ID survives. Nested client/user objects in the response
// are resolved through the identity store, and custom fields are renamed
// per the configured mapping.

// FillUser populates u with its full detail record.
func (c *Client) FillUser(ctx context.Context, u *model.User) error {
	fields, err := c.fetchDetail(ctx, "users", u.ID)
	if err != nil {
		return err
	}

	u.Reset()
	for key, raw := range fields {
		var err error
		switch key {
		case "userId", "links":
			// identity and navigation metadata
		case "active":
			err = decodeField("user", key, raw, &u.Active)
		case "firstName":
			err = decodeField("user", key, raw, &u.FirstName)
		case "lastName":
			err = decodeField("user", key, raw, &u.LastName)
		case "name":
			err = decodeField("user", key, raw, &u.Name)
		case "email":
			err = decodeField("user", key, raw, &u.Email)
		default:
			c.applyExtra("user", &u.Extra, key, raw)
		}
		if err != nil {
			return err
		}
	}

	u.DeriveName()
	if u.Name == "" {
		return schemaErrorf("user %s has no name after full fetch", u.ID)
	}
	u.Fill = model.FillFull
	return nil
}

// FillClient populates cl with its full detail record.
func (c *Client) FillClient(ctx context.Context, cl *model.Client) error {
	fields, err := c.fetchDetail(ctx, "clients", cl.ID)
	if err != nil {
		return err
	}

	cl.Reset()
	for key, raw := range fields {
		var err error
		switch {
		case key == "clientId" || key == "links":
		case key == "code":
			err = decodeField("client", key, raw, &cl.Code)
		case key == "name":
			err = decodeField("client", key, raw, &cl.Name)
		case key == "active":
			err = decodeField("client", key, raw, &cl.Active)
		case key == "description":
			var s string
			if err = decodeField("client", key, raw, &s); err == nil {
				cl.Description = splitLines(s)
			}
		case strings.HasPrefix(key, "customField"):
			name := c.cfg.CustomFieldName("client", key)
			cl.SetCustomField(name, stringValue(decodeScalar(raw)))
		default:
			c.applyExtra("client", &cl.Extra, key, raw)
		}
		if err != nil {
			return err
		}
	}

	if cl.Name == "" {
		return schemaErrorf("client %s has no name after full fetch", cl.ID)
	}
	cl.Fill = model.FillFull
	return nil
}

// FillProject populates p with its full detail record.
func (c *Client) FillProject(ctx context.Context, p *model.Project) error {
	fields, err := c.fetchDetail(ctx, "projects", p.ID)
	if err != nil {
		return err
	}

	p.Reset()
	for key, raw := range fields {
		var err error
		switch {
		case key == "projectId" || key == "links":
		case key == "code":
			err = decodeField("project", key, raw, &p.Code)
		case key == "name":
			err = decodeField("project", key, raw, &p.Name)
		case key == "active":
			err = decodeField("project", key, raw, &p.Active)
		case key == "billable":
			err = decodeField("project", key, raw, &p.Billable)
		case key == "budgetInMinutes":
			err = decodeField("project", key, raw, &p.BudgetMinutes)
		case key == "contact":
			err = decodeField("project", key, raw, &p.Contact)
		case key == "description":
			var s string
			if err = decodeField("project", key, raw, &s); err == nil {
				p.Description = splitLines(s)
			}
		case key == "client":
			cl, ok := c.resolveNestedClient(raw)
			if !ok {
				return schemaErrorf("project %s: client field is not a client object", p.ID)
			}
			p.Client = cl
		case key == "projectManager":
			u, ok := c.resolveNestedUser(raw)
			if !ok {
				return schemaErrorf("project %s: projectManager field is not a user object", p.ID)
			}
			p.ProjectManager = u
		default:
			c.applyExtra("project", &p.Extra, key, raw)
		}
		if err != nil {
			return err
		}
	}

	if p.Name == "" {
		return schemaErrorf("project %s has no name after full fetch", p.ID)
	}
	p.Fill = model.FillFull
	return nil
}

// FetchUser returns the unique User for id, filling it from the API when
// it does not hold a full snapshot yet.
func (c *Client) FetchUser(ctx context.Context, id string) (*model.User, error) {
	u := c.store.GetUser(id, nil)
	if u.Fill != model.FillFull {
		if err := c.FillUser(ctx, u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// FetchClient returns the unique Client for id, filling it from the API
// when it does not hold a full snapshot yet.
func (c *Client) FetchClient(ctx context.Context, id string) (*model.Client, error) {
	cl := c.store.GetClient(id, nil)
	if cl.Fill != model.FillFull {
		if err := c.FillClient(ctx, cl); err != nil {
			return nil, err
		}
	}
	return cl, nil
}

// FetchProject returns the unique Project for id, filling it from the API
// when it does not hold a full snapshot yet.
func (c *Client) FetchProject(ctx context.Context, id string) (*model.Project, error) {
	p := c.store.GetProject(id, nil)
	if p.Fill != model.FillFull {
		if err := c.FillProject(ctx, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// fetchDetail fetches a single entity record as a field map, so unknown
// server fields survive into the Extra side map.
func (c *Client) fetchDetail(ctx context.Context, collection, id string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := c.getJSON(ctx, collection+"/"+id, nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// applyExtra stores an unrecognized response field in the entity's Extra
// map, after custom-field renaming and nested-entity resolution.
func (c *Client) applyExtra(entity string, extra *map[string]any, key string, raw json.RawMessage) {
	name := key
	if strings.HasPrefix(key, "customField") {
		name = c.cfg.CustomFieldName(entity, key)
	}

	var value any
	if cl, ok := c.resolveNestedClient(raw); ok {
		value = cl
	} else if u, ok := c.resolveNestedUser(raw); ok {
		value = u
	} else {
		value = decodeScalar(raw)
	}

	if *extra == nil {
		*extra = make(map[string]any)
	}
	(*extra)[name] = value
}

// nestedClient is a client object embedded in another entity's record.
type nestedClient struct {
	ClientID string `json:"clientId"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`
}

// resolveNestedClient resolves an embedded client object through the
// identity store, so the reference obeys the one-instance-per-ID rule.
func (c *Client) resolveNestedClient(raw json.RawMessage) (*model.Client, bool) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil, false
	}
	var nc nestedClient
	if err := json.Unmarshal(raw, &nc); err != nil || nc.ClientID == "" {
		return nil, false
	}
	cl := c.store.GetClient(nc.ClientID, func(cl *model.Client) {
		cl.Code = nc.Code
		cl.Name = nc.Name
		cl.Active = nc.Active
		if cl.Fill == model.FillNone {
			cl.Fill = model.FillPartial
		}
	})
	return cl, true
}

// nestedUser is a user object embedded in another entity's record. Typed
// decoding drops the navigation metadata ("links") on the floor.
type nestedUser struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Active    bool   `json:"active"`
}

// resolveNestedUser resolves an embedded user object through the identity
// store.
func (c *Client) resolveNestedUser(raw json.RawMessage) (*model.User, bool) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil, false
	}
	var nu nestedUser
	if err := json.Unmarshal(raw, &nu); err != nil || nu.UserID == "" {
		return nil, false
	}
	u := c.store.GetUser(nu.UserID, func(u *model.User) {
		u.FirstName = nu.FirstName
		u.LastName = nu.LastName
		if nu.Name != "" {
			u.Name = nu.Name
		}
		u.Email = nu.Email
		u.Active = nu.Active
		u.DeriveName()
		if u.Fill == model.FillNone {
			u.Fill = model.FillPartial
		}
	})
	return u, true
}

// decodeField decodes a single response field into a typed destination.
// A type mismatch means the server contract changed, which is fatal.
func decodeField[T any](entity, key string, raw json.RawMessage, dst *T) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return schemaErrorf("%s field %s: %v", entity, key, err)
	}
	return nil
}

// decodeScalar decodes a response value of unknown type. Multi-line
// strings become an ordered slice of lines.
func decodeScalar(raw json.RawMessage) any {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.Contains(s, "\n") {
			return splitLines(s)
		}
		return s
	}
	var v any
	if err := json.Unmarshal(raw, &v); err == nil {
		return v
	}
	return string(raw)
}

// splitLines splits a multi-line string into lines, tolerating CRLF and a
// trailing newline.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
