package ehour

import (
	"context"
	"net/url"

	"github.com/geanix/ehour/internal/model"
)

// List endpoints return thin records: the identifying fields plus a few
// display fields. Each element is resolved through the identity store so
// repeated listings keep returning the same instances. The full detail
// record is fetched per entity only when eager fill is configured; the
// default leaves entities partially filled until a Fill*/Fetch* call.

type userRow struct {
	UserID    string `json:"userId"`
	Active    bool   `json:"active"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Users lists user accounts, restricted to active ones when onlyActive is
// set.
func (c *Client) Users(ctx context.Context, onlyActive bool) ([]*model.User, error) {
	query := url.Values{"state": {stateValue(onlyActive)}}
	var rows []userRow
	if err := c.getJSON(ctx, "users", query, &rows); err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(rows))
	for _, row := range rows {
		if row.UserID == "" {
			return nil, schemaErrorf("user list entry missing userId")
		}
		u := c.store.GetUser(row.UserID, func(u *model.User) {
			u.Active = row.Active
			u.FirstName = row.FirstName
			u.LastName = row.LastName
			u.Email = row.Email
			u.DeriveName()
			if u.Fill == model.FillNone {
				u.Fill = model.FillPartial
			}
		})
		if c.cfg.General.EagerFill {
			if err := c.FillUser(ctx, u); err != nil {
				return nil, err
			}
		}
		users = append(users, u)
	}
	return users, nil
}

type clientRow struct {
	ClientID string `json:"clientId"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`
}

// Clients lists clients, optionally filtered by a free-text query.
func (c *Client) Clients(ctx context.Context, query string, onlyActive bool) ([]*model.Client, error) {
	params := url.Values{"state": {stateValue(onlyActive)}}
	if query != "" {
		params.Set("query", query)
	}
	var rows []clientRow
	if err := c.getJSON(ctx, "clients", params, &rows); err != nil {
		return nil, err
	}

	clients := make([]*model.Client, 0, len(rows))
	for _, row := range rows {
		if row.ClientID == "" {
			return nil, schemaErrorf("client list entry missing clientId")
		}
		cl := c.store.GetClient(row.ClientID, func(cl *model.Client) {
			cl.Code = row.Code
			cl.Name = row.Name
			cl.Active = row.Active
			if cl.Fill == model.FillNone {
				cl.Fill = model.FillPartial
			}
		})
		if c.cfg.General.EagerFill {
			if err := c.FillClient(ctx, cl); err != nil {
				return nil, err
			}
		}
		clients = append(clients, cl)
	}
	return clients, nil
}

type projectRow struct {
	ProjectID string `json:"projectId"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
}

// Projects lists projects, optionally filtered by a free-text query.
func (c *Client) Projects(ctx context.Context, query string, onlyActive bool) ([]*model.Project, error) {
	params := url.Values{"state": {stateValue(onlyActive)}}
	if query != "" {
		params.Set("query", query)
	}
	var rows []projectRow
	if err := c.getJSON(ctx, "projects", params, &rows); err != nil {
		return nil, err
	}
	return c.collectProjects(ctx, rows)
}

// ProjectsForClient lists the projects belonging to one client. The
// endpoint has no server-side state filter, so inactive projects are
// dropped here when onlyActive is set.
func (c *Client) ProjectsForClient(ctx context.Context, client *model.Client, onlyActive bool) ([]*model.Project, error) {
	var rows []projectRow
	if err := c.getJSON(ctx, "clients/"+client.ID+"/projects", nil, &rows); err != nil {
		return nil, err
	}
	projects, err := c.collectProjects(ctx, rows)
	if err != nil {
		return nil, err
	}
	if onlyActive {
		active := projects[:0]
		for _, p := range projects {
			if p.Active {
				active = append(active, p)
			}
		}
		projects = active
	}
	return projects, nil
}

func (c *Client) collectProjects(ctx context.Context, rows []projectRow) ([]*model.Project, error) {
	projects := make([]*model.Project, 0, len(rows))
	for _, row := range rows {
		if row.ProjectID == "" {
			return nil, schemaErrorf("project list entry missing projectId")
		}
		p := c.store.GetProject(row.ProjectID, func(p *model.Project) {
			p.Code = row.Code
			p.Name = row.Name
			p.Active = row.Active
			if p.Fill == model.FillNone {
				p.Fill = model.FillPartial
			}
		})
		if c.cfg.General.EagerFill {
			if err := c.FillProject(ctx, p); err != nil {
				return nil, err
			}
		}
		projects = append(projects, p)
	}
	return projects, nil
}
