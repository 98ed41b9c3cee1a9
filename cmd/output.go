package cmd

import (
	"fmt"
	"sort"

	"github.com/geanix/ehour/internal/cli"
	"github.com/geanix/ehour/internal/model"
)

// Field builders for --verbose output: every set field on its own line,
// in a stable order, lists indented.

func userFields(u *model.User) cli.Fields {
	var f cli.Fields
	f.Add("id", u.ID)
	f.Add("name", u.Name)
	f.Add("firstName", u.FirstName)
	f.Add("lastName", u.LastName)
	f.Add("email", u.Email)
	f.Add("active", u.Active)
	addExtra(&f, u.Extra)
	return f
}

func clientFields(c *model.Client) cli.Fields {
	var f cli.Fields
	f.Add("id", c.ID)
	f.Add("code", c.Code)
	f.Add("name", c.Name)
	f.Add("active", c.Active)
	f.Add("description", c.Description)
	for _, name := range sortedKeys(c.CustomFields) {
		f.Add(name, c.CustomFields[name])
	}
	addExtra(&f, c.Extra)
	return f
}

func projectFields(p *model.Project) cli.Fields {
	var f cli.Fields
	f.Add("id", p.ID)
	f.Add("code", p.Code)
	f.Add("name", p.Name)
	f.Add("active", p.Active)
	f.Add("billable", p.Billable)
	if p.BudgetMinutes != 0 {
		f.Add("budget", model.MinutesToDuration(p.BudgetMinutes).String())
	}
	f.Add("contact", p.Contact)
	f.Add("description", p.Description)
	if p.Client != nil {
		f.Add("client", fmt.Sprintf("%s (%s)", p.Client, p.Client.ID))
	}
	if p.ProjectManager != nil {
		f.Add("projectManager", fmt.Sprintf("%s (%s)", p.ProjectManager, p.ProjectManager.ID))
	}
	addExtra(&f, p.Extra)
	return f
}

func addExtra(f *cli.Fields, extra map[string]any) {
	for _, name := range sortedKeys(extra) {
		f.Add(name, extra[name])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
