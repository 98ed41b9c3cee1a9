package cmd

import (
	"fmt"
	"sort"

	"github.com/geanix/ehour/internal/cli"
	"github.com/geanix/ehour/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagProjectClient string
	flagInactive      bool
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Show list of projects",
	Long: "Show list of projects.\n\n" +
		"Use --client to show only projects for a given client.",
	RunE: runProjects,
}

func init() {
	projectsCmd.Flags().StringVar(&flagProjectClient, "client", "", "List only projects for client (id)")
	projectsCmd.Flags().BoolVar(&flagInactive, "inactive", false, "Include inactive projects")
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, _ []string) error {
	api, _, err := connect()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var projects []*model.Project
	if flagProjectClient != "" {
		client, err := api.FetchClient(ctx, flagProjectClient)
		if err != nil {
			return err
		}
		projects, err = api.ProjectsForClient(ctx, client, !flagInactive)
		if err != nil {
			return err
		}
	} else {
		projects, err = api.Projects(ctx, "", !flagInactive)
		if err != nil {
			return err
		}
	}

	// The client reference and detail fields only come with the full
	// record; list rows are thin.
	for _, p := range projects {
		if p.Fill != model.FillFull {
			if err := api.FillProject(ctx, p); err != nil {
				return err
			}
		}
	}

	// Sort by client (id) first, and then project (id).
	sort.SliceStable(projects, func(i, j int) bool {
		ci := cli.IDSuffix(projectClientID(projects[i]))
		cj := cli.IDSuffix(projectClientID(projects[j]))
		if ci != cj {
			return ci < cj
		}
		return cli.IDSuffix(projects[i].ID) < cli.IDSuffix(projects[j].ID)
	})

	if flagJSON {
		return printJSON(projects)
	}

	if flagVerbose > 0 {
		blocks := make([]cli.Fields, 0, len(projects))
		for _, p := range projects {
			blocks = append(blocks, projectFields(p))
		}
		fmt.Print(cli.RenderVertical(blocks))
		return nil
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{p.ID, p.Code, p.Name, p.Client.String()})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Id", "Code", "Name", "Client"},
		Rows:    rows,
	}))
	return nil
}

func projectClientID(p *model.Project) string {
	if p.Client == nil {
		return ""
	}
	return p.Client.ID
}
