package cmd

import (
	"context"
	"fmt"

	"github.com/geanix/ehour/internal/cli"
	"github.com/geanix/ehour/internal/ehour"

	"github.com/spf13/cobra"
)

var (
	flagHoursUser    string
	flagHoursClient  string
	flagHoursProject string
)

var hoursCmd = &cobra.Command{
	Use:   "hours START END",
	Short: "Show hours tracked between two dates",
	Args:  cobra.ExactArgs(2),
	RunE:  runHours,
}

func init() {
	hoursCmd.Flags().StringVar(&flagHoursUser, "user", "", "Only hours tracked for this user (id)")
	hoursCmd.Flags().StringVar(&flagHoursClient, "client", "", "Only hours tracked for this client (id)")
	hoursCmd.Flags().StringVar(&flagHoursProject, "project", "", "Only hours tracked on this project (id)")
	rootCmd.AddCommand(hoursCmd)
}

func runHours(cmd *cobra.Command, args []string) error {
	// Validate date arguments before touching the network.
	start, err := cli.ParseDate(args[0])
	if err != nil {
		return err
	}
	end, err := cli.ParseDate(args[1])
	if err != nil {
		return err
	}

	api, _, err := connect()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	filter, err := reportFilter(ctx, api, flagHoursUser, flagHoursClient, flagHoursProject)
	if err != nil {
		return err
	}

	report, err := api.Hours(ctx, start, end, filter)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(report)
	}

	rows := make([][]string, 0, len(report))
	for _, h := range report {
		rows = append(rows, []string{
			cli.FormatDate(h.Date),
			h.Client.String(),
			h.Project.String(),
			h.User.String(),
			h.Duration.String(),
			cli.FormatAmount(h.Rate),
			cli.FormatAmount(h.Turnover),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Client", "Project", "User", "Hours", "Rate", "Turnover"},
		Aligns: []cli.Align{
			cli.AlignLeft, cli.AlignLeft, cli.AlignLeft, cli.AlignLeft,
			cli.AlignCenter, cli.AlignRight, cli.AlignRight,
		},
		Rows: rows,
	}))
	return nil
}

// reportFilter resolves the pinned user/client/project IDs into cached
// entities, fetching their detail records so names are known for output.
func reportFilter(ctx context.Context, api *ehour.Client, userID, clientID, projectID string) (ehour.ReportFilter, error) {
	var filter ehour.ReportFilter
	var err error
	if userID != "" {
		if filter.User, err = api.FetchUser(ctx, userID); err != nil {
			return filter, err
		}
	}
	if clientID != "" {
		if filter.Client, err = api.FetchClient(ctx, clientID); err != nil {
			return filter, err
		}
	}
	if projectID != "" {
		if filter.Project, err = api.FetchProject(ctx, projectID); err != nil {
			return filter, err
		}
	}
	return filter, nil
}
