package cmd

import (
	"fmt"

	"github.com/geanix/ehour/internal/cli"
	"github.com/geanix/ehour/internal/model"

	"github.com/spf13/cobra"
)

var flagUserIDs []string

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Show list of users",
	RunE:  runUsers,
}

func init() {
	usersCmd.Flags().StringArrayVar(&flagUserIDs, "id", nil, "Filter on user ID")
	rootCmd.AddCommand(usersCmd)
}

func runUsers(cmd *cobra.Command, _ []string) error {
	api, cfg, err := connect()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	users, err := api.Users(ctx, cfg.General.OnlyActive)
	if err != nil {
		return err
	}
	if len(flagUserIDs) > 0 {
		filtered := users[:0]
		for _, u := range users {
			if cli.Contains(flagUserIDs, u.ID) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	// User IDs are an integer prefixed with "USR"; sort on the integer.
	cli.SortByID(users, func(u *model.User) string { return u.ID })

	if flagJSON {
		return printJSON(users)
	}

	if flagVerbose > 0 {
		blocks := make([]cli.Fields, 0, len(users))
		for _, u := range users {
			if u.Fill != model.FillFull {
				if err := api.FillUser(ctx, u); err != nil {
					return err
				}
			}
			blocks = append(blocks, userFields(u))
		}
		fmt.Print(cli.RenderVertical(blocks))
		return nil
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Name, u.Email})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Id", "Name", "Email"},
		Rows:    rows,
	}))
	return nil
}
