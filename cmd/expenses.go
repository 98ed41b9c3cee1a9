package cmd

import (
	"fmt"
	"strconv"

	"github.com/geanix/ehour/internal/cli"

	"github.com/spf13/cobra"
)

var (
	flagExpensesUser    string
	flagExpensesClient  string
	flagExpensesProject string
)

var expensesCmd = &cobra.Command{
	Use:   "expenses START END",
	Short: "Show expenses between two dates",
	Args:  cobra.ExactArgs(2),
	RunE:  runExpenses,
}

func init() {
	expensesCmd.Flags().StringVar(&flagExpensesUser, "user", "", "Only expenses for this user (id)")
	expensesCmd.Flags().StringVar(&flagExpensesClient, "client", "", "Only expenses for this client (id)")
	expensesCmd.Flags().StringVar(&flagExpensesProject, "project", "", "Only expenses on this project (id)")
	rootCmd.AddCommand(expensesCmd)
}

func runExpenses(cmd *cobra.Command, args []string) error {
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

	filter, err := reportFilter(ctx, api, flagExpensesUser, flagExpensesClient, flagExpensesProject)
	if err != nil {
		return err
	}

	report, err := api.Expenses(ctx, start, end, filter)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(report)
	}

	rows := make([][]string, 0, len(report))
	for _, e := range report {
		receipts := ""
		if e.NumReceipts > 0 {
			receipts = strconv.Itoa(e.NumReceipts)
		}
		rows = append(rows, []string{
			cli.FormatDate(e.Date),
			e.Client.String(),
			e.Project.String(),
			e.User.String(),
			e.Category.Name,
			e.Name,
			cli.FormatAmount(e.Cost),
			cli.FormatAmount(e.VAT),
			receipts,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Client", "Project", "User", "Category", "Name", "Cost", "VAT", "Receipts"},
		Aligns: []cli.Align{
			cli.AlignLeft, cli.AlignLeft, cli.AlignLeft, cli.AlignLeft,
			cli.AlignLeft, cli.AlignLeft, cli.AlignRight, cli.AlignRight,
			cli.AlignCenter,
		},
		Rows: rows,
	}))
	return nil
}
