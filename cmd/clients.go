package cmd

import (
	"fmt"

	"github.com/geanix/ehour/internal/cli"
	"github.com/geanix/ehour/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagClientIDs   []string
	flagClientCodes []string
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Show list of clients",
	RunE:  runClients,
}

func init() {
	clientsCmd.Flags().StringArrayVar(&flagClientIDs, "id", nil, "Filter on client ID")
	clientsCmd.Flags().StringArrayVar(&flagClientCodes, "code", nil, "Filter on client code field")
	rootCmd.AddCommand(clientsCmd)
}

func runClients(cmd *cobra.Command, _ []string) error {
	api, cfg, err := connect()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	clients, err := api.Clients(ctx, "", cfg.General.OnlyActive)
	if err != nil {
		return err
	}
	if len(flagClientIDs) > 0 || len(flagClientCodes) > 0 {
		filtered := clients[:0]
		for _, c := range clients {
			if len(flagClientIDs) > 0 && !cli.Contains(flagClientIDs, c.ID) {
				continue
			}
			if len(flagClientCodes) > 0 && !cli.Contains(flagClientCodes, c.Code) {
				continue
			}
			filtered = append(filtered, c)
		}
		clients = filtered
	}

	// Client IDs are an integer prefixed with "CLT"; sort on the integer.
	cli.SortByID(clients, func(c *model.Client) string { return c.ID })

	if flagJSON {
		return printJSON(clients)
	}

	if flagVerbose > 0 {
		blocks := make([]cli.Fields, 0, len(clients))
		for _, c := range clients {
			if c.Fill != model.FillFull {
				if err := api.FillClient(ctx, c); err != nil {
					return err
				}
			}
			blocks = append(blocks, clientFields(c))
		}
		fmt.Print(cli.RenderVertical(blocks))
		return nil
	}

	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []string{c.ID, c.Code, c.Name})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Id", "Code", "Name"},
		Rows:    rows,
	}))
	return nil
}
