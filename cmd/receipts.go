package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var flagReceiptsDir string

var receiptsCmd = &cobra.Command{
	Use:   "receipts EXPENSE_ID",
	Short: "Download receipt files for an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runReceipts,
}

func init() {
	receiptsCmd.Flags().StringVarP(&flagReceiptsDir, "output-dir", "o", ".", "Directory to save receipt files in")
	rootCmd.AddCommand(receiptsCmd)
}

func runReceipts(cmd *cobra.Command, args []string) error {
	api, _, err := connect()
	if err != nil {
		return err
	}

	files, err := api.Receipts(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No receipts.")
		return nil
	}

	if err := os.MkdirAll(flagReceiptsDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	for name, data := range files {
		// Receipt names come from the server; keep only the base name so
		// they can't escape the output directory.
		path := filepath.Join(flagReceiptsDir, filepath.Base(name))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Println(path)
	}
	return nil
}
