package cmd

import (
	"fmt"
	"sort"

	"github.com/geanix/ehour/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfigFile)
	if err != nil {
		return err
	}

	path := flagConfigFile
	if path == "" {
		path = config.Path()
	}
	fmt.Printf("  Config file: %s\n", path)
	if config.Exists() || flagConfigFile != "" {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [api]")
	fmt.Printf("    Key:      %s\n", maskAPIKey(cfg.APIKey()))
	fmt.Printf("    Base URL: %s\n", cfg.BaseURL())
	fmt.Println()

	fmt.Println("  [general]")
	fmt.Printf("    Only active: %v\n", cfg.General.OnlyActive)
	fmt.Printf("    Eager fill:  %v\n", cfg.General.EagerFill)

	if len(cfg.CustomFields) > 0 {
		fmt.Println()
		fmt.Println("  [custom_fields]")
		entities := make([]string, 0, len(cfg.CustomFields))
		for entity := range cfg.CustomFields {
			entities = append(entities, entity)
		}
		sort.Strings(entities)
		for _, entity := range entities {
			fields := cfg.CustomFields[entity]
			names := make([]string, 0, len(fields))
			for raw := range fields {
				names = append(names, raw)
			}
			sort.Strings(names)
			for _, raw := range names {
				fmt.Printf("    %s.%s = %q\n", entity, raw, fields[raw])
			}
		}
	}
	return nil
}
