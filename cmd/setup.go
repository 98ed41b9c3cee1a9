package cmd

import (
	"fmt"

	"github.com/geanix/ehour/internal/config"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfigFile)
	if err != nil {
		return err
	}

	apiKey := cfg.API.Key
	baseURL := cfg.BaseURL()
	eagerFill := cfg.General.EagerFill
	onlyActive := cfg.General.OnlyActive

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("eHour API key").
				Description("Generated under Settings > API keys in eHour.").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewInput().
				Title("API base URL").
				Value(&baseURL),
			huh.NewConfirm().
				Title("Only list active entities?").
				Value(&onlyActive),
			huh.NewConfirm().
				Title("Eagerly fetch full records in list commands?").
				Description("One extra request per listed entity.").
				Value(&eagerFill),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.API.Key = apiKey
	cfg.API.BaseURL = baseURL
	cfg.General.EagerFill = eagerFill
	cfg.General.OnlyActive = onlyActive

	if err := config.Save(cfg, flagConfigFile); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	path := flagConfigFile
	if path == "" {
		path = config.Path()
	}
	fmt.Printf("Saved to %s\n", path)
	return nil
}
