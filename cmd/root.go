// Package cmd implements the ehour CLI commands.
package cmd

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/geanix/ehour/internal/config"
	"github.com/geanix/ehour/internal/ehour"
	"github.com/geanix/ehour/internal/logging"

	"github.com/spf13/cobra"
)

var (
	flagAPIKey     string
	flagConfigFile string
	flagJSON       bool
	flagVerbose    int
	flagDebug      bool
)

var rootCmd = &cobra.Command{
	Use:   "ehour",
	Short: "CLI interface for eHour 2",
	Long: "Shell access to eHour 2 data using the REST API.\n" +
		"eHour 2 is a cloud hosted timesheet management solution.\n" +
		"See https://getehour.com for details.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logging.Setup(flagDebug)
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagAPIKey, "api-key", "k", "",
		"API key for the eHour API (defaults to $EHOUR_API_KEY)")
	pf.StringVarP(&flagConfigFile, "config-file", "c", "",
		"Configuration file (defaults to $EHOUR_CONFIG_FILE)")
	pf.BoolVarP(&flagJSON, "json", "j", false, "JSON output")
	pf.CountVarP(&flagVerbose, "verbose", "v", "Verbose output")
	pf.BoolVar(&flagDebug, "debug", false, "Debug logging")
}

// connect loads the configuration and builds an authenticated API client.
func connect() (*ehour.Client, config.Config, error) {
	cfg, err := config.Load(flagConfigFile)
	if err != nil {
		return nil, cfg, err
	}

	key := flagAPIKey
	if key == "" {
		key = cfg.APIKey()
	}
	if key == "" {
		return nil, cfg, errors.New("missing API key: use --api-key or set EHOUR_API_KEY")
	}

	return ehour.New(key, cfg), cfg, nil
}

// printJSON writes v as indented JSON on stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func maskAPIKey(key string) string {
	if len(key) > 8 {
		return key[:4] + "..." + key[len(key)-2:]
	}
	if len(key) > 0 {
		return "****"
	}
	return "(not set)"
}
