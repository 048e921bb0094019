package cmd

import (
	"fmt"
	"slices"

	"github.com/khrees2412/jobportal/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		cfg := a.Config
		w := cmd.OutOrStdout()
		cmd.Println(titleStyle.Render("Configuration"))
		field(w, "", "Config File", config.GetConfigPath())
		field(w, "", "Database", config.DatabasePath())
		field(w, "", "API Base URL", cfg.APIBaseURL)
		field(w, "", "Poll Interval", cfg.PollInterval.String())
		field(w, "", "Request Timeout", cfg.RequestTimeout.String())
		field(w, "", "Log Level", cfg.LogLevel)
		field(w, "", "Dev Server Address", cfg.DevServerAddr)

		if cfg.ChromePath != "" {
			field(w, "", "Chrome", cfg.ChromePath)
		} else {
			field(w, "", "Chrome", "✗ Not configured (PATH lookup)")
		}
		return nil
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  jobportal config set --key api_base_url --value https://portal.example.edu/api
  jobportal config set --key poll_interval --value 10s
  jobportal config set --key log_level --value debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" || value == "" {
			return fmt.Errorf("both --key and --value are required")
		}
		if !slices.Contains(config.Keys, key) {
			return fmt.Errorf("invalid key, must be one of: %v", config.Keys)
		}

		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("error updating config: %w", err)
		}
		cmd.Printf("✓ Configuration updated: %s\n", key)

		// Reload config
		if err := config.Initialize(); err != nil {
			cmd.PrintErrf("Warning: Could not reload config: %v\n", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)

	// Flags for set command
	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
