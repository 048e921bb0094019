package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the portal backend is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		h, err := a.Gateway.Health(cmd.Context())
		if err != nil && h.Status == "" {
			return fmt.Errorf("%s: %w", a.Gateway.BaseURL(), err)
		}

		cmd.Println(titleStyle.Render("Backend Health"))
		field(w, "", "API", a.Gateway.BaseURL())
		field(w, "", "Status", h.Status)
		field(w, "", "Database", h.Database)
		field(w, "", "Checked", h.Timestamp)
		if h.Status != "healthy" {
			field(w, "", "Error", h.Error)
			return fmt.Errorf("backend is %s", h.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
