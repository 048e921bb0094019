package cmd

import (
	"time"

	"github.com/khrees2412/jobportal/internal/report"
	"github.com/khrees2412/jobportal/pkg/models"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export an applications report (admin)",
	Long: `Write the administrator dashboard to an HTML or PDF file. PDF output
needs Chrome or Chromium; set chrome_path if it is not on PATH.`,
	Example: `  jobportal report --out applications.html
  jobportal report --out applications.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		a, c, err := loadDashboard(cmd, models.RoleAdmin)
		if err != nil {
			return err
		}
		v := c.View()
		data := report.NewData(*v.Admin, v.Session.DisplayName())
		exporter := &report.PDFExporter{
			ChromePath: a.Config.ChromePath,
			Timeout:    timeout,
			Logger:     a.Logger,
		}

		cmd.Printf("⏳ Writing report to %s...\n", out)
		if err := report.WriteFile(cmd.Context(), out, data, exporter); err != nil {
			return err
		}
		cmd.Printf("✓ Report saved: %s (%d applications)\n", out, data.Stats.Total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("out", "applications.html", "Output file (.html or .pdf)")
	reportCmd.Flags().Duration("timeout", 30*time.Second, "PDF rendering timeout")
}
