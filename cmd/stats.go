package cmd

import (
	"fmt"

	"github.com/khrees2412/jobportal/internal/report"
	"github.com/khrees2412/jobportal/pkg/models"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View application statistics",
	Long:  "Display totals, selection rate and per-job breakdown of applications (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := loadDashboard(cmd, models.RoleAdmin)
		if err != nil {
			return err
		}
		stats := report.Summarize(*c.View().Admin)

		if stats.Total == 0 {
			cmd.Printf("No applications yet across %d jobs.\n", stats.Jobs)
			return nil
		}

		cmd.Println(titleStyle.Render("Application Statistics"))

		// Overall stats
		cmd.Printf("%s\n", labelStyle.Render("Overview"))
		cmd.Printf("  Active Jobs: %d\n", stats.Jobs)
		cmd.Printf("  Administrators: %d\n", stats.Admins)
		cmd.Printf("  Total Applications: %d\n", stats.Total)

		// Status breakdown
		cmd.Printf("\n%s\n", labelStyle.Render("Status Breakdown"))
		for _, s := range []struct {
			status models.Status
			count  int
		}{
			{models.StatusPending, stats.Pending},
			{models.StatusSelected, stats.Selected},
			{models.StatusRejected, stats.Rejected},
		} {
			percentage := float64(s.count) / float64(stats.Total) * 100
			cmd.Printf("  %s: %d (%.1f%%)\n", renderStatus(s.status), s.count, percentage)
		}

		if stats.Selected+stats.Rejected > 0 {
			cmd.Printf("\n%s\n", labelStyle.Render("Selection Rate"))
			cmd.Printf("  %.1f%% of reviewed applications were selected\n", stats.SelectionRate())
		}

		cmd.Printf("\n%s\n", labelStyle.Render("By Job"))
		for _, js := range stats.PerJob {
			if js.Total == 0 {
				continue
			}
			cmd.Printf("  %s %s\n", js.Title, mutedStyle.Render(fmt.Sprintf("(%d: %d pending, %d selected, %d rejected)",
				js.Total, js.Pending, js.Selected, js.Rejected)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
