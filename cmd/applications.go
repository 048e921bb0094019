package cmd

import (
	"fmt"

	"github.com/khrees2412/jobportal/pkg/models"
	"github.com/spf13/cobra"
)

var applicationsCmd = &cobra.Command{
	Use:     "applications",
	Aliases: []string{"apps", "status"},
	Short:   "View and review applications",
	Long: `Candidates see their own applications. Administrators see every
application grouped by status and can select or reject pending ones.`,
}

var listApplicationsCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications",
	Example: `  jobportal applications list
  jobportal applications list --status Pending`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("status")
		var status models.Status
		if filter != "" {
			s, err := models.ParseStatus(filter)
			if err != nil {
				return err
			}
			status = s
		}

		_, c, err := loadDashboard(cmd, "")
		if err != nil {
			return err
		}
		v := c.View()
		w := cmd.OutOrStdout()

		if v.User != nil {
			titles := map[string]string{}
			for _, js := range v.User.Jobs {
				titles[js.Job.ID] = js.Job.Title
			}
			shown := 0
			cmd.Println(titleStyle.Render("Your Applications"))
			for _, a := range v.User.Applications {
				if status != "" && a.Status != status {
					continue
				}
				renderApplication(w, a, titleOr(titles, a.JobID))
				shown++
			}
			if shown == 0 {
				cmd.Println("No applications yet. Apply with 'jobportal apply <job-id>'")
			}
			return nil
		}

		cmd.Println(titleStyle.Render("Applications"))
		for _, s := range models.Statuses {
			if status != "" && s != status {
				continue
			}
			group := v.Admin.Applications.Group(s)
			fmt.Fprintf(w, "\n%s (%d)\n", statusStyles[s].Bold(true).Render(string(s)), len(group))
			for _, a := range group {
				renderApplication(w, a, titleOr(v.Admin.JobTitles, a.JobID))
			}
		}
		cmd.Printf("\n%s %d\n", labelStyle.Render("Total Applications:"), v.Admin.Applications.Total())
		return nil
	},
}

var selectApplicationCmd = &cobra.Command{
	Use:   "select <application-id>",
	Short: "Select a pending application (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reviewApplication(cmd, args[0], models.StatusSelected)
	},
}

var rejectApplicationCmd = &cobra.Command{
	Use:   "reject <application-id>",
	Short: "Reject a pending application (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reviewApplication(cmd, args[0], models.StatusRejected)
	},
}

func reviewApplication(cmd *cobra.Command, id string, status models.Status) error {
	_, c, err := loadDashboard(cmd, models.RoleAdmin)
	if err != nil {
		return err
	}
	review := c.Select
	if status == models.StatusRejected {
		review = c.Reject
	}
	updated, err := review(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to update application %s: %w", id, err)
	}
	cmd.Printf("✓ Application %s is now %s\n", updated.ID, renderStatus(updated.Status))
	return nil
}

func init() {
	rootCmd.AddCommand(applicationsCmd)
	applicationsCmd.AddCommand(listApplicationsCmd)
	applicationsCmd.AddCommand(selectApplicationCmd)
	applicationsCmd.AddCommand(rejectApplicationCmd)

	listApplicationsCmd.Flags().String("status", "", "Filter by status (Pending, Selected, Rejected)")
}
