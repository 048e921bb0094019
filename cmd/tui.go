package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/khrees2412/jobportal/internal/dashboard"
	"github.com/khrees2412/jobportal/internal/forms"
	"github.com/khrees2412/jobportal/internal/matcher"
	"github.com/khrees2412/jobportal/internal/reconciler"
	"github.com/khrees2412/jobportal/pkg/models"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"tui"},
	Short:   "Browse jobs interactively",
	Long:    "Interactive job browser: view details, check your match and apply without leaving the list",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := loadDashboard(cmd, models.RoleUser)
		if err != nil {
			return err
		}
		return runBrowser(cmd, c)
	},
}

func runBrowser(cmd *cobra.Command, c *dashboard.Controller) error {
	p := newPrompter(cmd)

	for {
		if err := cmd.Context().Err(); err != nil {
			return nil
		}
		v := c.View()
		if v.User == nil || len(v.User.Jobs) == 0 {
			cmd.Println("No jobs are open right now.")
			return nil
		}
		jobs := v.User.Jobs

		cmd.Println(titleStyle.Render("Job Browser"))
		cmd.Println("Enter a job number to view details, 'r' to refresh or 'q' to quit")
		cmd.Println()
		for i, js := range jobs {
			cmd.Printf("%d. %s  %s\n", i+1, js.Job.Title, renderBadge(js.Badge))
		}

		input := p.ask("\nChoice")
		switch strings.ToLower(input) {
		case "q", "":
			return nil
		case "r":
			if err := c.Refresh(cmd.Context()); err != nil {
				cmd.Println(errorStyle.Render(dashboard.ConnectivityMessage))
			}
			continue
		}

		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(jobs) {
			cmd.Println("Invalid selection")
			continue
		}
		if err := browseJob(cmd, c, p, jobs[n-1].Job.ID); err != nil {
			return err
		}
	}
}

// browseJob shows one job until the user goes back. The state is re-read
// from the controller on every pass so an application shows up immediately.
func browseJob(cmd *cobra.Command, c *dashboard.Controller, p *prompter, jobID string) error {
	user := *c.Session().User
	for {
		js, ok := jobStateByID(c.View(), jobID)
		if !ok {
			cmd.Println("This job is no longer listed.")
			return nil
		}

		cmd.Println("\n" + strings.Repeat("=", 60))
		renderJobDetail(cmd.OutOrStdout(), js.Job)
		cmd.Printf("\n%s %s\n", labelStyle.Render("Status:"), renderBadge(js.Badge))
		cmd.Printf("%s %d/100\n", labelStyle.Render("Match:"), matcher.Score(user, js.Job).Score)

		cmd.Println("\nOptions:")
		if js.CanApply {
			cmd.Println("  [a] Apply to this job")
		}
		cmd.Println("  [b] Back to list")

		switch strings.ToLower(p.ask("\nChoice")) {
		case "a":
			if !js.CanApply {
				cmd.Println("Invalid choice")
				continue
			}
			form := forms.ApplicationForm{
				FullName:   user.Name,
				Email:      user.Email,
				Phone:      user.Phone,
				Experience: fmt.Sprint(user.Experience),
			}
			p.fill("Phone (10 digits)", &form.Phone)
			form.ResumeFileName = resumeName(p.ask("Resume file"))
			form.CoverLetter = p.ask("Cover letter (optional)")

			created, err := c.Apply(cmd.Context(), jobID, form)
			if err != nil {
				if errors.Is(err, forms.ErrValidation) {
					_ = reportInvalid(cmd, err)
				} else {
					cmd.Println(errorStyle.Render("✗ " + err.Error()))
				}
				continue
			}
			cmd.Printf("✓ Application submitted (status %s)\n", renderStatus(created.Status))
		case "b", "":
			return nil
		default:
			cmd.Println("Invalid choice")
		}
	}
}

func jobStateByID(v dashboard.View, id string) (reconciler.JobState, bool) {
	if v.User == nil {
		return reconciler.JobState{}, false
	}
	for _, js := range v.User.Jobs {
		if js.Job.ID == id {
			return js, true
		}
	}
	return reconciler.JobState{}, false
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
