package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/khrees2412/jobportal/internal/forms"
	"github.com/khrees2412/jobportal/internal/matcher"
	"github.com/khrees2412/jobportal/internal/reconciler"
	"github.com/khrees2412/jobportal/pkg/models"
	"github.com/spf13/cobra"
)

var jobCmd = &cobra.Command{
	Use:     "jobs",
	Aliases: []string{"job"},
	Short:   "Browse and manage job postings",
	Long:    "List, view, match and post job postings on the portal",
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List active jobs",
	Example: `  jobportal jobs list
  jobportal jobs list --search physics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		_, c, err := loadDashboard(cmd, "")
		if err != nil {
			return err
		}
		v := c.View()
		w := cmd.OutOrStdout()

		if v.Admin != nil {
			jobs := reconciler.FilterJobs(v.Admin.Jobs, search)
			if len(jobs) == 0 {
				cmd.Println("No jobs found.")
				return nil
			}
			cmd.Println(titleStyle.Render("Active Jobs"))
			for i, job := range jobs {
				renderJobState(w, i, reconciler.JobState{Job: job})
			}
			return nil
		}

		visible := map[string]bool{}
		for _, job := range reconciler.FilterJobs(jobsOf(v.User.Jobs), search) {
			visible[job.ID] = true
		}
		if len(visible) == 0 {
			cmd.Println("No jobs found.")
			return nil
		}
		cmd.Println(titleStyle.Render("Active Jobs"))
		i := 0
		for _, js := range v.User.Jobs {
			if visible[js.Job.ID] {
				renderJobState(w, i, js)
				i++
			}
		}
		return nil
	},
}

var showJobCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show a job's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		job, err := a.Gateway.GetJob(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("fetch job: %w", err)
		}
		renderJobDetail(cmd.OutOrStdout(), job)

		sess, ok, _ := a.Sessions.Load(cmd.Context())
		if ok && sess.Role == models.RoleUser {
			apps, err := a.Gateway.ListApplicationsFor(cmd.Context(), sess.User.Adhaar)
			if err != nil {
				return fmt.Errorf("fetch applications: %w", err)
			}
			js := reconciler.StateFor(*sess.User, job, apps)
			cmd.Printf("\n%s %s\n", labelStyle.Render("Your status:"), renderBadge(js.Badge))
			if js.CanApply {
				cmd.Printf("Apply with 'jobportal apply %s --resume <file>'\n", job.ID)
			}
		}
		return nil
	},
}

var recommendedJobsCmd = &cobra.Command{
	Use:   "recommended",
	Short: "List jobs matching your qualification",
	RunE: func(cmd *cobra.Command, args []string) error {
		ranked, _ := cmd.Flags().GetBool("ranked")
		_, c, err := loadDashboard(cmd, models.RoleUser)
		if err != nil {
			return err
		}
		v := c.View()
		user := *v.Session.User

		if len(v.User.Recommended) == 0 {
			cmd.Printf("No jobs currently match %s.\n", user.Qualification)
			return nil
		}
		cmd.Println(titleStyle.Render("Recommended Jobs"))
		if !ranked {
			for i, job := range v.User.Recommended {
				renderJobState(cmd.OutOrStdout(), i, reconciler.StateFor(user, job, v.User.Applications))
			}
			return nil
		}
		for i, r := range matcher.Rank(user, jobsOf(v.User.Jobs)) {
			cmd.Printf("%s %s %s\n", labelStyle.Render(fmt.Sprintf("%d.", i+1)), r.Job.Title, mutedStyle.Render("("+r.Job.ID+")"))
			cmd.Printf("   %s %d/100   %s %s\n", labelStyle.Render("Score:"), r.Score, labelStyle.Render("Range:"), qualificationRange(r.Job))
		}
		return nil
	},
}

var matchJobCmd = &cobra.Command{
	Use:   "match <job-id>",
	Short: "Show how well a job matches your profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, sess, err := requireSession(cmd, models.RoleUser)
		if err != nil {
			return err
		}
		job, err := a.Gateway.GetJob(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("fetch job: %w", err)
		}

		result := matcher.Score(*sess.User, job)
		cmd.Println(titleStyle.Render("Match: " + job.Title))
		cmd.Printf("%s %d/100\n", labelStyle.Render("Overall:"), result.Score)
		cmd.Printf("  Qualification  %3d  (60%%)\n", result.QualificationMatch)
		cmd.Printf("  Experience     %3d  (30%%)\n", result.ExperienceMatch)
		cmd.Printf("  Location       %3d  (10%%)\n", result.LocationMatch)
		if len(result.Reasoning) > 0 {
			cmd.Println(labelStyle.Render("\nWhy:"))
			for _, r := range result.Reasoning {
				cmd.Printf("  • %s\n", r)
			}
		}
		if !matcher.JobEligible(sess.User.Qualification, job) {
			cmd.Println(notEligibleStyle.Render("\nYour qualification is outside this job's range."))
		}
		return nil
	},
}

var postJobCmd = &cobra.Command{
	Use:   "post",
	Short: "Post a new job (admin)",
	Example: `  jobportal jobs post --title "Assistant Professor" --department Physics --location Pune \
    --salary "60000/month" --min M.Sc --max PhD --description "..." --requirement "NET qualified"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := loadDashboard(cmd, models.RoleAdmin)
		if err != nil {
			return err
		}
		form := forms.JobPosting{}
		form.Title, _ = cmd.Flags().GetString("title")
		form.Department, _ = cmd.Flags().GetString("department")
		form.Location, _ = cmd.Flags().GetString("location")
		form.Salary, _ = cmd.Flags().GetString("salary")
		form.MinQualification, _ = cmd.Flags().GetString("min")
		form.MaxQualification, _ = cmd.Flags().GetString("max")
		form.Description, _ = cmd.Flags().GetString("description")
		reqs, _ := cmd.Flags().GetStringArray("requirement")
		form.Requirements = strings.Join(reqs, "\n")

		p := newPrompter(cmd)
		p.fill("Title", &form.Title)
		p.fill("Department", &form.Department)
		p.fill("Location", &form.Location)
		p.fill("Salary", &form.Salary)
		p.fill("Minimum Qualification", &form.MinQualification)
		p.fill("Maximum Qualification", &form.MaxQualification)
		p.fill("Description", &form.Description)
		if len(reqs) == 0 && !cmd.Flags().Changed("requirement") {
			form.Requirements = p.multiline("Requirements")
		}

		job, err := c.PostJob(cmd.Context(), form)
		if err != nil {
			return reportInvalid(cmd, err)
		}
		cmd.Printf("✓ Job posted: %s (ID: %s)\n", job.Title, job.ID)
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <job-id>",
	Short: "Apply to a job (candidate)",
	Example: `  jobportal apply 65f1c2... --resume ~/cv.pdf --cover-letter "I teach..."`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := loadDashboard(cmd, models.RoleUser)
		if err != nil {
			return err
		}
		user := c.Session().User

		form := forms.ApplicationForm{}
		form.FullName, _ = cmd.Flags().GetString("name")
		form.Email, _ = cmd.Flags().GetString("email")
		form.Phone, _ = cmd.Flags().GetString("phone")
		form.CoverLetter, _ = cmd.Flags().GetString("cover-letter")
		form.ResumeFileName, _ = cmd.Flags().GetString("resume")
		if cmd.Flags().Changed("experience") {
			exp, _ := cmd.Flags().GetInt("experience")
			form.Experience = fmt.Sprint(exp)
		}

		// Profile details prefill the form.
		if form.FullName == "" {
			form.FullName = user.Name
		}
		if form.Email == "" {
			form.Email = user.Email
		}
		if form.Phone == "" {
			form.Phone = user.Phone
		}
		if form.Experience == "" {
			form.Experience = fmt.Sprint(user.Experience)
		}
		p := newPrompter(cmd)
		p.fill("Phone (10 digits)", &form.Phone)
		p.fill("Resume file", &form.ResumeFileName)
		form.ResumeFileName = resumeName(form.ResumeFileName)

		created, err := c.Apply(cmd.Context(), args[0], form)
		if err != nil {
			return reportInvalid(cmd, err)
		}
		cmd.Printf("✓ Application submitted (ID: %s, status %s)\n", created.ID, renderStatus(created.Status))
		return nil
	},
}

// resumeName keeps only the file name; the portal stores names, not paths.
func resumeName(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

func jobsOf(states []reconciler.JobState) []models.Job {
	jobs := make([]models.Job, len(states))
	for i, js := range states {
		jobs[i] = js.Job
	}
	return jobs
}

func init() {
	rootCmd.AddCommand(jobCmd)
	rootCmd.AddCommand(applyCmd)
	jobCmd.AddCommand(listJobsCmd)
	jobCmd.AddCommand(showJobCmd)
	jobCmd.AddCommand(recommendedJobsCmd)
	jobCmd.AddCommand(matchJobCmd)
	jobCmd.AddCommand(postJobCmd)

	listJobsCmd.Flags().String("search", "", "Filter by title, department or location")
	recommendedJobsCmd.Flags().Bool("ranked", false, "Order by recommendation score")

	postJobCmd.Flags().String("title", "", "Job title")
	postJobCmd.Flags().String("department", "", "Department")
	postJobCmd.Flags().String("location", "", "Location")
	postJobCmd.Flags().String("salary", "", "Salary")
	postJobCmd.Flags().String("min", "", "Minimum qualification")
	postJobCmd.Flags().String("max", "", "Maximum qualification")
	postJobCmd.Flags().String("description", "", "Job description")
	postJobCmd.Flags().StringArray("requirement", nil, "Requirement (repeatable)")

	applyCmd.Flags().String("name", "", "Full name (defaults to your profile)")
	applyCmd.Flags().String("email", "", "Email (defaults to your profile)")
	applyCmd.Flags().String("phone", "", "10-digit phone (defaults to your profile)")
	applyCmd.Flags().Int("experience", 0, "Years of experience (defaults to your profile)")
	applyCmd.Flags().String("cover-letter", "", "Cover letter text")
	applyCmd.Flags().String("resume", "", "Resume file")
}
