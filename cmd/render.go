package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/khrees2412/jobportal/internal/dashboard"
	"github.com/khrees2412/jobportal/internal/reconciler"
	"github.com/khrees2412/jobportal/pkg/models"
)

func renderJobState(w io.Writer, i int, js reconciler.JobState) {
	job := js.Job
	badge := ""
	if js.Badge != "" {
		badge = "  " + renderBadge(js.Badge)
	}
	fmt.Fprintf(w, "\n%s %s%s\n", labelStyle.Render(fmt.Sprintf("%d.", i+1)), job.Title, badge)
	field(w, "   ", "ID", job.ID)
	field(w, "   ", "Department", job.Department)
	field(w, "   ", "Location", job.Location)
	field(w, "   ", "Salary", job.Salary)
	field(w, "   ", "Qualification", qualificationRange(job))
}

func renderJobDetail(w io.Writer, job models.Job) {
	fmt.Fprintln(w, titleStyle.Render(job.Title))
	field(w, "", "ID", job.ID)
	field(w, "", "Department", job.Department)
	field(w, "", "Location", job.Location)
	field(w, "", "Salary", job.Salary)
	field(w, "", "Qualification", qualificationRange(job))
	field(w, "", "Posted By", job.PostedBy)
	field(w, "", "Posted", job.PostedDate)
	if job.Description != "" {
		fmt.Fprintln(w, labelStyle.Render("\nDescription:"))
		fmt.Fprintln(w, job.Description)
	}
	if len(job.Requirements) > 0 {
		fmt.Fprintln(w, labelStyle.Render("\nRequirements:"))
		for _, r := range job.Requirements {
			fmt.Fprintf(w, "  • %s\n", r)
		}
	}
}

func renderApplication(w io.Writer, a models.Application, jobTitle string) {
	name := a.FullName
	if name == "" {
		name = a.Adhaar
	}
	fmt.Fprintf(w, "  • %s for %s  %s\n", name, jobTitle, renderStatus(a.Status))
	details := []string{"ID: " + a.ID}
	if a.Experience > 0 {
		details = append(details, fmt.Sprintf("%d yrs", a.Experience))
	}
	if a.Phone != "" {
		details = append(details, a.Phone)
	}
	if t := a.AppliedAt(); !t.IsZero() {
		details = append(details, "Applied "+t.Format("Jan 2, 2006"))
	}
	fmt.Fprintf(w, "    %s\n", mutedStyle.Render(strings.Join(details, " | ")))
}

// renderView draws a full dashboard frame.
func renderView(w io.Writer, v dashboard.View) {
	switch v.Phase {
	case dashboard.PhaseLoading:
		fmt.Fprintln(w, mutedStyle.Render("Loading dashboard..."))
		return
	case dashboard.PhaseError:
		fmt.Fprintln(w, bannerStyle.Render(errorStyle.Render("Connection problem")+"\n\n"+v.Message))
		return
	}

	header := fmt.Sprintf("%s Dashboard · %s", titleCaser.String(string(v.Session.Role)), v.Session.DisplayName())
	fmt.Fprintln(w, titleStyle.Render(header))
	if v.User != nil {
		renderUserView(w, *v.User)
	}
	if v.Admin != nil {
		renderAdminView(w, *v.Admin)
	}
	fmt.Fprintf(w, "\n%s\n", mutedStyle.Render("Updated "+v.UpdatedAt.Format("15:04:05")))
}

func renderUserView(w io.Writer, v reconciler.UserView) {
	fmt.Fprintf(w, "%s (%d)\n", labelStyle.Render("Recommended for you"), len(v.Recommended))
	for _, job := range v.Recommended {
		fmt.Fprintf(w, "  • %s %s\n", job.Title, mutedStyle.Render("("+job.ID+")"))
	}

	fmt.Fprintf(w, "\n%s (%d)\n", labelStyle.Render("All jobs"), len(v.Jobs))
	for i, js := range v.Jobs {
		renderJobState(w, i, js)
	}

	titles := map[string]string{}
	for _, js := range v.Jobs {
		titles[js.Job.ID] = js.Job.Title
	}
	fmt.Fprintf(w, "\n%s (%d)\n", labelStyle.Render("My applications"), len(v.Applications))
	for _, a := range v.Applications {
		renderApplication(w, a, titleOr(titles, a.JobID))
	}
}

func renderAdminView(w io.Writer, v reconciler.AdminView) {
	fmt.Fprintf(w, "%s %d   %s %d   %s %d\n",
		labelStyle.Render("Jobs:"), len(v.Jobs),
		labelStyle.Render("Admins:"), len(v.Admins),
		labelStyle.Render("Applications:"), v.Applications.Total())

	for _, status := range models.Statuses {
		group := v.Applications.Group(status)
		fmt.Fprintf(w, "\n%s (%d)\n", statusStyles[status].Bold(true).Render(string(status)), len(group))
		for _, a := range group {
			renderApplication(w, a, titleOr(v.JobTitles, a.JobID))
		}
	}
}

func titleOr(titles map[string]string, id string) string {
	if t, ok := titles[id]; ok && t != "" {
		return t
	}
	return id
}
