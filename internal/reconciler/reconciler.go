package reconciler

import (
	"strings"

	"github.com/khrees2412/jobportal/internal/matcher"
	"github.com/khrees2412/jobportal/pkg/models"
)

// Badge is the combined eligibility/applied state shown on a job card.
type Badge string

const (
	BadgeEligible           Badge = "Eligible"
	BadgeEligibleApplied    Badge = "Eligible · Applied"
	BadgeNotEligible        Badge = "Not Eligible"
	BadgeNotEligibleApplied Badge = "Not Eligible · Applied"
)

// JobState is the per-job state derived for a candidate.
type JobState struct {
	Job      models.Job
	Eligible bool
	Applied  bool
	Badge    Badge
	// CanApply is false once applied and whenever the candidate is not eligible.
	CanApply bool
}

// UserView is everything the candidate dashboard renders.
type UserView struct {
	Jobs         []JobState
	Recommended  []models.Job
	Applications []models.Application
}

// BuildUserView derives the candidate dashboard from fresh lists. It is pure
// and recomputes everything on every call.
func BuildUserView(user models.User, jobs []models.Job, apps []models.Application) UserView {
	view := UserView{
		Jobs:         make([]JobState, 0, len(jobs)),
		Recommended:  Recommended(user, jobs),
		Applications: apps,
	}
	applied := appliedJobs(apps)
	for _, job := range jobs {
		view.Jobs = append(view.Jobs, jobState(user, job, applied[job.ID]))
	}
	return view
}

// StateFor derives the state of a single job.
func StateFor(user models.User, job models.Job, apps []models.Application) JobState {
	return jobState(user, job, HasApplied(apps, job.ID))
}

func jobState(user models.User, job models.Job, applied bool) JobState {
	eligible := matcher.JobEligible(user.Qualification, job)
	return JobState{
		Job:      job,
		Eligible: eligible,
		Applied:  applied,
		Badge:    badgeFor(eligible, applied),
		CanApply: eligible && !applied,
	}
}

func badgeFor(eligible, applied bool) Badge {
	switch {
	case eligible && applied:
		return BadgeEligibleApplied
	case eligible:
		return BadgeEligible
	case applied:
		return BadgeNotEligibleApplied
	default:
		return BadgeNotEligible
	}
}

// Recommended returns the jobs the user is eligible for, in input order.
func Recommended(user models.User, jobs []models.Job) []models.Job {
	out := []models.Job{}
	for _, job := range jobs {
		if matcher.JobEligible(user.Qualification, job) {
			out = append(out, job)
		}
	}
	return out
}

// HasApplied reports whether any application targets jobID.
func HasApplied(apps []models.Application, jobID string) bool {
	for _, app := range apps {
		if app.JobID == jobID {
			return true
		}
	}
	return false
}

func appliedJobs(apps []models.Application) map[string]bool {
	applied := make(map[string]bool, len(apps))
	for _, app := range apps {
		applied[app.JobID] = true
	}
	return applied
}

// FilterJobs keeps jobs whose title, department or location contains term,
// ignoring case. An empty term keeps everything.
func FilterJobs(jobs []models.Job, term string) []models.Job {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return jobs
	}
	out := []models.Job{}
	for _, job := range jobs {
		if strings.Contains(strings.ToLower(job.Title), term) ||
			strings.Contains(strings.ToLower(job.Department), term) ||
			strings.Contains(strings.ToLower(job.Location), term) {
			out = append(out, job)
		}
	}
	return out
}

// Partitions groups applications by review status for the admin tabs.
type Partitions struct {
	Pending  []models.Application
	Selected []models.Application
	Rejected []models.Application
}

// Total is the number of applications across all groups.
func (p Partitions) Total() int {
	return len(p.Pending) + len(p.Selected) + len(p.Rejected)
}

// Group returns the applications with the given status.
func (p Partitions) Group(status models.Status) []models.Application {
	switch status {
	case models.StatusPending:
		return p.Pending
	case models.StatusSelected:
		return p.Selected
	case models.StatusRejected:
		return p.Rejected
	}
	return nil
}

// Partition splits apps by status, preserving order within each group.
// Applications with an unrecognised status are counted as pending; decoded
// applications never carry one.
func Partition(apps []models.Application) Partitions {
	p := Partitions{
		Pending:  []models.Application{},
		Selected: []models.Application{},
		Rejected: []models.Application{},
	}
	for _, app := range apps {
		switch app.Status {
		case models.StatusSelected:
			p.Selected = append(p.Selected, app)
		case models.StatusRejected:
			p.Rejected = append(p.Rejected, app)
		default:
			p.Pending = append(p.Pending, app)
		}
	}
	return p
}

// AdminView is everything the admin dashboard renders.
type AdminView struct {
	Jobs         []models.Job
	Admins       []models.Admin
	Applications Partitions
	// JobTitles maps job IDs to titles for labelling applications.
	JobTitles map[string]string
}

// BuildAdminView derives the admin dashboard from fresh lists.
func BuildAdminView(jobs []models.Job, admins []models.Admin, apps []models.Application) AdminView {
	titles := make(map[string]string, len(jobs))
	for _, job := range jobs {
		titles[job.ID] = job.Title
	}
	return AdminView{
		Jobs:         jobs,
		Admins:       admins,
		Applications: Partition(apps),
		JobTitles:    titles,
	}
}
