package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/khrees2412/jobportal/internal/app"
	"github.com/khrees2412/jobportal/internal/forms"
	"github.com/khrees2412/jobportal/internal/gateway"
	"github.com/khrees2412/jobportal/internal/matcher"
	"github.com/khrees2412/jobportal/internal/reconciler"
	"github.com/khrees2412/jobportal/pkg/models"
)

// Activity actions stored in the local log.
const (
	ActionRegister = "register"
	ActionApply    = "apply"
	ActionSelect   = "select"
	ActionReject   = "reject"
	ActionPostJob  = "post_job"
	ActionAddAdmin = "add_admin"
)

func (c *Controller) requireRole(role models.Role) error {
	if c.sess.Role != role {
		return fmt.Errorf("%w: requires %s session", app.ErrForbidden, role)
	}
	return nil
}

// Apply submits the candidate's application to jobID. The job must be on the
// current dashboard, within the candidate's qualification range and not yet
// applied to.
func (c *Controller) Apply(ctx context.Context, jobID string, form forms.ApplicationForm) (models.Application, error) {
	if err := c.requireRole(models.RoleUser); err != nil {
		return models.Application{}, err
	}
	if err := form.Validate(); err != nil {
		return models.Application{}, err
	}
	if err := c.applying.acquire(); err != nil {
		return models.Application{}, err
	}
	defer c.applying.release()

	user := *c.sess.User
	c.mu.Lock()
	snap := c.cache.Snapshot()
	c.mu.Unlock()

	job, ok := findJob(snap.Jobs, jobID)
	if !ok {
		return models.Application{}, fmt.Errorf("job %s: %w", jobID, app.ErrNotFound)
	}
	if !matcher.JobEligible(user.Qualification, job) {
		return models.Application{}, fmt.Errorf("job %s: %w", jobID, app.ErrNotEligible)
	}
	if reconciler.HasApplied(snap.Applications, jobID) {
		return models.Application{}, fmt.Errorf("job %s: %w", jobID, app.ErrAlreadyApplied)
	}

	email := strings.TrimSpace(form.Email)
	if email == "" {
		email = user.Email
	}
	created, err := c.gw.SubmitApplication(ctx, gateway.ApplicationRequest{
		JobID:          jobID,
		Adhaar:         user.Adhaar,
		FullName:       strings.TrimSpace(form.FullName),
		Email:          email,
		Phone:          form.Phone,
		Experience:     form.ExperienceYears(),
		CoverLetter:    form.CoverLetter,
		ResumeFileName: form.ResumeFileName,
	})
	if err != nil {
		return models.Application{}, fmt.Errorf("failed to submit application: %w", err)
	}

	c.mu.Lock()
	c.cache.PutApplication(created)
	c.mu.Unlock()
	c.record(ctx, ActionApply, "application", created.ID, job.Title)
	c.changed()
	return created, nil
}

// Select marks a pending application as selected.
func (c *Controller) Select(ctx context.Context, appID string) (models.Application, error) {
	return c.review(ctx, &c.selecting, appID, models.StatusSelected, ActionSelect)
}

// Reject marks a pending application as rejected.
func (c *Controller) Reject(ctx context.Context, appID string) (models.Application, error) {
	return c.review(ctx, &c.rejecting, appID, models.StatusRejected, ActionReject)
}

func (c *Controller) review(ctx context.Context, g *guard, appID string, status models.Status, action string) (models.Application, error) {
	if err := c.requireRole(models.RoleAdmin); err != nil {
		return models.Application{}, err
	}
	if err := g.acquire(); err != nil {
		return models.Application{}, err
	}
	defer g.release()

	c.mu.Lock()
	snap := c.cache.Snapshot()
	c.mu.Unlock()

	current, ok := findApplication(snap.Applications, appID)
	if !ok {
		return models.Application{}, fmt.Errorf("application %s: %w", appID, app.ErrNotFound)
	}
	if !current.Status.CanTransition(status) {
		return models.Application{}, fmt.Errorf("application %s is %s: %w", appID, current.Status, app.ErrFinalStatus)
	}

	updated, err := c.gw.UpdateApplicationStatus(ctx, appID, status)
	if err != nil {
		return models.Application{}, fmt.Errorf("failed to update application: %w", err)
	}

	c.mu.Lock()
	c.cache.PutApplication(updated)
	c.mu.Unlock()
	c.record(ctx, action, "application", appID, string(status))
	c.changed()
	return updated, nil
}

// PostJob publishes a new job under the signed-in administrator.
func (c *Controller) PostJob(ctx context.Context, form forms.JobPosting) (models.Job, error) {
	if err := c.requireRole(models.RoleAdmin); err != nil {
		return models.Job{}, err
	}
	job, err := form.Job()
	if err != nil {
		return models.Job{}, err
	}
	if err := c.posting.acquire(); err != nil {
		return models.Job{}, err
	}
	defer c.posting.release()

	created, err := c.gw.PostJob(ctx, job, c.sess.Admin.AdminID)
	if err != nil {
		return models.Job{}, fmt.Errorf("failed to post job: %w", err)
	}

	c.mu.Lock()
	c.cache.PutJob(created)
	c.mu.Unlock()
	c.record(ctx, ActionPostJob, "job", created.ID, created.Title)
	c.changed()
	return created, nil
}

// AddAdmin creates another administrator account.
func (c *Controller) AddAdmin(ctx context.Context, form forms.NewAdmin) (models.Admin, error) {
	if err := c.requireRole(models.RoleAdmin); err != nil {
		return models.Admin{}, err
	}
	if err := form.Validate(); err != nil {
		return models.Admin{}, err
	}
	if err := c.adding.acquire(); err != nil {
		return models.Admin{}, err
	}
	defer c.adding.release()

	created, err := c.gw.AddAdmin(ctx, gateway.AdminRequest{
		AdminID:  strings.TrimSpace(form.AdminID),
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
	})
	if err != nil {
		return models.Admin{}, fmt.Errorf("failed to add admin: %w", err)
	}

	c.mu.Lock()
	c.cache.PutAdmin(created)
	c.mu.Unlock()
	c.record(ctx, ActionAddAdmin, "admin", created.AdminID, created.Name)
	c.changed()
	return created, nil
}

func findJob(jobs []models.Job, id string) (models.Job, bool) {
	for _, job := range jobs {
		if job.ID == id {
			return job, true
		}
	}
	return models.Job{}, false
}

func findApplication(apps []models.Application, id string) (models.Application, bool) {
	for _, a := range apps {
		if a.ID == id {
			return a, true
		}
	}
	return models.Application{}, false
}
