package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/khrees2412/jobportal/internal/app"
	"github.com/khrees2412/jobportal/internal/database"
	"github.com/khrees2412/jobportal/internal/forms"
	"github.com/khrees2412/jobportal/internal/gateway"
	"github.com/khrees2412/jobportal/internal/reconciler"
	"github.com/khrees2412/jobportal/internal/session"
	"github.com/khrees2412/jobportal/pkg/models"
)

// fakeGateway is an in-memory portal. When hold is set, ListApplications
// signals entered and then blocks until hold is closed.
type fakeGateway struct {
	mu      sync.Mutex
	jobs    []models.Job
	apps    []models.Application
	admins  []models.Admin
	users   map[string]models.User
	listErr error
	mutErr  error
	calls   map[string]int
	hold    chan struct{}
	entered chan struct{}
	nextID  int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{users: map[string]models.User{}, calls: map[string]int{}}
}

func (f *fakeGateway) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeGateway) ListJobs(ctx context.Context) ([]models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ListJobs"]++
	return append([]models.Job(nil), f.jobs...), f.listErr
}

func (f *fakeGateway) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ListAdmins"]++
	return append([]models.Admin(nil), f.admins...), f.listErr
}

func (f *fakeGateway) ListApplicationsFor(ctx context.Context, adhaar string) ([]models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ListApplicationsFor"]++
	out := []models.Application{}
	for _, a := range f.apps {
		if a.Adhaar == adhaar {
			out = append(out, a)
		}
	}
	return out, f.listErr
}

func (f *fakeGateway) ListApplications(ctx context.Context, status models.Status) ([]models.Application, error) {
	f.mu.Lock()
	f.calls["ListApplications"]++
	apps := append([]models.Application(nil), f.apps...)
	err := f.listErr
	hold, entered := f.hold, f.entered
	f.mu.Unlock()

	if hold != nil {
		entered <- struct{}{}
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return apps, err
}

func (f *fakeGateway) SubmitApplication(ctx context.Context, req gateway.ApplicationRequest) (models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["SubmitApplication"]++
	if f.mutErr != nil {
		return models.Application{}, f.mutErr
	}
	f.nextID++
	a := models.Application{
		ID:             fmt.Sprintf("A%d", 100+f.nextID),
		JobID:          req.JobID,
		Adhaar:         req.Adhaar,
		FullName:       req.FullName,
		Phone:          req.Phone,
		Experience:     req.Experience,
		ResumeFileName: req.ResumeFileName,
		Status:         models.StatusPending,
	}
	f.apps = append(f.apps, a)
	return a, nil
}

func (f *fakeGateway) UpdateApplicationStatus(ctx context.Context, id string, status models.Status) (models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["UpdateApplicationStatus"]++
	if f.mutErr != nil {
		return models.Application{}, f.mutErr
	}
	for i := range f.apps {
		if f.apps[i].ID == id {
			f.apps[i].Status = status
			return f.apps[i], nil
		}
	}
	return models.Application{}, gateway.ErrNotFound
}

func (f *fakeGateway) PostJob(ctx context.Context, job models.Job, postedBy string) (models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["PostJob"]++
	if f.mutErr != nil {
		return models.Job{}, f.mutErr
	}
	f.nextID++
	job.ID = fmt.Sprintf("J%d", 100+f.nextID)
	job.PostedBy = postedBy
	job.Status = "Active"
	f.jobs = append(f.jobs, job)
	return job, nil
}

func (f *fakeGateway) AddAdmin(ctx context.Context, req gateway.AdminRequest) (models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["AddAdmin"]++
	if f.mutErr != nil {
		return models.Admin{}, f.mutErr
	}
	a := models.Admin{AdminID: req.AdminID, Name: req.Name, Email: req.Email}
	f.admins = append(f.admins, a)
	return a, nil
}

func (f *fakeGateway) LoginUser(ctx context.Context, adhaar string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["LoginUser"]++
	u, ok := f.users[adhaar]
	if !ok {
		return models.User{}, gateway.ErrNotFound
	}
	return u, nil
}

func (f *fakeGateway) RegisterUser(ctx context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["RegisterUser"]++
	if _, exists := f.users[u.Adhaar]; exists {
		return models.User{}, gateway.ErrInvalidArgument
	}
	f.users[u.Adhaar] = u
	return u, nil
}

func (f *fakeGateway) LoginAdmin(ctx context.Context, id, password string) (models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["LoginAdmin"]++
	for _, a := range f.admins {
		if a.AdminID == id && password == "secret1" {
			return a, nil
		}
	}
	return models.Admin{}, gateway.ErrUnauthorized
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []database.Activity
}

func (r *fakeRecorder) RecordActivity(ctx context.Context, a *database.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *a)
	return nil
}

func (r *fakeRecorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

var (
	candidate = models.User{Adhaar: "123412341234", Name: "Asha", Email: "asha@example.com", Qualification: models.QualBTech, Experience: 3}
	reviewer  = models.Admin{AdminID: "root", Name: "Root", Email: "root@example.com"}
)

func portalJobs() []models.Job {
	return []models.Job{
		{ID: "J1", Title: "Lab Assistant", MinQualification: models.QualDiploma, MaxQualification: models.QualMTech, Status: "Active"},
		{ID: "J2", Title: "Professor", MinQualification: models.QualMSc, MaxQualification: models.QualPhD, Status: "Active"},
		{ID: "J3", Title: "Lecturer", MinQualification: models.QualBTech, MaxQualification: models.QualPhD, Status: "Active"},
	}
}

func validApplication() forms.ApplicationForm {
	return forms.ApplicationForm{
		FullName:       "Asha",
		Email:          "asha@example.com",
		Phone:          "9876543210",
		Experience:     "3",
		ResumeFileName: "asha.pdf",
	}
}

func TestMountWithoutSession(t *testing.T) {
	gw := newFakeGateway()
	_, err := Mount(context.Background(), &fakeStore{}, gw, Options{})
	if !errors.Is(err, app.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if gw.count("ListJobs") != 0 {
		t.Error("no fetch should happen without a session")
	}
}

func TestMountRestoresRole(t *testing.T) {
	gw := newFakeGateway()
	gw.jobs = portalJobs()
	sess := session.ForAdmin(reviewer)
	store := &fakeStore{sess: &sess}

	views := make(chan View, 4)
	c, err := Mount(context.Background(), store, gw, Options{Interval: time.Hour})
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	c.Subscribe(func(v View) {
		select {
		case views <- v:
		default:
		}
	})
	defer c.Stop()

	deadline := time.After(2 * time.Second)
	for c.View().Phase != PhaseReady {
		select {
		case <-views:
		case <-deadline:
			t.Fatal("dashboard never became ready")
		case <-time.After(10 * time.Millisecond):
		}
	}
	v := c.View()
	if v.Admin == nil || v.User != nil {
		t.Fatalf("expected an admin view, got %+v", v)
	}
	if len(v.Admin.Jobs) != 3 {
		t.Errorf("expected 3 jobs, got %d", len(v.Admin.Jobs))
	}
}

func TestUserViewAfterRefresh(t *testing.T) {
	gw := newFakeGateway()
	gw.jobs = portalJobs()
	gw.apps = []models.Application{
		{ID: "A1", JobID: "J1", Adhaar: candidate.Adhaar, Status: models.StatusPending},
		{ID: "A2", JobID: "J3", Adhaar: "999999999999", Status: models.StatusPending},
	}
	c := New(session.ForUser(candidate), gw, Options{})

	if v := c.View(); v.Phase != PhaseLoading {
		t.Fatalf("expected loading before first fetch, got %s", v.Phase)
	}
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	v := c.View()
	if v.Phase != PhaseReady || v.User == nil {
		t.Fatalf("unexpected view %+v", v)
	}

	want := map[string]reconciler.Badge{
		"J1": reconciler.BadgeEligibleApplied,
		"J2": reconciler.BadgeNotEligible,
		"J3": reconciler.BadgeEligible,
	}
	for _, js := range v.User.Jobs {
		if js.Badge != want[js.Job.ID] {
			t.Errorf("%s: expected badge %q, got %q", js.Job.ID, want[js.Job.ID], js.Badge)
		}
	}
	if len(v.User.Applications) != 1 {
		t.Errorf("only the candidate's applications are fetched, got %d", len(v.User.Applications))
	}
	if gw.count("ListAdmins") != 0 {
		t.Error("candidate dashboard must not list admins")
	}
}

func TestFetchErrorAndRecovery(t *testing.T) {
	gw := newFakeGateway()
	gw.jobs = portalJobs()
	gw.listErr = errors.New("connection refused")
	c := New(session.ForUser(candidate), gw, Options{})

	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	v := c.View()
	if v.Phase != PhaseError || v.Message != ConnectivityMessage {
		t.Fatalf("expected error phase with connectivity message, got %s %q", v.Phase, v.Message)
	}

	gw.mu.Lock()
	gw.listErr = nil
	gw.mu.Unlock()
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if v := c.View(); v.Phase != PhaseReady || v.Message != "" || len(v.User.Jobs) != 3 {
		t.Errorf("expected recovery to ready, got %s with %d jobs", v.Phase, len(v.User.Jobs))
	}
}

func TestAdminRejectsSinglePending(t *testing.T) {
	gw := newFakeGateway()
	gw.jobs = portalJobs()
	gw.apps = []models.Application{{ID: "A1", JobID: "J1", Adhaar: candidate.Adhaar, Status: models.StatusPending}}
	rec := &fakeRecorder{}
	c := New(session.ForAdmin(reviewer), gw, Options{Recorder: rec})
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if _, err := c.Reject(context.Background(), "A1"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	parts := c.View().Admin.Applications
	if parts.Total() != 1 || len(parts.Rejected) != 1 {
		t.Fatalf("expected one rejected application, got %+v", parts)
	}
	if parts.Rejected[0].JobID != "J1" || parts.Rejected[0].Status != models.StatusRejected {
		t.Errorf("unexpected application %+v", parts.Rejected[0])
	}
	if got := rec.actions(); len(got) != 1 || got[0] != ActionReject {
		t.Errorf("expected one reject activity, got %v", got)
	}

	// A reviewed application cannot be reviewed again.
	if _, err := c.Select(context.Background(), "A1"); !errors.Is(err, app.ErrFinalStatus) {
		t.Errorf("expected ErrFinalStatus, got %v", err)
	}
}

func TestRejectSurvivesInFlightSnapshot(t *testing.T) {
	gw := newFakeGateway()
	gw.jobs = portalJobs()
	gw.apps = []models.Application{{ID: "A1", JobID: "J1", Status: models.StatusPending}}
	c := New(session.ForAdmin(reviewer), gw, Options{})
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// Start a poll that reads the Pending state and stalls.
	gw.mu.Lock()
	gw.hold = make(chan struct{})
	gw.entered = make(chan struct{}, 1)
	hold, entered := gw.hold, gw.entered
	gw.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()
	<-entered

	gw.mu.Lock()
	gw.hold = nil
	gw.mu.Unlock()

	if _, err := c.Reject(context.Background(), "A1"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	close(hold)
	if err := <-done; err != nil {
		t.Fatalf("stalled refresh: %v", err)
	}

	parts := c.View().Admin.Applications
	if len(parts.Rejected) != 1 || len(parts.Pending) != 0 {
		t.Fatalf("stale snapshot undid the rejection: %+v", parts)
	}

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(c.View().Admin.Applications.Rejected) != 1 {
		t.Error("expected the server to confirm the rejection")
	}
	c.mu.Lock()
	pending := c.cache.Pending()
	c.mu.Unlock()
	if pending != 0 {
		t.Errorf("expected local writes to be confirmed, %d pending", pending)
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		jobID   string
		form    forms.ApplicationForm
		wantErr error
	}{
		{"eligible", "J3", validApplication(), nil},
		{"not eligible", "J2", validApplication(), app.ErrNotEligible},
		{"already applied", "J1", validApplication(), app.ErrAlreadyApplied},
		{"unknown job", "J9", validApplication(), app.ErrNotFound},
		{"invalid form", "J3", forms.ApplicationForm{FullName: "Asha", Phone: "123"}, forms.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFakeGateway()
			gw.jobs = portalJobs()
			gw.apps = []models.Application{{ID: "A1", JobID: "J1", Adhaar: candidate.Adhaar, Status: models.StatusPending}}
			c := New(session.ForUser(candidate), gw, Options{})
			if err := c.Refresh(context.Background()); err != nil {
				t.Fatalf("refresh: %v", err)
			}

			created, err := c.Apply(context.Background(), tt.jobID, tt.form)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if gw.count("SubmitApplication") != 0 {
					t.Error("rejected application must not reach the portal")
				}
				return
			}
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			if created.Status != models.StatusPending || created.Adhaar != candidate.Adhaar {
				t.Errorf("unexpected application %+v", created)
			}
			for _, js := range c.View().User.Jobs {
				if js.Job.ID == tt.jobID && (js.CanApply || !js.Applied) {
					t.Errorf("expected %s to show as applied, got %+v", tt.jobID, js)
				}
			}
		})
	}
}

func TestMutationFailureLeavesStateUnchanged(t *testing.T) {
	gw := newFakeGateway()
	gw.jobs = portalJobs()
	c := New(session.ForUser(candidate), gw, Options{})
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	gw.mu.Lock()
	gw.mutErr = errors.New("portal unavailable")
	gw.mu.Unlock()

	if _, err := c.Apply(context.Background(), "J3", validApplication()); err == nil {
		t.Fatal("expected apply to fail")
	}
	if n := len(c.View().User.Applications); n != 0 {
		t.Errorf("failed apply changed local state: %d applications", n)
	}
	if gw.count("SubmitApplication") != 1 {
		t.Errorf("mutations are not retried, got %d calls", gw.count("SubmitApplication"))
	}
}

func TestSubmitInProgress(t *testing.T) {
	gw := newFakeGateway()
	gw.jobs = portalJobs()
	c := New(session.ForUser(candidate), gw, Options{})
	c.Refresh(context.Background())

	c.applying.busy.Store(true)
	if _, err := c.Apply(context.Background(), "J3", validApplication()); !errors.Is(err, app.ErrSubmitInProgress) {
		t.Fatalf("expected ErrSubmitInProgress, got %v", err)
	}
	c.applying.release()
	if _, err := c.Apply(context.Background(), "J3", validApplication()); err != nil {
		t.Fatalf("apply after release: %v", err)
	}
}

func TestRoleChecks(t *testing.T) {
	gw := newFakeGateway()
	user := New(session.ForUser(candidate), gw, Options{})
	admin := New(session.ForAdmin(reviewer), gw, Options{})
	ctx := context.Background()

	if _, err := user.Reject(ctx, "A1"); !errors.Is(err, app.ErrForbidden) {
		t.Errorf("user reject: expected ErrForbidden, got %v", err)
	}
	if _, err := user.PostJob(ctx, forms.JobPosting{}); !errors.Is(err, app.ErrForbidden) {
		t.Errorf("user post: expected ErrForbidden, got %v", err)
	}
	if _, err := admin.Apply(ctx, "J1", validApplication()); !errors.Is(err, app.ErrForbidden) {
		t.Errorf("admin apply: expected ErrForbidden, got %v", err)
	}
}

func TestPostJobAndAddAdmin(t *testing.T) {
	gw := newFakeGateway()
	gw.admins = []models.Admin{reviewer}
	rec := &fakeRecorder{}
	c := New(session.ForAdmin(reviewer), gw, Options{Recorder: rec})
	ctx := context.Background()
	if err := c.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	job, err := c.PostJob(ctx, forms.JobPosting{
		Title:            "Lecturer",
		Department:       "Physics",
		Location:         "Pune",
		Salary:           "50000",
		MinQualification: "B.Sc",
		MaxQualification: "PhD",
		Description:      "Teach physics",
	})
	if err != nil {
		t.Fatalf("post job: %v", err)
	}
	if job.PostedBy != "root" {
		t.Errorf("expected job posted by root, got %q", job.PostedBy)
	}

	if _, err := c.AddAdmin(ctx, forms.NewAdmin{AdminID: "ops", Name: "Ops", Email: "ops@example.com", Password: "abc"}); !errors.Is(err, forms.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gw.count("AddAdmin") != 0 {
		t.Error("invalid admin form must not reach the portal")
	}
	if _, err := c.AddAdmin(ctx, forms.NewAdmin{AdminID: "ops", Name: "Ops", Email: "ops@example.com", Password: "Secret1!"}); err != nil {
		t.Fatalf("add admin: %v", err)
	}

	v := c.View().Admin
	if len(v.Jobs) != 1 || v.Jobs[0].ID != job.ID {
		t.Errorf("expected posted job in view, got %+v", v.Jobs)
	}
	if len(v.Admins) != 2 || v.Admins[1].AdminID != "ops" {
		t.Errorf("expected new admin in view, got %+v", v.Admins)
	}
	if got := rec.actions(); len(got) != 2 || got[0] != ActionPostJob || got[1] != ActionAddAdmin {
		t.Errorf("unexpected activity %v", got)
	}
}

func TestPollingAndStop(t *testing.T) {
	gw := newFakeGateway()
	gw.jobs = portalJobs()
	c := New(session.ForUser(candidate), gw, Options{Interval: 10 * time.Millisecond})

	ready := make(chan struct{}, 16)
	c.Subscribe(func(v View) {
		if v.Phase == PhaseReady {
			select {
			case ready <- struct{}{}:
			default:
			}
		}
	})
	c.Start(context.Background())

	for i := 0; i < 3; i++ {
		select {
		case <-ready:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d polls completed", i)
		}
	}
	c.Stop()

	after := gw.count("ListJobs")
	time.Sleep(50 * time.Millisecond)
	if gw.count("ListJobs") != after {
		t.Error("polling continued after Stop")
	}
}

func TestResultsAfterStopDropped(t *testing.T) {
	gw := newFakeGateway()
	gw.jobs = portalJobs()
	gw.hold = make(chan struct{})
	gw.entered = make(chan struct{}, 1)
	c := New(session.ForAdmin(reviewer), gw, Options{Interval: time.Hour})

	notified := make(chan View, 4)
	c.Subscribe(func(v View) { notified <- v })
	c.Start(context.Background())
	<-gw.entered
	c.Stop()

	if v := c.View(); v.Phase != PhaseLoading {
		t.Errorf("expected loading after cancelled fetch, got %s", v.Phase)
	}
	select {
	case v := <-notified:
		t.Errorf("unexpected notification after Stop: %s", v.Phase)
	default:
	}
}

func TestEverySubscriberSeesRefresh(t *testing.T) {
	gw := newFakeGateway()
	gw.jobs = portalJobs()
	c := New(session.ForUser(candidate), gw, Options{Interval: time.Hour})

	var first, second []View
	c.Subscribe(func(v View) { first = append(first, v) })
	c.Subscribe(func(v View) { second = append(second, v) })

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one view per subscriber, got %d and %d", len(first), len(second))
	}
	if first[0].Phase != PhaseReady || len(second[0].User.Jobs) != 3 {
		t.Errorf("unexpected view: %+v", first[0])
	}
}
