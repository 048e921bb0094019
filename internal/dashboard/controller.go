// Package dashboard drives the candidate and administrator dashboards: it
// polls the portal, merges results with local writes and issues mutations.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/khrees2412/jobportal/internal/app"
	"github.com/khrees2412/jobportal/internal/database"
	"github.com/khrees2412/jobportal/internal/gateway"
	"github.com/khrees2412/jobportal/internal/reconciler"
	"github.com/khrees2412/jobportal/internal/session"
	"github.com/khrees2412/jobportal/pkg/models"
	"golang.org/x/sync/errgroup"
)

// ConnectivityMessage is shown in place of the dashboard while the portal
// cannot be reached.
const ConnectivityMessage = "Unable to reach the job portal. Check that the backend is running; the dashboard retries automatically."

// DefaultInterval is the polling period used when none is configured.
const DefaultInterval = 5 * time.Second

// Phase is the lifecycle state of a controller.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Gateway is the subset of the portal client the dashboards use.
type Gateway interface {
	ListJobs(ctx context.Context) ([]models.Job, error)
	ListAdmins(ctx context.Context) ([]models.Admin, error)
	ListApplicationsFor(ctx context.Context, adhaar string) ([]models.Application, error)
	ListApplications(ctx context.Context, status models.Status) ([]models.Application, error)
	SubmitApplication(ctx context.Context, req gateway.ApplicationRequest) (models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status models.Status) (models.Application, error)
	PostJob(ctx context.Context, job models.Job, postedBy string) (models.Job, error)
	AddAdmin(ctx context.Context, req gateway.AdminRequest) (models.Admin, error)
}

// Recorder keeps a local log of mutations issued from this client.
type Recorder interface {
	RecordActivity(ctx context.Context, a *database.Activity) error
}

// Options configures a controller. The zero value polls every
// DefaultInterval and records nothing.
type Options struct {
	Interval time.Duration
	Recorder Recorder
	Logger   *slog.Logger
}

// View is the rendered state handed to subscribers. Exactly one of User and
// Admin is set, matching the session role.
type View struct {
	Phase     Phase
	Message   string
	Session   session.Session
	User      *reconciler.UserView
	Admin     *reconciler.AdminView
	UpdatedAt time.Time
	// Err is the last fetch failure while in PhaseError.
	Err error
}

// guard disables an action while a submission of it is outstanding.
type guard struct {
	busy atomic.Bool
}

func (g *guard) acquire() error {
	if !g.busy.CompareAndSwap(false, true) {
		return app.ErrSubmitInProgress
	}
	return nil
}

func (g *guard) release() { g.busy.Store(false) }

// Controller owns one dashboard for the lifetime of a session.
type Controller struct {
	sess   session.Session
	gw     Gateway
	opts   Options
	logger *slog.Logger

	// mu guards the fields below. It protects memory only; ordering between
	// polls and mutations comes from the cache's sequence numbers.
	mu        sync.Mutex
	cache     *reconciler.Cache
	phase     Phase
	lastErr   error
	updatedAt time.Time
	subs      []func(View)
	started   bool
	stopped   bool
	cancel    context.CancelFunc

	wg sync.WaitGroup

	applying  guard
	selecting guard
	rejecting guard
	posting   guard
	adding    guard
}

// New builds a controller for sess. It does not fetch until Start or Refresh.
func New(sess session.Session, gw Gateway, opts Options) *Controller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		sess:   sess,
		gw:     gw,
		opts:   opts,
		logger: logger.With("role", string(sess.Role), "actor", sess.Actor()),
		cache:  reconciler.NewCache(),
		phase:  PhaseLoading,
	}
}

// SessionLoader restores a persisted session.
type SessionLoader interface {
	Load(ctx context.Context) (session.Session, bool, error)
}

// Mount restores the session and only then builds and starts the matching
// controller. Without a stored session it returns app.ErrNoSession and
// nothing is fetched.
func Mount(ctx context.Context, store SessionLoader, gw Gateway, opts Options) (*Controller, error) {
	sess, ok, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	if !ok {
		return nil, app.ErrNoSession
	}
	c := New(sess, gw, opts)
	c.Start(ctx)
	return c, nil
}

// Session returns the identity the controller was built for.
func (c *Controller) Session() session.Session {
	return c.sess
}

// Subscribe registers fn to receive a View after every state change.
// Callbacks run on the goroutine that made the change.
func (c *Controller) Subscribe(fn func(View)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// Start fetches immediately and then on every tick until Stop or until ctx
// is done. Ticks do not wait for earlier fetches to finish.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	c.started = true
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.fetch(ctx)
	}()
	go c.poll(ctx)
}

func (c *Controller) poll(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.wg.Add(1)
			go func() {
				defer c.wg.Done()
				c.fetch(ctx)
			}()
		}
	}
}

// Stop cancels the ticker and any in-flight fetches and waits for them to
// return. Results that arrive afterwards are dropped.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.stopped = true
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// Refresh runs one fetch synchronously and returns its error.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.fetch(ctx)
}

// View returns the current rendered state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	v := View{
		Phase:     c.phase,
		Session:   c.sess,
		UpdatedAt: c.updatedAt,
	}
	if c.phase == PhaseError {
		v.Message = ConnectivityMessage
		v.Err = c.lastErr
	}
	snap := c.cache.Snapshot()
	switch c.sess.Role {
	case models.RoleUser:
		uv := reconciler.BuildUserView(*c.sess.User, snap.Jobs, snap.Applications)
		v.User = &uv
	case models.RoleAdmin:
		av := reconciler.BuildAdminView(snap.Jobs, snap.Admins, snap.Applications)
		v.Admin = &av
	}
	return v
}

func (c *Controller) notify(v View) {
	c.mu.Lock()
	subs := append([]func(View){}, c.subs...)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(v)
	}
}

// changed publishes the current view to subscribers.
func (c *Controller) changed() {
	c.notify(c.View())
}

func (c *Controller) fetch(ctx context.Context) error {
	c.mu.Lock()
	seq := c.cache.Begin()
	c.mu.Unlock()

	snap, err := c.load(ctx)

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return err
	}
	if err != nil {
		// Cancellation is not a connectivity failure, and a failure older
		// than the snapshot on screen says nothing about the current state.
		if errors.Is(err, context.Canceled) || seq <= c.cache.Applied() {
			c.mu.Unlock()
			return err
		}
		c.phase = PhaseError
		c.lastErr = err
		v := c.viewLocked()
		c.mu.Unlock()
		c.logger.Warn("dashboard fetch failed", "seq", seq, "error", err)
		c.notify(v)
		return err
	}
	if !c.cache.Apply(seq, snap) {
		c.mu.Unlock()
		c.logger.Debug("discarded stale snapshot", "seq", seq)
		return nil
	}
	c.phase = PhaseReady
	c.lastErr = nil
	c.updatedAt = time.Now()
	v := c.viewLocked()
	c.mu.Unlock()
	c.notify(v)
	return nil
}

// load issues the role's batch of list requests in parallel.
func (c *Controller) load(ctx context.Context) (reconciler.Snapshot, error) {
	var snap reconciler.Snapshot
	if c.sess.Role != models.RoleUser && c.sess.Role != models.RoleAdmin {
		return snap, fmt.Errorf("unknown role %q", c.sess.Role)
	}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		jobs, err := c.gw.ListJobs(ctx)
		snap.Jobs = jobs
		return err
	})
	switch c.sess.Role {
	case models.RoleUser:
		g.Go(func() error {
			apps, err := c.gw.ListApplicationsFor(ctx, c.sess.User.Adhaar)
			snap.Applications = apps
			return err
		})
	case models.RoleAdmin:
		g.Go(func() error {
			admins, err := c.gw.ListAdmins(ctx)
			snap.Admins = admins
			return err
		})
		g.Go(func() error {
			apps, err := c.gw.ListApplications(ctx, "")
			snap.Applications = apps
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return reconciler.Snapshot{}, err
	}
	return snap, nil
}

func (c *Controller) record(ctx context.Context, action, entity, entityID, details string) {
	if c.opts.Recorder == nil {
		return
	}
	err := c.opts.Recorder.RecordActivity(ctx, &database.Activity{
		Actor:    c.sess.Actor(),
		Role:     string(c.sess.Role),
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	})
	if err != nil {
		c.logger.Warn("failed to record activity", "action", action, "error", err)
	}
}
