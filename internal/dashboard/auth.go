package dashboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/khrees2412/jobportal/internal/database"
	"github.com/khrees2412/jobportal/internal/forms"
	"github.com/khrees2412/jobportal/internal/session"
	"github.com/khrees2412/jobportal/pkg/models"
)

// AuthGateway is the subset of the portal client used to sign in.
type AuthGateway interface {
	LoginUser(ctx context.Context, adhaar string) (models.User, error)
	RegisterUser(ctx context.Context, u models.User) (models.User, error)
	LoginAdmin(ctx context.Context, id, password string) (models.Admin, error)
}

// SessionStore persists the signed-in identity.
type SessionStore interface {
	SessionLoader
	Save(ctx context.Context, s session.Session) error
	Clear(ctx context.Context) error
}

// Auth signs identities in and out. Forms are validated before any request
// is made.
type Auth struct {
	Gateway  AuthGateway
	Store    SessionStore
	Recorder Recorder
	Logger   *slog.Logger
}

func (a *Auth) LoginUser(ctx context.Context, form forms.UserLogin) (session.Session, error) {
	if err := form.Validate(); err != nil {
		return session.Session{}, err
	}
	u, err := a.Gateway.LoginUser(ctx, strings.TrimSpace(form.Adhaar))
	if err != nil {
		return session.Session{}, fmt.Errorf("login failed: %w", err)
	}
	return a.save(ctx, session.ForUser(u))
}

func (a *Auth) LoginAdmin(ctx context.Context, form forms.AdminLogin) (session.Session, error) {
	if err := form.Validate(); err != nil {
		return session.Session{}, err
	}
	admin, err := a.Gateway.LoginAdmin(ctx, strings.TrimSpace(form.ID), form.Password)
	if err != nil {
		return session.Session{}, fmt.Errorf("login failed: %w", err)
	}
	return a.save(ctx, session.ForAdmin(admin))
}

// Register creates the candidate account and signs it in.
func (a *Auth) Register(ctx context.Context, form forms.Registration) (session.Session, error) {
	u, err := form.User()
	if err != nil {
		return session.Session{}, err
	}
	created, err := a.Gateway.RegisterUser(ctx, u)
	if err != nil {
		return session.Session{}, fmt.Errorf("registration failed: %w", err)
	}
	sess, err := a.save(ctx, session.ForUser(created))
	if err != nil {
		return sess, err
	}
	if a.Recorder != nil {
		err := a.Recorder.RecordActivity(ctx, &database.Activity{
			Actor:    created.Adhaar,
			Role:     string(models.RoleUser),
			Action:   ActionRegister,
			Entity:   "user",
			EntityID: created.Adhaar,
			Details:  created.Name,
		})
		if err != nil {
			a.logger().Warn("failed to record activity", "action", ActionRegister, "error", err)
		}
	}
	return sess, nil
}

func (a *Auth) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a.Logger
}

// Logout forgets the stored identity.
func (a *Auth) Logout(ctx context.Context) error {
	return a.Store.Clear(ctx)
}

func (a *Auth) save(ctx context.Context, s session.Session) (session.Session, error) {
	if err := a.Store.Save(ctx, s); err != nil {
		return session.Session{}, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}
