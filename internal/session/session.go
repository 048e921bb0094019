package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/khrees2412/jobportal/internal/database"
	"github.com/khrees2412/jobportal/pkg/models"
)

// Keys of the two persisted entries.
const (
	keyIdentity = "currentUser"
	keyRole     = "userType"
)

// Session is the signed-in identity. Exactly one of User and Admin is set,
// matching Role.
type Session struct {
	Role  models.Role
	User  *models.User
	Admin *models.Admin
}

// ForUser starts a candidate session.
func ForUser(u models.User) Session {
	return Session{Role: models.RoleUser, User: &u}
}

// ForAdmin starts an administrator session.
func ForAdmin(a models.Admin) Session {
	return Session{Role: models.RoleAdmin, Admin: &a}
}

// Actor is the identifier recorded against actions taken in this session.
func (s Session) Actor() string {
	switch {
	case s.User != nil:
		return s.User.Adhaar
	case s.Admin != nil:
		return s.Admin.AdminID
	}
	return ""
}

// DisplayName is the name shown in dashboard headers.
func (s Session) DisplayName() string {
	switch {
	case s.User != nil:
		return s.User.Name
	case s.Admin != nil:
		return s.Admin.Name
	}
	return ""
}

// Store persists the session across runs. The stored identity is trusted
// until Clear; there is no expiry.
type Store struct {
	repo *database.Repository
}

func NewStore(repo *database.Repository) *Store {
	return &Store{repo: repo}
}

// Load restores the saved session. ok is false when nothing complete is saved.
func (s *Store) Load(ctx context.Context) (Session, bool, error) {
	role, ok, err := s.repo.GetEntry(ctx, keyRole)
	if err != nil || !ok {
		return Session{}, false, err
	}
	raw, ok, err := s.repo.GetEntry(ctx, keyIdentity)
	if err != nil || !ok {
		return Session{}, false, err
	}

	switch models.Role(role) {
	case models.RoleUser:
		var u models.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return Session{}, false, fmt.Errorf("decode stored user: %w", err)
		}
		return ForUser(u), true, nil
	case models.RoleAdmin:
		var a models.Admin
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return Session{}, false, fmt.Errorf("decode stored admin: %w", err)
		}
		return ForAdmin(a), true, nil
	default:
		return Session{}, false, fmt.Errorf("stored session has unknown role %q", role)
	}
}

// Save replaces the stored session.
func (s *Store) Save(ctx context.Context, sess Session) error {
	var identity any
	switch {
	case sess.Role == models.RoleUser && sess.User != nil:
		identity = sess.User
	case sess.Role == models.RoleAdmin && sess.Admin != nil:
		identity = sess.Admin
	default:
		return fmt.Errorf("session role %q does not match its identity", sess.Role)
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	return s.repo.SetEntries(ctx, map[string]string{
		keyIdentity: string(raw),
		keyRole:     string(sess.Role),
	})
}

// Clear forgets the stored session.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.DeleteEntries(ctx, keyIdentity, keyRole)
}
