package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/khrees2412/jobportal/internal/database"
	"github.com/khrees2412/jobportal/pkg/models"
)

func newTestStore(t *testing.T) (*Store, *database.Repository) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	repo := database.NewRepository(db)
	return NewStore(repo), repo
}

func TestLoadEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	if _, ok, err := store.Load(context.Background()); err != nil || ok {
		t.Fatalf("expected no session, got ok=%v err=%v", ok, err)
	}
}

func TestSaveLoadClear(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	user := models.User{Adhaar: "123412341234", Name: "Asha", Qualification: models.QualMSc, Experience: 4}
	if err := store.Save(ctx, ForUser(user)); err != nil {
		t.Fatalf("save user: %v", err)
	}
	sess, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if sess.Role != models.RoleUser || sess.User == nil || *sess.User != user || sess.Admin != nil {
		t.Fatalf("unexpected session: %+v", sess)
	}

	// Signing in as an admin replaces the user.
	if err := store.Save(ctx, ForAdmin(models.Admin{AdminID: "root", Name: "Root"})); err != nil {
		t.Fatalf("save admin: %v", err)
	}
	sess, _, _ = store.Load(ctx)
	if sess.Role != models.RoleAdmin || sess.Admin == nil || sess.Admin.AdminID != "root" || sess.User != nil {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if sess.Actor() != "root" || sess.DisplayName() != "Root" {
		t.Errorf("unexpected actor %q name %q", sess.Actor(), sess.DisplayName())
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := store.Load(ctx); ok {
		t.Error("session should be cleared")
	}
}

func TestLoadIncomplete(t *testing.T) {
	ctx := context.Background()
	store, repo := newTestStore(t)
	if err := repo.SetEntries(ctx, map[string]string{keyRole: "user"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Errorf("expected no session with only a role stored, got ok=%v err=%v", ok, err)
	}
}

func TestLoadUnknownRole(t *testing.T) {
	ctx := context.Background()
	store, repo := newTestStore(t)
	repo.SetEntries(ctx, map[string]string{keyRole: "guest", keyIdentity: "{}"})
	if _, _, err := store.Load(ctx); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestSaveMismatchedRole(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Save(context.Background(), Session{Role: models.RoleAdmin, User: &models.User{Adhaar: "1"}})
	if err == nil {
		t.Error("expected error for mismatched session")
	}
}
