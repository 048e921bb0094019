package reconciler

import (
	"testing"

	"github.com/khrees2412/jobportal/pkg/models"
)

func TestCacheDiscardsStaleSnapshots(t *testing.T) {
	c := NewCache()
	first := c.Begin()
	second := c.Begin()

	if !c.Apply(second, Snapshot{Jobs: []models.Job{{ID: "new"}}}) {
		t.Fatal("expected newer snapshot to apply")
	}
	if c.Apply(first, Snapshot{Jobs: []models.Job{{ID: "old"}}}) {
		t.Fatal("older snapshot should be discarded")
	}

	jobs := c.Snapshot().Jobs
	if len(jobs) != 1 || jobs[0].ID != "new" {
		t.Errorf("expected the newer snapshot to remain, got %+v", jobs)
	}
}

func TestCacheReplacesWholesale(t *testing.T) {
	c := NewCache()
	c.Apply(c.Begin(), Snapshot{Jobs: []models.Job{{ID: "J1"}, {ID: "J2"}}})
	c.Apply(c.Begin(), Snapshot{Jobs: []models.Job{{ID: "J3"}}})

	jobs := c.Snapshot().Jobs
	if len(jobs) != 1 || jobs[0].ID != "J3" {
		t.Errorf("expected wholesale replacement, got %+v", jobs)
	}
}

func TestCacheOverlaysWriteOnInFlightSnapshot(t *testing.T) {
	c := NewCache()
	c.Apply(c.Begin(), Snapshot{Applications: []models.Application{{ID: "A1", JobID: "J1", Status: models.StatusPending}}})

	// A poll starts, then the admin's rejection is acknowledged before it returns.
	inFlight := c.Begin()
	c.PutApplication(models.Application{ID: "A1", JobID: "J1", Status: models.StatusRejected})

	if got := c.Snapshot().Applications[0].Status; got != models.StatusRejected {
		t.Fatalf("optimistic update not visible, got %s", got)
	}

	c.Apply(inFlight, Snapshot{Applications: []models.Application{{ID: "A1", JobID: "J1", Status: models.StatusPending}}})
	apps := c.Snapshot().Applications
	if len(apps) != 1 || apps[0].Status != models.StatusRejected || apps[0].JobID != "J1" {
		t.Fatalf("in-flight snapshot overwrote the acknowledged write: %+v", apps)
	}
	if c.Pending() != 1 {
		t.Fatalf("expected write to stay pending, got %d", c.Pending())
	}

	// A poll that starts after the write is authoritative.
	c.Apply(c.Begin(), Snapshot{Applications: []models.Application{{ID: "A1", JobID: "J1", Status: models.StatusRejected}}})
	if c.Pending() != 0 {
		t.Errorf("expected pending write to be dropped, got %d", c.Pending())
	}
}

func TestCacheAppendsNewItems(t *testing.T) {
	c := NewCache()
	c.Apply(c.Begin(), Snapshot{Jobs: []models.Job{{ID: "J1"}}})
	inFlight := c.Begin()
	c.PutJob(models.Job{ID: "J2"})
	c.PutAdmin(models.Admin{AdminID: "ops"})

	c.Apply(inFlight, Snapshot{Jobs: []models.Job{{ID: "J1"}}})
	snap := c.Snapshot()
	if len(snap.Jobs) != 2 || snap.Jobs[1].ID != "J2" {
		t.Errorf("expected posted job to be appended, got %+v", snap.Jobs)
	}
	if len(snap.Admins) != 1 || snap.Admins[0].AdminID != "ops" {
		t.Errorf("expected added admin to be kept, got %+v", snap.Admins)
	}
}
