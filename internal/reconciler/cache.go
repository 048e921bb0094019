package reconciler

import (
	"sort"

	"github.com/khrees2412/jobportal/pkg/models"
)

// Snapshot is one fetched copy of the lists a dashboard needs.
type Snapshot struct {
	Jobs         []models.Job
	Applications []models.Application
	Admins       []models.Admin
}

type pending[T any] struct {
	item T
	// after is the last fetch sequence issued before the write was acknowledged.
	after uint64
}

// Cache merges authoritative snapshots with acknowledged local writes.
//
// Every fetch takes a sequence number from Begin. A snapshot older than the
// last applied one is discarded. A local write stays overlaid on snapshots
// whose fetch began before the write was acknowledged and is dropped by the
// first snapshot fetched after it.
//
// Cache is not safe for concurrent use.
type Cache struct {
	issued  uint64
	applied uint64
	current Snapshot

	jobs   map[string]pending[models.Job]
	apps   map[string]pending[models.Application]
	admins map[string]pending[models.Admin]
}

func NewCache() *Cache {
	return &Cache{
		jobs:   map[string]pending[models.Job]{},
		apps:   map[string]pending[models.Application]{},
		admins: map[string]pending[models.Admin]{},
	}
}

// Begin reserves the sequence number for a fetch that is about to start.
func (c *Cache) Begin() uint64 {
	c.issued++
	return c.issued
}

// Applied returns the sequence number of the snapshot currently held.
func (c *Cache) Applied() uint64 {
	return c.applied
}

// Apply installs snap fetched under seq. It reports false when a newer
// snapshot has already been applied.
func (c *Cache) Apply(seq uint64, snap Snapshot) bool {
	if seq <= c.applied {
		return false
	}
	c.applied = seq

	next := Snapshot{
		Jobs:         append([]models.Job(nil), snap.Jobs...),
		Applications: append([]models.Application(nil), snap.Applications...),
		Admins:       append([]models.Admin(nil), snap.Admins...),
	}
	next.Jobs = overlay(next.Jobs, c.jobs, seq, func(j models.Job) string { return j.ID })
	next.Applications = overlay(next.Applications, c.apps, seq, func(a models.Application) string { return a.ID })
	next.Admins = overlay(next.Admins, c.admins, seq, func(a models.Admin) string { return a.AdminID })
	c.current = next
	return true
}

// Snapshot returns a copy of the merged lists.
func (c *Cache) Snapshot() Snapshot {
	return Snapshot{
		Jobs:         append([]models.Job(nil), c.current.Jobs...),
		Applications: append([]models.Application(nil), c.current.Applications...),
		Admins:       append([]models.Admin(nil), c.current.Admins...),
	}
}

// PutJob records an acknowledged job write and applies it locally.
func (c *Cache) PutJob(job models.Job) {
	c.jobs[job.ID] = pending[models.Job]{item: job, after: c.issued}
	c.current.Jobs = upsert(c.current.Jobs, job, func(j models.Job) string { return j.ID })
}

// PutApplication records an acknowledged application write and applies it locally.
func (c *Cache) PutApplication(app models.Application) {
	c.apps[app.ID] = pending[models.Application]{item: app, after: c.issued}
	c.current.Applications = upsert(c.current.Applications, app, func(a models.Application) string { return a.ID })
}

// PutAdmin records an acknowledged admin write and applies it locally.
func (c *Cache) PutAdmin(admin models.Admin) {
	c.admins[admin.AdminID] = pending[models.Admin]{item: admin, after: c.issued}
	c.current.Admins = upsert(c.current.Admins, admin, func(a models.Admin) string { return a.AdminID })
}

// Pending returns the number of local writes not yet confirmed by a snapshot.
func (c *Cache) Pending() int {
	return len(c.jobs) + len(c.apps) + len(c.admins)
}

func overlay[T any](list []T, writes map[string]pending[T], seq uint64, id func(T) string) []T {
	keys := make([]string, 0, len(writes))
	for key := range writes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		w := writes[key]
		if seq > w.after {
			delete(writes, key)
			continue
		}
		list = upsert(list, w.item, id)
	}
	return list
}

func upsert[T any](list []T, item T, id func(T) string) []T {
	key := id(item)
	for i := range list {
		if id(list[i]) == key {
			list[i] = item
			return list
		}
	}
	return append(list, item)
}
