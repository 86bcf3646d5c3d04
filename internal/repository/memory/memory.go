// Package memory implements the storage ports in process. It backs tests and
// the demo mode, where it is seeded with fixtures.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samuelcg20/Apt/internal/domain"

	"github.com/google/uuid"
)

// DB holds every table behind one lock; uniqueness and cascades are
// checked under it.
type DB struct {
	mu sync.RWMutex

	users        map[uuid.UUID]*domain.User
	profiles     map[uuid.UUID]*domain.StudentProfile
	projects     map[uuid.UUID]*domain.PortfolioProject
	tasks        map[uuid.UUID]*domain.Task
	applications map[uuid.UUID]*domain.Application
	reviews      map[uuid.UUID]*domain.Review

	// insertion order breaks created_at ties
	seq   int64
	order map[uuid.UUID]int64
}

func New() *DB {
	return &DB{
		users:        make(map[uuid.UUID]*domain.User),
		profiles:     make(map[uuid.UUID]*domain.StudentProfile),
		projects:     make(map[uuid.UUID]*domain.PortfolioProject),
		tasks:        make(map[uuid.UUID]*domain.Task),
		applications: make(map[uuid.UUID]*domain.Application),
		reviews:      make(map[uuid.UUID]*domain.Review),
		order:        make(map[uuid.UUID]int64),
	}
}

func NewStores(db *DB) domain.Stores {
	return domain.Stores{
		Users:        &userStore{db},
		Profiles:     &profileStore{db},
		Tasks:        &taskStore{db},
		Applications: &applicationStore{db},
		Reviews:      &reviewStore{db},
		Ping:         func(context.Context) error { return nil },
	}
}

// must hold mu
func (db *DB) track(id uuid.UUID) {
	db.seq++
	db.order[id] = db.seq
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now().UTC()
	}
}

// newestFirst orders by created_at desc, then by reverse insertion
func newestFirst[T any](db *DB, items []T, key func(T) (uuid.UUID, time.Time)) {
	sort.SliceStable(items, func(i, j int) bool {
		idI, tI := key(items[i])
		idJ, tJ := key(items[j])
		if !tI.Equal(tJ) {
			return tI.After(tJ)
		}
		return db.order[idI] > db.order[idJ]
	})
}
