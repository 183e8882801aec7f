// Package txmanager serializes writers against the embedded store.
//
// Every mutating operation runs inside Write, which holds the exclusive side
// of a RWMutex for the lifetime of one gorm transaction. Readers run inside
// Read, which holds the shared side, so a reader never observes a line set
// that a writer has only partly replaced. The version column on each
// aggregate is still checked inside the transaction, which keeps the
// optimistic-lock contract intact when several processes share a server
// database.
package txmanager

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

type Func func(tx *gorm.DB) error

type Manager struct {
	db *gorm.DB
	mu sync.RWMutex
}

func New(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// DB returns the untransacted handle for statements that need no isolation.
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Write runs fn inside an exclusive write transaction. The caller's context
// is honored until the lock is acquired; after that the transaction runs to
// commit or rollback regardless of cancellation.
func (m *Manager) Write(ctx context.Context, fn Func) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return m.db.WithContext(context.WithoutCancel(ctx)).Transaction(fn)
}

// Read runs fn inside a read transaction that excludes concurrent writers.
func (m *Manager) Read(ctx context.Context, fn Func) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.db.WithContext(ctx).Transaction(fn)
}
