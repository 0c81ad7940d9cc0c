// Package store persists intake records into a single keyed table.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"lead-intake/internal/models"
)

var (
	// ErrNotConfigured means the backend credential was never supplied.
	ErrNotConfigured = errors.New("record store not configured")
	// ErrUnavailable covers transport, auth and server-side failures.
	ErrUnavailable = errors.New("record store unavailable")
	// ErrDuplicate means a record with the same row key already exists.
	ErrDuplicate = errors.New("record already exists")
)

// Store owns the table holding intake records.
type Store interface {
	// EnsureTable creates the table when it does not exist yet. Calling it
	// for an existing table is not an error.
	EnsureTable(ctx context.Context) (Table, error)
	Driver() string
	Close() error
}

// Table writes records. Put never overwrites an existing row.
type Table interface {
	Put(ctx context.Context, record *models.IntakeRecord) error
}

// NotConfiguredError names the setting an operator has to supply.
type NotConfiguredError struct {
	Driver  string
	Setting string
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("%s store: %s not set", e.Driver, e.Setting)
}

func (e *NotConfiguredError) Is(target error) bool {
	return target == ErrNotConfigured
}

func unavailable(driver, op string, err error) error {
	return fmt.Errorf("%s %s: %w", driver, op, errors.Join(ErrUnavailable, err))
}

func duplicate(driver, rowKey string) error {
	return fmt.Errorf("%s put %s: %w", driver, rowKey, ErrDuplicate)
}

// ==========================
// Unconfigured store
// ==========================

type unconfiguredStore struct {
	err *NotConfiguredError
}

// NewUnconfigured returns a Store whose every call fails with a
// NotConfiguredError naming setting.
func NewUnconfigured(driver, setting string) Store {
	return &unconfiguredStore{err: &NotConfiguredError{Driver: driver, Setting: setting}}
}

func (s *unconfiguredStore) EnsureTable(ctx context.Context) (Table, error) {
	return nil, s.err
}

func (s *unconfiguredStore) Driver() string { return s.err.Driver }

func (s *unconfiguredStore) Close() error { return nil }

// ==========================
// Table handle cache
// ==========================

type cachedStore struct {
	Store
	mu    sync.Mutex
	table Table
}

// WithTableCache remembers the first successfully ensured table so later
// requests skip the create round trip. Failures are not cached.
func WithTableCache(s Store) Store {
	return &cachedStore{Store: s}
}

func (c *cachedStore) EnsureTable(ctx context.Context) (Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.table != nil {
		return c.table, nil
	}
	table, err := c.Store.EnsureTable(ctx)
	if err != nil {
		return nil, err
	}
	c.table = table
	return table, nil
}
