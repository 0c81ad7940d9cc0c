package store

import (
	"context"
	"errors"
	"testing"

	"lead-intake/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *models.IntakeRecord {
	return &models.IntakeRecord{
		RequestID: "REQ-0A1B2C3D",
		CreatedAt: "2026-03-01T12:00:00Z",
		Status:    models.IntakeStatusNew,
		IntakeFields: models.IntakeFields{
			Name:         "Ann",
			Email:        "a@b.com",
			BusinessName: "Acme",
			ProjectType:  "site",
			Goals:        "grow",
		},
	}
}

type countingStore struct {
	calls int
	err   error
}

func (s *countingStore) EnsureTable(ctx context.Context) (Table, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return noopTable{}, nil
}

func (s *countingStore) Driver() string { return "counting" }
func (s *countingStore) Close() error   { return nil }

type noopTable struct{}

func (noopTable) Put(ctx context.Context, record *models.IntakeRecord) error { return nil }

func TestUnconfigured(t *testing.T) {
	s := NewUnconfigured("aztable", "INTAKE_STORAGE_CONNECTION_STRING")

	table, err := s.EnsureTable(context.Background())

	assert.Nil(t, table)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.False(t, errors.Is(err, ErrUnavailable))

	var nc *NotConfiguredError
	require.True(t, errors.As(err, &nc))
	assert.Equal(t, "INTAKE_STORAGE_CONNECTION_STRING", nc.Setting)
	assert.Equal(t, "aztable", s.Driver())
	assert.NoError(t, s.Close())
}

func TestWithTableCache_CachesSuccess(t *testing.T) {
	inner := &countingStore{}
	s := WithTableCache(inner)

	for i := 0; i < 3; i++ {
		_, err := s.EnsureTable(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "counting", s.Driver())
}

func TestWithTableCache_DoesNotCacheFailure(t *testing.T) {
	inner := &countingStore{err: unavailable("counting", "create table", errors.New("down"))}
	s := WithTableCache(inner)

	_, err := s.EnsureTable(context.Background())
	require.Error(t, err)

	inner.err = nil
	_, err = s.EnsureTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestErrorHelpers(t *testing.T) {
	cause := errors.New("connection reset")
	err := unavailable("redis", "put", cause)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "redis put")

	dup := duplicate("postgres", "REQ-1")
	assert.True(t, errors.Is(dup, ErrDuplicate))
	assert.False(t, errors.Is(dup, ErrUnavailable))
}
