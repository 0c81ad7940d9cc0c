package intake

import (
	"context"
	"sync"

	"lead-intake/internal/models"
	"lead-intake/internal/store"
)

// memStore is an in-memory store.Store that counts calls.
type memStore struct {
	mu          sync.Mutex
	records     map[string]*models.IntakeRecord
	ensureCalls int
	putCalls    int
	ensureErr   error
	putErr      error
}

func newMemStore() *memStore {
	return &memStore{records: map[string]*models.IntakeRecord{}}
}

func (s *memStore) EnsureTable(ctx context.Context) (store.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureCalls++
	if s.ensureErr != nil {
		return nil, s.ensureErr
	}
	return s, nil
}

func (s *memStore) Put(ctx context.Context, record *models.IntakeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putCalls++
	if s.putErr != nil {
		return s.putErr
	}
	copied := *record
	s.records[record.RowKey()] = &copied
	return nil
}

func (s *memStore) Driver() string { return "memory" }
func (s *memStore) Close() error   { return nil }

func (s *memStore) calls() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureCalls, s.putCalls
}

// recordingNotifier counts calls and returns err.
type recordingNotifier struct {
	mu    sync.Mutex
	name  string
	err   error
	calls []*models.IntakeRecord
}

func (n *recordingNotifier) Name() string     { return n.name }
func (n *recordingNotifier) Configured() bool { return true }

func (n *recordingNotifier) Notify(ctx context.Context, record *models.IntakeRecord) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, record)
	return n.err
}

func (n *recordingNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

const validBody = `{"name":"Ann","email":"a@b.com","businessName":"Acme","projectType":"site","goals":"grow"}`
