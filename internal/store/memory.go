package store

import (
	"context"
	"errors"
	"sync"

	"github.com/lukman83/boostgg-scrap/internal/models"
)

// ErrInjectedFailure is returned by a MemoryStore configured to fail partway
// through a transaction.
var ErrInjectedFailure = errors.New("store: injected failure")

// MemoryStore is an in-memory Store for tests. Each transaction stages its
// writes and publishes them only on commit, so a mid-transaction failure
// leaves earlier commits untouched.
type MemoryStore struct {
	mu       sync.Mutex
	Services []models.Service
	Options  []models.OptionRow

	nextServiceID int64
	nextOptionID  int64

	// FailAfterOptionInserts, when >= 0, makes the option insert with that
	// zero-based index (counted per transaction) fail.
	FailAfterOptionInserts int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{FailAfterOptionInserts: -1}
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{store: s}
	if err := fn(tx); err != nil {
		return err
	}
	s.Services = append(s.Services, tx.services...)
	s.Options = append(s.Options, tx.options...)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// ServiceByID returns a committed service row by storage id.
func (s *MemoryStore) ServiceByID(id int64) (models.Service, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, svc := range s.Services {
		if svc.ServiceID == id {
			return svc, true
		}
	}
	return models.Service{}, false
}

// OptionsForService returns committed option rows for one service, in
// insertion order.
func (s *MemoryStore) OptionsForService(serviceID int64) []models.OptionRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.OptionRow
	for _, row := range s.Options {
		if row.ServiceID == serviceID {
			out = append(out, row)
		}
	}
	return out
}

type memoryTx struct {
	store        *MemoryStore
	services     []models.Service
	options      []models.OptionRow
	optionInsert int
}

func (t *memoryTx) FindServiceByName(_ context.Context, gameID int64, name string) (int64, error) {
	for _, svc := range t.store.Services {
		if svc.GameID == gameID && svc.Name == name {
			return svc.ServiceID, nil
		}
	}
	for _, svc := range t.services {
		if svc.GameID == gameID && svc.Name == name {
			return svc.ServiceID, nil
		}
	}
	return 0, ErrServiceNotFound
}

func (t *memoryTx) InsertService(_ context.Context, svc models.Service) (int64, error) {
	t.store.nextServiceID++
	svc.ServiceID = t.store.nextServiceID
	t.services = append(t.services, svc)
	return svc.ServiceID, nil
}

func (t *memoryTx) InsertOption(_ context.Context, row models.OptionRow) (int64, error) {
	if t.store.FailAfterOptionInserts >= 0 && t.optionInsert == t.store.FailAfterOptionInserts {
		return 0, ErrInjectedFailure
	}
	t.optionInsert++
	t.store.nextOptionID++
	row.OptionID = t.store.nextOptionID
	t.options = append(t.options, row)
	return row.OptionID, nil
}
