// Package store abstracts the relational backend the importer writes to.
// The MySQL implementation is the production path; the memory implementation
// backs tests and supports failure injection.
package store

import (
	"context"
	"errors"

	"github.com/lukman83/boostgg-scrap/internal/models"
)

// ErrServiceNotFound is returned by FindServiceByName when no service
// matches the (game_id, name) identity.
var ErrServiceNotFound = errors.New("store: service not found")

// Tx is the per-service unit of work. All inserts within one Tx commit or
// roll back together; assigned ids are only durable after commit.
type Tx interface {
	// FindServiceByName resolves an existing service by its reuse identity.
	FindServiceByName(ctx context.Context, gameID int64, name string) (int64, error)

	// InsertService persists the service and returns its assigned id.
	InsertService(ctx context.Context, svc models.Service) (int64, error)

	// InsertOption persists one option row, with ServiceID and
	// ParentOptionID already remapped to storage ids, and returns the
	// assigned id.
	InsertOption(ctx context.Context, row models.OptionRow) (int64, error)
}

// Store opens transactions. WithinTx commits when fn returns nil and rolls
// back otherwise; the rollback error, if any, never masks fn's error.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
