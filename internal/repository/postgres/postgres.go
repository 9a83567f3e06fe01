package postgres

import (
	"context"
	"database/sql"

	"furniture-rental-backend/internal/logger"
	"furniture-rental-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repository can run
// either standalone or inside a checkout transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db    *sql.DB
	repos repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:    db,
		repos: newRepositories(db),
	}
}

func newRepositories(q DBTX) repository.Repositories {
	return repository.Repositories{
		Products:  NewProductRepository(q),
		Contracts: NewContractRepository(q),
		Carts:     NewCartRepository(q),
		Orders:    NewOrderRepository(q),
		History:   NewOrderHistoryRepository(q),
		Inventory: NewInventoryRepository(q),
	}
}

func (s *Store) Repos() repository.Repositories {
	return s.repos
}

// WithinTx runs fn in a READ COMMITTED transaction. Row locks taken by the
// repositories (SELECT ... FOR UPDATE, conditional UPDATE) provide the
// per-cart and per-product mutual exclusion.
func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("begin", err)
	}
	defer tx.Rollback()

	if err := fn(newRepositories(tx)); err != nil {
		logger.Debug("Transaction rolled back", "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit", err)
	}
	return nil
}
