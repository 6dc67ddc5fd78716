package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andresuchdata/stockroom/backend-go/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultMaxConcurrentTx = 10
	defaultTxTimeout       = 10 * time.Second
)

type DB struct {
	*sqlx.DB
	sem       *semaphore.Weighted
	txTimeout time.Duration
}

var (
	dbInstance *DB
	once       sync.Once
)

// NewDB creates a new database connection pool
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	var err error
	once.Do(func() {
		var db *sqlx.DB
		db, err = sqlx.Connect("postgres", cfg.DSN())
		if err != nil {
			return
		}
		dbInstance = Wrap(db, cfg)
	})

	return dbInstance, err
}

// Wrap configures the pool of an open connection and bounds concurrent transactions.
func Wrap(db *sqlx.DB, cfg *config.DatabaseConfig) *DB {
	maxOpen, maxIdle, maxTx := defaultMaxOpenConns, defaultMaxIdleConns, defaultMaxConcurrentTx
	txTimeout := defaultTxTimeout
	if cfg != nil {
		if cfg.MaxOpenConns > 0 {
			maxOpen = cfg.MaxOpenConns
		}
		if cfg.MaxIdleConns > 0 {
			maxIdle = cfg.MaxIdleConns
		}
		if cfg.MaxConcurrentTx > 0 {
			maxTx = cfg.MaxConcurrentTx
		}
		if cfg.TxTimeoutSeconds > 0 {
			txTimeout = time.Duration(cfg.TxTimeoutSeconds) * time.Second
		}
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &DB{
		DB:        db,
		sem:       semaphore.NewWeighted(int64(maxTx)),
		txTimeout: txTimeout,
	}
}

// WithTx executes a function within a read-committed transaction. The
// transaction and every statement in it are bounded by the configured timeout
// so row locks are never held indefinitely.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire semaphore: %w", err)
	}
	defer db.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, db.txTimeout)
	defer cancel()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	timeoutMs := db.txTimeout.Milliseconds()
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", timeoutMs)); err != nil {
		rollback(tx)
		return fmt.Errorf("could not set statement timeout: %w", err)
	}

	if err := fn(tx); err != nil {
		rollback(tx)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

func rollback(tx *sqlx.Tx) {
	if rbErr := tx.Rollback(); rbErr != nil {
		log.Error().Err(rbErr).Msg("could not rollback transaction")
	}
}
