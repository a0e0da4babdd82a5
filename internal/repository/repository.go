// Package repository is the per-table data access layer. Every method takes the
// Querier to run on, so the same calls work against the pool or inside a
// transaction owned by the caller.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"pharmastore/m/internal/logging"
)

// TimeLayout is the timestamp format stored in created_at/updated_at columns.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type Querier = sqlx.ExtContext

var flavor = sqlbuilder.SQLite

// Repository bundles the table accessors.
type Repository struct {
	logger *zap.Logger
	now    func() time.Time
}

// New constructs a Repository.
func New(logger *zap.Logger) *Repository {
	return &Repository{
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
}

func (r *Repository) timestamp() string {
	return r.now().UTC().Format(TimeLayout)
}

// stamps returns the record's timestamps, filling empty ones with the current time.
func (r *Repository) stamps(createdAt, updatedAt string) (string, string) {
	now := r.timestamp()
	if createdAt == "" {
		createdAt = now
	}
	if updatedAt == "" {
		updatedAt = createdAt
	}
	return createdAt, updatedAt
}

func (r *Repository) insert(ctx context.Context, q Querier, ib *sqlbuilder.InsertBuilder) (int64, error) {
	query, args := ib.Build()
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}
	return id, nil
}

func (r *Repository) selectAll(ctx context.Context, q Querier, dest any, sb *sqlbuilder.SelectBuilder) error {
	query, args := sb.Build()
	if err := sqlx.SelectContext(ctx, q, dest, query, args...); err != nil {
		return translate(err)
	}
	return nil
}

func (r *Repository) getOne(ctx context.Context, q Querier, dest any, sb *sqlbuilder.SelectBuilder) error {
	query, args := sb.Build()
	if err := sqlx.GetContext(ctx, q, dest, query, args...); err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
