// Package repository is the Postgres journal of SOS dispatch attempts.
package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/lifeline/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of *pgxpool.Pool used by the repository.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repository struct {
	db  Database
	log *slog.Logger
}

// Interface is the SOS journal as used by the application: broadcast records it,
// the HTTP API lists it.
type Interface interface {
	EnsureSchema(ctx context.Context) error
	RecordBroadcast(ctx context.Context, record models.BroadcastRecord) error
	ListRecentBroadcasts(ctx context.Context, limit int) ([]models.BroadcastRecord, error)
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
