package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/UnknownOlympus/lifeline/internal/models"
)

// DefaultHistoryLimit caps ListRecentBroadcasts when the caller passes a non-positive limit.
const DefaultHistoryLimit = 50

// EnsureSchema creates the journal table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS sos_broadcasts (
			id          UUID PRIMARY KEY,
			kind        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			latitude    DOUBLE PRECISION NOT NULL,
			longitude   DOUBLE PRECISION NOT NULL,
			success     BOOLEAN NOT NULL,
			error       TEXT,
			created_at  TIMESTAMPTZ NOT NULL
		);
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create sos_broadcasts table: %w", err)
	}

	return nil
}

// RecordBroadcast stores one dispatch attempt. An empty Error is stored as NULL.
func (r *Repository) RecordBroadcast(ctx context.Context, record models.BroadcastRecord) error {
	query := `
		INSERT INTO sos_broadcasts (id, kind, description, latitude, longitude, success, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	var errMsg *string
	if record.Error != "" {
		errMsg = &record.Error
	}

	_, err := r.db.Exec(ctx, query,
		record.ID,
		string(record.Kind),
		record.Description,
		record.Location.Latitude,
		record.Location.Longitude,
		record.Success,
		errMsg,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sos broadcast: %w", err)
	}
	r.log.DebugContext(ctx, "SOS attempt journaled", "id", record.ID, "kind", record.Kind, "success", record.Success)

	return nil
}

// ListRecentBroadcasts returns the latest attempts, newest first.
func (r *Repository) ListRecentBroadcasts(ctx context.Context, limit int) ([]models.BroadcastRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `
		SELECT id, kind, description, latitude, longitude, success, error, created_at
		FROM sos_broadcasts
		ORDER BY created_at DESC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sos broadcasts: %w", err)
	}
	defer rows.Close()

	records := []models.BroadcastRecord{}
	for rows.Next() {
		var (
			record    models.BroadcastRecord
			kind      string
			errMsg    *string
			createdAt time.Time
		)
		errScan := rows.Scan(
			&record.ID,
			&kind,
			&record.Description,
			&record.Location.Latitude,
			&record.Location.Longitude,
			&record.Success,
			&errMsg,
			&createdAt,
		)
		if errScan != nil {
			return nil, fmt.Errorf("failed to scan sos broadcast: %w", errScan)
		}

		record.Kind = models.BroadcastKind(kind)
		record.CreatedAt = createdAt
		if errMsg != nil {
			record.Error = *errMsg
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return records, nil
}
