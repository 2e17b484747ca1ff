//go:build integration

package repository_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/lifeline/internal/models"
	"github.com/UnknownOlympus/lifeline/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestRepository_Postgres(t *testing.T) {
	ctx := t.Context()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("lifeline"),
		postgres.WithUsername("lifeline"),
		postgres.WithPassword("lifeline"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := repository.NewRepository(pool, slog.Default())
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx), "schema creation must be idempotent")

	base := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.RecordBroadcast(ctx, models.BroadcastRecord{
		ID:        "6f1c1a52-8a8e-4c54-9a53-5d0c9a1b7e01",
		Kind:      models.KindBroadcast,
		Location:  models.Coordinates{Latitude: 43.238, Longitude: 76.889},
		Success:   true,
		CreatedAt: base,
	}))
	require.NoError(t, repo.RecordBroadcast(ctx, models.BroadcastRecord{
		ID:          "6f1c1a52-8a8e-4c54-9a53-5d0c9a1b7e02",
		Kind:        models.KindTrigger,
		Description: "chest pain",
		Location:    models.Coordinates{Latitude: 43.238, Longitude: 76.889},
		Error:       "backend returned status 502",
		CreatedAt:   base.Add(time.Minute),
	}))

	records, err := repo.ListRecentBroadcasts(ctx, 10)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "6f1c1a52-8a8e-4c54-9a53-5d0c9a1b7e02", records[0].ID)
	assert.Equal(t, "backend returned status 502", records[0].Error)
	assert.True(t, records[1].Success)
	assert.True(t, base.Equal(records[1].CreatedAt))
}
