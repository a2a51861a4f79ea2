package core

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/JonMunkholm/surveybase/internal/database"
	"github.com/JonMunkholm/surveybase/internal/rules"
)

// newIntegrationStore starts PostgreSQL in a container, migrates it and
// returns a PgStore on it. Set SURVEYBASE_INTEGRATION=1 to run; needs Docker.
func newIntegrationStore(t *testing.T) *PgStore {
	t.Helper()
	if testing.Short() || os.Getenv("SURVEYBASE_INTEGRATION") != "1" {
		t.Skip("set SURVEYBASE_INTEGRATION=1 to run PostgreSQL integration tests")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("surveybase"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
		tcpostgres.WithSQLDriver("pgx"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.MigrateUp(ctx, slog.Default(), dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewPgStore(pool)
}

func TestPgStore_Integration(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	t.Run("projects", func(t *testing.T) {
		p, err := store.CreateProject(ctx, "Encuesta", "")
		require.NoError(t, err)
		assert.Empty(t, p.SurveyID)
		assert.Empty(t, p.ArtifactFilename)

		p, err = store.UpdateProject(ctx, p.ID, "Encuesta Salud", "S-9")
		require.NoError(t, err)
		assert.Equal(t, "S-9", p.SurveyID)

		_, err = store.GetProject(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrProjectNotFound)

		require.NoError(t, store.DeleteProject(ctx, p.ID))
		assert.ErrorIs(t, store.DeleteProject(ctx, p.ID), ErrProjectNotFound)
	})

	t.Run("rules keep order", func(t *testing.T) {
		p, err := store.CreateProject(ctx, "Reglas", "S-1")
		require.NoError(t, err)

		_, err = store.CreateRule(ctx, p.ID, rules.Rule{Kind: rules.KindRename, SourcePrefix: "Q9", DestPrefix: "Edad"})
		require.NoError(t, err)
		_, err = store.CreateRule(ctx, p.ID, rules.Rule{
			Kind: rules.KindMultiple, SourcePrefix: "P5_", SourceStartLabel: "1", SourceEndLabel: "3",
			DestPrefix: "P5R", DestRange: &rules.Range{Start: 1, End: 3},
		})
		require.NoError(t, err)

		set, err := store.LoadRules(ctx, p.ID)
		require.NoError(t, err)
		got := set.Rules()
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].OrderKey)
		assert.Equal(t, rules.KindRename, got[0].Kind)
		assert.Equal(t, 2, got[1].OrderKey)
		assert.Equal(t, &rules.Range{Start: 1, End: 3}, got[1].DestRange)

		_, err = store.CreateRule(ctx, uuid.New(), rules.Rule{Kind: rules.KindRename, SourcePrefix: "A", DestPrefix: "B"})
		assert.ErrorIs(t, err, ErrProjectNotFound)

		assert.ErrorIs(t, store.DeleteRule(ctx, p.ID, uuid.New()), ErrRuleNotFound)
	})

	t.Run("artifact and runs", func(t *testing.T) {
		p, err := store.CreateProject(ctx, "Corridas", "S-2")
		require.NoError(t, err)

		_, err = store.GetArtifact(ctx, p.ID)
		assert.ErrorIs(t, err, ErrArtifactNotFound)

		require.NoError(t, store.StoreArtifact(ctx, p.ID, []byte("PK-data"), "Corridas-2026-03-05-pr.xlsx"))
		a, err := store.GetArtifact(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Corridas-2026-03-05-pr.xlsx", a.Filename)
		assert.Equal(t, []byte("PK-data"), a.Data)

		run := &Run{ID: uuid.New(), ProjectID: p.ID, Status: RunRunning}
		require.NoError(t, store.CreateRun(ctx, run))

		run.Status = RunFailed
		run.Diagnostics = []string{"new column added: P5R4"}
		run.ErrorCode = "COL001"
		run.ErrorMessage = "column not found"
		require.NoError(t, store.FinishRun(ctx, run))

		runs, err := store.ListRuns(ctx, p.ID, 10)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, RunFailed, runs[0].Status)
		assert.Equal(t, []string{"new column added: P5R4"}, runs[0].Diagnostics)
		assert.Equal(t, "COL001", runs[0].ErrorCode)
		assert.NotNil(t, runs[0].FinishedAt)

		n, err := store.PurgeRuns(ctx, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))

		runs, err = store.ListRuns(ctx, p.ID, 10)
		require.NoError(t, err)
		assert.Empty(t, runs)
	})
}
