package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rekrutin/rekrutinai-sub000/application/commands"
	"github.com/Rekrutin/rekrutinai-sub000/application/queries"
	"github.com/Rekrutin/rekrutinai-sub000/domain/application"
	"github.com/Rekrutin/rekrutinai-sub000/infrastructure/di"
	"github.com/Rekrutin/rekrutinai-sub000/infrastructure/persistence/localstore"
	"github.com/Rekrutin/rekrutinai-sub000/infrastructure/persistence/supamirror"
	"github.com/Rekrutin/rekrutinai-sub000/infrastructure/plan"
	"github.com/Rekrutin/rekrutinai-sub000/pkg/common"
	pkgerrors "github.com/Rekrutin/rekrutinai-sub000/pkg/errors"
)

type cannedAnalyzer struct {
	analysis application.Analysis
}

func (a cannedAnalyzer) Analyze(ctx context.Context, resumeText, jobContext string) (*application.Analysis, error) {
	result := a.analysis
	return &result, nil
}

func setup(t *testing.T) (*localstore.Store, *di.Container) {
	t.Helper()

	db, err := localstore.OpenSQLite(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zap.NewNop()
	store := localstore.NewStore(db, logger)
	plans := plan.NewClaimSource("free")
	analyzer := cannedAnalyzer{analysis: application.Analysis{FitScore: 77, Analysis: "good fit"}}

	container := &di.Container{
		Logger:     logger,
		DB:         db,
		Records:    store,
		Usage:      store,
		Mirror:     supamirror.Noop{},
		Plans:      plans,
		CommandBus: di.ProvideCommandBus(store, store, plans, supamirror.Noop{}, analyzer, logger),
		QueryBus:   di.ProvideQueryBus(store, store, plans, logger),
	}
	return store, container
}

func TestRecordLifecycle(t *testing.T) {
	ctx := context.Background()
	_, c := setup(t)
	recordID := uuid.New().String()

	// Create
	err := c.CommandBus.Send(ctx, commands.CreateRecordCommand{
		RecordID:     recordID,
		OwnerID:      "owner-1",
		Title:        "Backend Engineer",
		Organization: "Acme",
		Location:     "Jakarta",
	})
	require.NoError(t, err)

	// Advance saved -> applied
	err = c.CommandBus.Send(ctx, commands.AdvanceStatusCommand{
		OwnerID:   "owner-1",
		RecordID:  recordID,
		Direction: application.DirectionForward,
	})
	require.NoError(t, err)

	// Analyze
	err = c.CommandBus.Send(ctx, commands.RunAnalysisCommand{
		OwnerID:    "owner-1",
		RecordID:   recordID,
		ResumeText: "ten years of Go",
	})
	require.NoError(t, err)

	// Read back through the query side
	result, err := c.QueryBus.Ask(ctx, queries.GetRecordQuery{OwnerID: "owner-1", RecordID: recordID})
	require.NoError(t, err)
	view, ok := result.(queries.RecordView)
	require.True(t, ok)
	assert.Equal(t, application.StatusApplied, view.Record.Status)
	require.NotNil(t, view.Record.AIAnalysis)
	assert.Equal(t, 77, view.Record.AIAnalysis.FitScore)
	assert.Len(t, view.Record.Timeline, 2)

	// Quota reflects the consumed scan
	result, err = c.QueryBus.Ask(ctx, queries.GetQuotaStatusQuery{OwnerID: "owner-1"})
	require.NoError(t, err)
	status, ok := result.(queries.QuotaStatusResult)
	require.True(t, ok)
	assert.Equal(t, 1, status.TrackedRecords)
	assert.Equal(t, 1, status.AIScansUsed)
	assert.Equal(t, 4, status.RemainingAnalyses)

	// Delete
	err = c.CommandBus.Send(ctx, commands.DeleteRecordCommand{OwnerID: "owner-1", RecordID: recordID})
	require.NoError(t, err)

	_, err = c.QueryBus.Ask(ctx, queries.GetRecordQuery{OwnerID: "owner-1", RecordID: recordID})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRecordLifecycle_FreeTierCreateLimit(t *testing.T) {
	ctx := context.Background()
	_, c := setup(t)

	for i := 0; i < 10; i++ {
		err := c.CommandBus.Send(ctx, commands.CreateRecordCommand{
			RecordID:     uuid.New().String(),
			OwnerID:      "owner-1",
			Title:        "Backend Engineer",
			Organization: "Acme",
		})
		require.NoError(t, err)
	}

	err := c.CommandBus.Send(ctx, commands.CreateRecordCommand{
		RecordID:     uuid.New().String(),
		OwnerID:      "owner-1",
		Title:        "Eleventh",
		Organization: "Acme",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsQuotaExceeded(err))
}

func TestRecordLifecycle_ProPlanFromClaim(t *testing.T) {
	_, c := setup(t)
	// The auth middleware stamps the token's plan claim into the context;
	// the plan source reads it from there.
	ctx := common.WithPlan(context.Background(), "pro")

	for i := 0; i < 11; i++ {
		err := c.CommandBus.Send(ctx, commands.CreateRecordCommand{
			RecordID:     uuid.New().String(),
			OwnerID:      "owner-1",
			Title:        "Backend Engineer",
			Organization: "Acme",
		})
		require.NoError(t, err)
	}
}

func TestRecordLifecycle_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	db, err := localstore.OpenSQLite(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	defer db.Close()

	logger := zap.NewNop()
	store := localstore.NewStore(db, logger)
	plans := plan.NewClaimSource("free")
	bus := di.ProvideCommandBus(store, store, plans, supamirror.Noop{}, cannedAnalyzer{}, logger)

	recordID := uuid.New().String()
	require.NoError(t, bus.Send(ctx, commands.CreateRecordCommand{
		RecordID:     recordID,
		OwnerID:      "owner-1",
		Title:        "Backend Engineer",
		Organization: "Acme",
	}))

	// A fresh store over the same file lazily restores the collection.
	reopened := localstore.NewStore(db, logger)
	record, found := reopened.Get(ctx, "owner-1", recordID)
	require.True(t, found)
	assert.Equal(t, "Backend Engineer", record.Title)
}
