package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rekrutin/rekrutinai-sub000/application/commands"
	"github.com/Rekrutin/rekrutinai-sub000/domain/application"
	"github.com/Rekrutin/rekrutinai-sub000/domain/quota"
	pkgerrors "github.com/Rekrutin/rekrutinai-sub000/pkg/errors"
)

// fakeStore is an in-memory RecordStore without the durable surface.
type fakeStore struct {
	mu      sync.Mutex
	byOwner map[string][]*application.Record
}

func newFakeStore() *fakeStore {
	return &fakeStore{byOwner: make(map[string][]*application.Record)}
}

func (s *fakeStore) Load(ctx context.Context, ownerID string) ([]*application.Record, error) {
	return s.List(ctx, ownerID), nil
}

func (s *fakeStore) ReplaceAll(ctx context.Context, ownerID string, records []*application.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byOwner[ownerID] = records
	return nil
}

func (s *fakeStore) Upsert(ctx context.Context, record *application.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byOwner[record.OwnerID]
	for i, r := range list {
		if r.ID == record.ID {
			list[i] = record.Clone()
			return nil
		}
	}
	s.byOwner[record.OwnerID] = append(list, record.Clone())
	return nil
}

func (s *fakeStore) Update(ctx context.Context, ownerID, id string, mutate func(*application.Record) error) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byOwner[ownerID]
	for i, r := range list {
		if r.ID == id {
			next := r.Clone()
			if err := mutate(next); err != nil {
				return true, err
			}
			list[i] = next
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) Remove(ctx context.Context, ownerID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byOwner[ownerID]
	for i, r := range list {
		if r.ID == id {
			s.byOwner[ownerID] = append(list[:i:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) Get(ctx context.Context, ownerID, id string) (*application.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.byOwner[ownerID] {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return nil, false
}

func (s *fakeStore) List(ctx context.Context, ownerID string) []*application.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*application.Record, 0, len(s.byOwner[ownerID]))
	for _, r := range s.byOwner[ownerID] {
		out = append(out, r.Clone())
	}
	return out
}

func (s *fakeStore) Count(ctx context.Context, ownerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byOwner[ownerID])
}

// fakeUsage is an in-memory scan counter.
type fakeUsage struct {
	mu    sync.Mutex
	scans map[string]int
}

func newFakeUsage() *fakeUsage {
	return &fakeUsage{scans: make(map[string]int)}
}

func (u *fakeUsage) AIScansUsed(ctx context.Context, ownerID string) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.scans[ownerID], nil
}

func (u *fakeUsage) IncrementAIScans(ctx context.Context, ownerID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.scans[ownerID]++
	return nil
}

// fixedPlan always reports the same tier.
type fixedPlan struct {
	tier quota.Tier
}

func (p fixedPlan) Tier(ctx context.Context, ownerID string) (quota.Tier, error) {
	return p.tier, nil
}

// fakeMirror counts calls; handlers invoke it from detached goroutines so
// assertions on it must go through Eventually.
type fakeMirror struct {
	mu      sync.Mutex
	creates int
	updates int
	deletes int
}

func (m *fakeMirror) MirrorCreate(ctx context.Context, record *application.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
}

func (m *fakeMirror) MirrorUpdate(ctx context.Context, record *application.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
}

func (m *fakeMirror) MirrorDelete(ctx context.Context, ownerID, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
}

func (m *fakeMirror) counts() (int, int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creates, m.updates, m.deletes
}

// stubAnalyzer returns a canned result or error.
type stubAnalyzer struct {
	result *application.Analysis
	err    error
}

func (a stubAnalyzer) Analyze(ctx context.Context, resumeText, jobContext string) (*application.Analysis, error) {
	return a.result, a.err
}

// funcAnalyzer runs an arbitrary function, letting a test interleave store
// mutations with an in-flight scan.
type funcAnalyzer struct {
	fn func(ctx context.Context) (*application.Analysis, error)
}

func (a funcAnalyzer) Analyze(ctx context.Context, resumeText, jobContext string) (*application.Analysis, error) {
	return a.fn(ctx)
}

func seedRecord(t *testing.T, store *fakeStore, ownerID string) *application.Record {
	t.Helper()
	record, err := application.NewRecord(ownerID, "Backend Engineer", "Acme", "")
	require.NoError(t, err)
	require.NoError(t, store.Upsert(context.Background(), record))
	return record
}

func TestCreateRecordHandler_Success(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mirror := &fakeMirror{}
	handler := NewCreateRecordHandler(store, newFakeUsage(), fixedPlan{quota.TierFree}, mirror, zap.NewNop())

	cmd := commands.CreateRecordCommand{
		RecordID:     "8d4f1f6e-0000-4000-8000-000000000001",
		OwnerID:      "owner-1",
		Title:        "Backend Engineer",
		Organization: "Acme",
	}

	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	record, found := store.Get(ctx, "owner-1", cmd.RecordID)
	require.True(t, found)
	assert.Equal(t, application.StatusSaved, record.Status)
	assert.Len(t, record.Timeline, 1)
	assert.Eventually(t, func() bool {
		creates, _, _ := mirror.counts()
		return creates == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCreateRecordHandler_FreeTierLimit(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	handler := NewCreateRecordHandler(store, newFakeUsage(), fixedPlan{quota.TierFree}, &fakeMirror{}, zap.NewNop())

	for i := 0; i < 10; i++ {
		seedRecord(t, store, "owner-1")
	}

	err := handler.Handle(ctx, commands.CreateRecordCommand{
		RecordID:     "8d4f1f6e-0000-4000-8000-000000000002",
		OwnerID:      "owner-1",
		Title:        "One Too Many",
		Organization: "Acme",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsQuotaExceeded(err))
	assert.Equal(t, 10, store.Count(ctx, "owner-1"))
}

func TestCreateRecordHandler_ProTierHasNoLimit(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	handler := NewCreateRecordHandler(store, newFakeUsage(), fixedPlan{quota.TierPro}, &fakeMirror{}, zap.NewNop())

	for i := 0; i < 10; i++ {
		seedRecord(t, store, "owner-1")
	}

	err := handler.Handle(ctx, commands.CreateRecordCommand{
		RecordID:     "8d4f1f6e-0000-4000-8000-000000000003",
		OwnerID:      "owner-1",
		Title:        "Eleventh",
		Organization: "Acme",
	})

	require.NoError(t, err)
	assert.Equal(t, 11, store.Count(ctx, "owner-1"))
}

func TestAdvanceStatusHandler_ForwardAndBoundary(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	handler := NewAdvanceStatusHandler(store, &fakeMirror{}, zap.NewNop())
	record := seedRecord(t, store, "owner-1")

	err := handler.Handle(ctx, commands.AdvanceStatusCommand{
		OwnerID:   "owner-1",
		RecordID:  record.ID,
		Direction: application.DirectionForward,
	})
	require.NoError(t, err)

	got, _ := store.Get(ctx, "owner-1", record.ID)
	assert.Equal(t, application.StatusApplied, got.Status)

	// Backward twice: the second step is refused at the first column.
	for i := 0; i < 2; i++ {
		err = handler.Handle(ctx, commands.AdvanceStatusCommand{
			OwnerID:   "owner-1",
			RecordID:  record.ID,
			Direction: application.DirectionBackward,
		})
		require.NoError(t, err)
	}
	got, _ = store.Get(ctx, "owner-1", record.ID)
	assert.Equal(t, application.StatusSaved, got.Status)
	assert.Len(t, got.Timeline, 3)
}

func TestAdvanceStatusHandler_MissingRecordIsNoOp(t *testing.T) {
	handler := NewAdvanceStatusHandler(newFakeStore(), &fakeMirror{}, zap.NewNop())

	err := handler.Handle(context.Background(), commands.AdvanceStatusCommand{
		OwnerID:   "owner-1",
		RecordID:  "8d4f1f6e-0000-4000-8000-00000000dead",
		Direction: application.DirectionForward,
	})

	assert.NoError(t, err)
}

func TestSetStatusHandler_JumpAppendsTimeline(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	handler := NewSetStatusHandler(store, &fakeMirror{}, zap.NewNop())
	record := seedRecord(t, store, "owner-1")

	err := handler.Handle(ctx, commands.SetStatusCommand{
		OwnerID:  "owner-1",
		RecordID: record.ID,
		Status:   application.StatusRejected,
	})

	require.NoError(t, err)
	got, _ := store.Get(ctx, "owner-1", record.ID)
	assert.Equal(t, application.StatusRejected, got.Status)
	assert.Len(t, got.Timeline, 2)
}

func TestDeleteRecordHandler_RemovesAndMirrors(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	mirror := &fakeMirror{}
	handler := NewDeleteRecordHandler(store, mirror, zap.NewNop())
	record := seedRecord(t, store, "owner-1")

	err := handler.Handle(ctx, commands.DeleteRecordCommand{OwnerID: "owner-1", RecordID: record.ID})

	require.NoError(t, err)
	assert.Equal(t, 0, store.Count(ctx, "owner-1"))
	assert.Eventually(t, func() bool {
		_, _, deletes := mirror.counts()
		return deletes == 1
	}, time.Second, 10*time.Millisecond)
}

func TestDeleteRecordHandler_UnknownIDIsSilent(t *testing.T) {
	mirror := &fakeMirror{}
	handler := NewDeleteRecordHandler(newFakeStore(), mirror, zap.NewNop())

	err := handler.Handle(context.Background(), commands.DeleteRecordCommand{
		OwnerID:  "owner-1",
		RecordID: "8d4f1f6e-0000-4000-8000-00000000dead",
	})

	require.NoError(t, err)
	_, _, deletes := mirror.counts()
	assert.Zero(t, deletes)
}

func TestRunAnalysisHandler_SuccessIncrementsCounter(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	usage := newFakeUsage()
	analyzer := stubAnalyzer{result: &application.Analysis{FitScore: 82, Analysis: "strong fit"}}
	handler := NewRunAnalysisHandler(store, usage, fixedPlan{quota.TierFree}, &fakeMirror{}, analyzer, zap.NewNop())
	record := seedRecord(t, store, "owner-1")

	err := handler.Handle(ctx, commands.RunAnalysisCommand{
		OwnerID:    "owner-1",
		RecordID:   record.ID,
		ResumeText: "ten years of Go",
	})

	require.NoError(t, err)
	got, _ := store.Get(ctx, "owner-1", record.ID)
	require.NotNil(t, got.AIAnalysis)
	assert.Equal(t, 82, got.AIAnalysis.FitScore)
	used, _ := usage.AIScansUsed(ctx, "owner-1")
	assert.Equal(t, 1, used)
}

func TestRunAnalysisHandler_FailureCostsNoQuota(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	usage := newFakeUsage()
	analyzer := stubAnalyzer{err: errors.New("upstream timeout")}
	handler := NewRunAnalysisHandler(store, usage, fixedPlan{quota.TierFree}, &fakeMirror{}, analyzer, zap.NewNop())
	record := seedRecord(t, store, "owner-1")

	err := handler.Handle(ctx, commands.RunAnalysisCommand{
		OwnerID:    "owner-1",
		RecordID:   record.ID,
		ResumeText: "ten years of Go",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
	got, _ := store.Get(ctx, "owner-1", record.ID)
	assert.Nil(t, got.AIAnalysis)
	used, _ := usage.AIScansUsed(ctx, "owner-1")
	assert.Zero(t, used)
}

func TestRunAnalysisHandler_QuotaGate(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	usage := newFakeUsage()
	for i := 0; i < 5; i++ {
		require.NoError(t, usage.IncrementAIScans(ctx, "owner-1"))
	}
	analyzer := stubAnalyzer{result: &application.Analysis{FitScore: 50}}
	handler := NewRunAnalysisHandler(store, usage, fixedPlan{quota.TierFree}, &fakeMirror{}, analyzer, zap.NewNop())
	record := seedRecord(t, store, "owner-1")

	err := handler.Handle(ctx, commands.RunAnalysisCommand{
		OwnerID:    "owner-1",
		RecordID:   record.ID,
		ResumeText: "ten years of Go",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsQuotaExceeded(err))
}

func TestRunAnalysisHandler_MissingRecordSkipsAnalyzer(t *testing.T) {
	usage := newFakeUsage()
	analyzer := stubAnalyzer{result: &application.Analysis{FitScore: 50}}
	handler := NewRunAnalysisHandler(newFakeStore(), usage, fixedPlan{quota.TierFree}, &fakeMirror{}, analyzer, zap.NewNop())

	err := handler.Handle(context.Background(), commands.RunAnalysisCommand{
		OwnerID:    "owner-1",
		RecordID:   "8d4f1f6e-0000-4000-8000-00000000dead",
		ResumeText: "ten years of Go",
	})

	require.NoError(t, err)
	used, _ := usage.AIScansUsed(context.Background(), "owner-1")
	assert.Zero(t, used)
}

func TestRunAnalysisHandler_DeleteDuringScanStaysDeleted(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	usage := newFakeUsage()
	record := seedRecord(t, store, "owner-1")
	analyzer := funcAnalyzer{fn: func(ctx context.Context) (*application.Analysis, error) {
		// The owner deletes the record while the scan is in flight.
		removed, err := store.Remove(ctx, "owner-1", record.ID)
		require.NoError(t, err)
		require.True(t, removed)
		return &application.Analysis{FitScore: 70, Analysis: "decent fit"}, nil
	}}
	handler := NewRunAnalysisHandler(store, usage, fixedPlan{quota.TierFree}, &fakeMirror{}, analyzer, zap.NewNop())

	err := handler.Handle(ctx, commands.RunAnalysisCommand{
		OwnerID:    "owner-1",
		RecordID:   record.ID,
		ResumeText: "ten years of Go",
	})

	// The delete wins: the result is dropped, the record does not come back.
	require.NoError(t, err)
	assert.Zero(t, store.Count(ctx, "owner-1"))
	_, found := store.Get(ctx, "owner-1", record.ID)
	assert.False(t, found)
}

func TestSetStatusHandler_ConcurrentMovesKeepEveryEvent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	handler := NewSetStatusHandler(store, &fakeMirror{}, zap.NewNop())
	record := seedRecord(t, store, "owner-1")

	statuses := application.Statuses()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(s application.Status) {
			defer wg.Done()
			assert.NoError(t, handler.Handle(ctx, commands.SetStatusCommand{
				OwnerID:  "owner-1",
				RecordID: record.ID,
				Status:   s,
			}))
		}(statuses[i%len(statuses)])
	}
	wg.Wait()

	// Every accepted move appended exactly one event; none were lost to a
	// competing writer.
	got, _ := store.Get(ctx, "owner-1", record.ID)
	assert.Len(t, got.Timeline, 9)
}

func TestUpdateRecordFieldsHandler_Patch(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	handler := NewUpdateRecordFieldsHandler(store, &fakeMirror{}, zap.NewNop())
	record := seedRecord(t, store, "owner-1")

	notes := "recruiter call on Friday"
	err := handler.Handle(ctx, commands.UpdateRecordFieldsCommand{
		OwnerID:  "owner-1",
		RecordID: record.ID,
		Patch:    application.FieldPatch{Notes: &notes},
	})

	require.NoError(t, err)
	got, _ := store.Get(ctx, "owner-1", record.ID)
	assert.Equal(t, "recruiter call on Friday", got.Notes)
	assert.Equal(t, "Backend Engineer", got.Title)
}
