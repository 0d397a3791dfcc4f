package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/pkg/workerpool"
)

type memVisitRepo struct {
	mu     sync.Mutex
	visits map[string]*model.FormVisit
	fail   bool
	writes int
}

func newMemVisitRepo() *memVisitRepo {
	return &memVisitRepo{visits: make(map[string]*model.FormVisit)}
}

func (r *memVisitRepo) write(visitID string, apply func(*model.FormVisit)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.fail {
		return errors.New("store unavailable")
	}
	visit, ok := r.visits[visitID]
	if !ok {
		visit = &model.FormVisit{ID: visitID}
		r.visits[visitID] = visit
	}
	apply(visit)
	return nil
}

func (r *memVisitRepo) CreateView(ctx context.Context, visit *model.FormVisit) error {
	return r.write(visit.ID, func(v *model.FormVisit) { *v = *visit })
}

func (r *memVisitRepo) MarkStarted(ctx context.Context, visitID string, at time.Time) error {
	return r.write(visitID, func(v *model.FormVisit) { v.StartedAt = &at })
}

func (r *memVisitRepo) UpdateProgress(ctx context.Context, visitID, questionID string, at time.Time) error {
	return r.write(visitID, func(v *model.FormVisit) { v.LastQuestionID = questionID })
}

func (r *memVisitRepo) MarkCompleted(ctx context.Context, visitID string, at time.Time) error {
	return r.write(visitID, func(v *model.FormVisit) { v.CompletedAt = &at })
}

func (r *memVisitRepo) ListByForm(ctx context.Context, formID string, dateRange model.DateRange) ([]*model.FormVisit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.FormVisit
	for _, v := range r.visits {
		if v.FormID == formID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memVisitRepo) get(visitID string) *model.FormVisit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visits[visitID]
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never satisfied")
}

func TestRecordView_PersistsAsynchronously(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newMemVisitRepo()
	pool := workerpool.NewWorkerPool(ctx, 1, 16)
	svc := NewVisitService(repo, pool)

	visitID := svc.RecordView(ctx, "form-1", model.VisitMeta{Browser: "Firefox"})
	require.NotEmpty(t, visitID, "id is minted before the write lands")

	waitFor(t, func() bool { return repo.get(visitID) != nil })
	visit := repo.get(visitID)
	assert.Equal(t, "form-1", visit.FormID)
	assert.Equal(t, "desktop", visit.Device, "missing device defaults")
	assert.Equal(t, "Firefox", visit.Browser)
}

func TestRecordLifecycle_AppliesAllEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newMemVisitRepo()
	pool := workerpool.NewWorkerPool(ctx, 1, 16)
	svc := NewVisitService(repo, pool)

	visitID := svc.RecordView(ctx, "form-1", model.VisitMeta{Device: "mobile"})
	svc.RecordStart(ctx, visitID)
	svc.RecordProgress(ctx, visitID, "q2")
	svc.RecordComplete(ctx, visitID)

	waitFor(t, func() bool {
		v := repo.get(visitID)
		return v != nil && v.StartedAt != nil && v.CompletedAt != nil && v.LastQuestionID == "q2"
	})
}

func TestRecordView_StoreFailureNeverBlocksTheCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newMemVisitRepo()
	repo.fail = true
	pool := workerpool.NewWorkerPool(ctx, 1, 16)
	svc := NewVisitService(repo, pool)
	svc.retryDelay = time.Millisecond

	visitID := svc.RecordView(ctx, "form-1", model.VisitMeta{})
	assert.NotEmpty(t, visitID)

	// The write retries its budget and is then dropped.
	waitFor(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return repo.writes == 3
	})
}
