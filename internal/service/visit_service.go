package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/pkg/workerpool"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/repository"
)

// VisitEventRecorder receives respondent lifecycle events. Calls are
// fire-and-forget from the flow engine's point of view: recording must never
// block or fail navigation, so implementations absorb their own errors.
type VisitEventRecorder interface {
	RecordView(ctx context.Context, formID string, meta model.VisitMeta) string
	RecordStart(ctx context.Context, visitID string)
	RecordProgress(ctx context.Context, visitID, questionID string)
	RecordComplete(ctx context.Context, visitID string)
}

// VisitService persists visit lifecycle events asynchronously. The visit id
// is minted up front so navigation can continue immediately; the Mongo upsert
// happens on the worker pool with a small retry budget, and a write that
// still fails is logged and dropped (availability over completeness).
type VisitService struct {
	visitRepo   repository.VisitRepo
	pool        *workerpool.WorkerPool
	broadcaster Broadcaster

	retries    int
	retryDelay time.Duration
}

// NewVisitService creates a new visit service
func NewVisitService(visitRepo repository.VisitRepo, pool *workerpool.WorkerPool) *VisitService {
	return &VisitService{
		visitRepo:  visitRepo,
		pool:       pool,
		retries:    3,
		retryDelay: 250 * time.Millisecond,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *VisitService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *VisitService) RecordView(ctx context.Context, formID string, meta model.VisitMeta) string {
	visitID := uuid.NewString()
	now := time.Now()

	device := meta.Device
	if device == "" {
		device = "desktop"
	}

	visit := &model.FormVisit{
		ID:                visitID,
		FormID:            formID,
		Device:            device,
		Browser:           meta.Browser,
		OS:                meta.OS,
		IP:                meta.IP,
		Country:           meta.Country,
		LastInteractionAt: now,
		CreatedAt:         now,
	}

	s.enqueue("view", func() error {
		return s.visitRepo.CreateView(context.Background(), visit)
	})

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToForm(formID, "visit_started", map[string]string{
			"visitId": visitID,
			"device":  device,
		})
	}

	return visitID
}

func (s *VisitService) RecordStart(ctx context.Context, visitID string) {
	at := time.Now()
	s.enqueue("start", func() error {
		return s.visitRepo.MarkStarted(context.Background(), visitID, at)
	})
}

func (s *VisitService) RecordProgress(ctx context.Context, visitID, questionID string) {
	at := time.Now()
	s.enqueue("progress", func() error {
		return s.visitRepo.UpdateProgress(context.Background(), visitID, questionID, at)
	})
}

func (s *VisitService) RecordComplete(ctx context.Context, visitID string) {
	at := time.Now()
	s.enqueue("complete", func() error {
		return s.visitRepo.MarkCompleted(context.Background(), visitID, at)
	})
}

func (s *VisitService) enqueue(event string, write func() error) {
	s.pool.Submit(workerpool.WithRetry(s.retries, s.retryDelay, func() error {
		err := write()
		if err != nil {
			log.Printf("visit event %s write failed: %v", event, err)
		}
		return err
	}))
}
