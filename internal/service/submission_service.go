package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/repository"
)

// SubmissionService stores completed answer sets and notifies dashboard
// watchers.
type SubmissionService struct {
	submissionRepo repository.SubmissionRepo
	broadcaster    Broadcaster
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(submissionRepo repository.SubmissionRepo) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SubmissionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create persists one completed session's answers. Empty answers are kept
// out of the record: an optional question the respondent skipped contributes
// nothing to analytics.
func (s *SubmissionService) Create(ctx context.Context, form *model.Form, session *model.FlowSession) (string, error) {
	answers := make(map[string]model.AnswerValue, len(session.Answers))
	for questionID, answer := range session.Answers {
		if answer.IsEmpty() {
			continue
		}
		answers[questionID] = answer
	}

	submission := &model.Submission{
		ID:          uuid.NewString(),
		FormID:      form.ID,
		Answers:     answers,
		SubmittedAt: time.Now(),
		Device:      session.Device,
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return "", err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToForm(form.ID, "submission_created", map[string]interface{}{
			"submissionId": submission.ID,
			"submittedAt":  submission.SubmittedAt,
		})
	}

	return submission.ID, nil
}

// ListByForm returns a form's submissions, newest range filtering applied.
func (s *SubmissionService) ListByForm(ctx context.Context, formID string, dateRange model.DateRange) ([]*model.Submission, error) {
	return s.submissionRepo.ListByForm(ctx, formID, dateRange)
}
