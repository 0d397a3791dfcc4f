package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/cache"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/repository"
)

// SessionView is what the respondent client renders after each navigation
// step: either the welcome screen or a question, plus overall progress.
type SessionView struct {
	SessionID string               `json:"sessionId"`
	Welcome   *model.WelcomeScreen `json:"welcome,omitempty"`
	Question  *model.Question      `json:"question,omitempty"`
	Index     int                  `json:"index"`
	Total     int                  `json:"total"`
	Completed bool                 `json:"completed"`
	AtEnd     bool                 `json:"atEnd"`
	Result    *ValidationResult    `json:"validation,omitempty"`
}

// FlowService runs respondent sessions over stateless HTTP: the FlowSession
// lives in the session cache between requests, and each request rebuilds a
// controller around it.
type FlowService struct {
	formRepo      repository.FormRepo
	sessions      cache.SessionCache
	evaluator     *RuleEvaluator
	recorder      VisitEventRecorder
	submissionSvc *SubmissionService
}

// NewFlowService creates a new flow service
func NewFlowService(
	formRepo repository.FormRepo,
	sessions cache.SessionCache,
	evaluator *RuleEvaluator,
	recorder VisitEventRecorder,
	submissionSvc *SubmissionService,
) *FlowService {
	return &FlowService{
		formRepo:      formRepo,
		sessions:      sessions,
		evaluator:     evaluator,
		recorder:      recorder,
		submissionSvc: submissionSvc,
	}
}

// StartSession opens a new respondent session against a published form,
// recording the view event.
func (s *FlowService) StartSession(ctx context.Context, formID string, meta model.VisitMeta) (*SessionView, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil || !form.Published {
		return nil, ErrNotFound
	}

	session := &model.FlowSession{
		ID:        uuid.NewString(),
		FormID:    formID,
		Answers:   make(map[string]model.AnswerValue),
		Device:    meta.Device,
		CreatedAt: time.Now(),
	}

	controller, err := NewFlowController(form, session, s.evaluator, s.recorder)
	if err != nil {
		return nil, err
	}
	controller.Begin(ctx, formID, meta)

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}

	view := &SessionView{
		SessionID: session.ID,
		Index:     0,
		Total:     len(form.Questions),
	}
	if session.OnWelcome {
		view.Welcome = &form.Welcome
	} else {
		view.Question = controller.Current()
	}
	return view, nil
}

// DismissWelcome moves the respondent from the welcome screen to question 0.
func (s *FlowService) DismissWelcome(ctx context.Context, sessionID string) (*SessionView, error) {
	form, session, controller, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	controller.Start(ctx)
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}

	return &SessionView{
		SessionID: session.ID,
		Question:  controller.Current(),
		Index:     session.CurrentIndex,
		Total:     len(form.Questions),
	}, nil
}

// Advance answers the current question and moves forward. A completed result
// also creates the submission.
func (s *FlowService) Advance(ctx context.Context, sessionID string, answer model.AnswerValue) (*SessionView, error) {
	return s.step(ctx, sessionID, answer, (*FlowController).Advance)
}

// Submit finalizes the session from the final question.
func (s *FlowService) Submit(ctx context.Context, sessionID string, answer model.AnswerValue) (*SessionView, error) {
	return s.step(ctx, sessionID, answer, (*FlowController).Submit)
}

// Previous steps back one question without emitting events.
func (s *FlowService) Previous(ctx context.Context, sessionID string) (*SessionView, error) {
	form, session, controller, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result := controller.Previous()
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}

	return viewFor(session, form, result), nil
}

type stepFn func(*FlowController, context.Context, model.AnswerValue) (AdvanceResult, error)

func (s *FlowService) step(ctx context.Context, sessionID string, answer model.AnswerValue, fn stepFn) (*SessionView, error) {
	form, session, controller, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := fn(controller, ctx, answer)
	if err != nil {
		return nil, err
	}

	// The submission lands before the session is persisted as submitted: if
	// the store rejects it the cached session stays replayable and the
	// respondent's retry is not met with a finished session.
	if result.Completed {
		if _, err := s.submissionSvc.Create(ctx, form, session); err != nil {
			return nil, err
		}
	}

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, err
	}

	return viewFor(session, form, result), nil
}

func (s *FlowService) load(ctx context.Context, sessionID string) (*model.Form, *model.FlowSession, *FlowController, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, nil, err
	}
	if session == nil {
		return nil, nil, nil, ErrNotFound
	}

	form, err := s.formRepo.GetByID(ctx, session.FormID)
	if err != nil {
		return nil, nil, nil, err
	}
	if form == nil {
		return nil, nil, nil, ErrNotFound
	}

	controller, err := NewFlowController(form, session, s.evaluator, s.recorder)
	if err != nil {
		return nil, nil, nil, err
	}
	return form, session, controller, nil
}

func viewFor(session *model.FlowSession, form *model.Form, result AdvanceResult) *SessionView {
	view := &SessionView{
		SessionID: session.ID,
		Question:  result.Question,
		Index:     result.Index,
		Total:     len(form.Questions),
		Completed: result.Completed,
		AtEnd:     result.AtEnd,
	}
	if !result.Validation.Valid {
		v := result.Validation
		view.Result = &v
	}
	return view
}
