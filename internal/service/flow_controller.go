package service

import (
	"context"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
)

// AdvanceResult is the outcome of one navigation step. Exactly one of these
// situations holds: the answer failed validation, the session completed, the
// respondent is parked on the final question awaiting an explicit submit, or
// there is a next question to render.
type AdvanceResult struct {
	Validation ValidationResult `json:"validation"`
	Completed  bool             `json:"completed"`
	AtEnd      bool             `json:"atEnd"` // on the final question, submit is explicit
	Index      int              `json:"index"`
	Question   *model.Question  `json:"question,omitempty"`
}

// FlowController drives one respondent through a form's ordered question
// list. It is single-threaded per session; event recording is routed to the
// recorder, which absorbs failures so navigation never blocks on storage.
type FlowController struct {
	questions []model.Question
	welcome   model.WelcomeScreen
	session   *model.FlowSession
	evaluator *RuleEvaluator
	recorder  VisitEventRecorder
}

// NewFlowController binds a session to a form's questions. A form with no
// questions has no valid state and is a configuration error.
func NewFlowController(form *model.Form, session *model.FlowSession, evaluator *RuleEvaluator, recorder VisitEventRecorder) (*FlowController, error) {
	if len(form.Questions) == 0 {
		return nil, ConfigError("form %s has no questions", form.ID)
	}
	return &FlowController{
		questions: form.Questions,
		welcome:   form.Welcome,
		session:   session,
		evaluator: evaluator,
		recorder:  recorder,
	}, nil
}

// Begin opens the session: records the view and positions the respondent on
// the welcome screen when one is configured, otherwise directly on question 0.
func (c *FlowController) Begin(ctx context.Context, formID string, meta model.VisitMeta) {
	c.session.VisitID = c.recorder.RecordView(ctx, formID, meta)
	c.session.OnWelcome = c.welcome.Enabled
	c.session.CurrentIndex = 0
	c.session.Direction = 1
}

// Start dismisses the welcome screen. It is a no-op for sessions that began
// directly on question 0.
func (c *FlowController) Start(ctx context.Context) {
	if !c.session.OnWelcome {
		return
	}
	c.session.OnWelcome = false
	c.markStarted(ctx)
}

// Current returns the question the respondent is on.
func (c *FlowController) Current() *model.Question {
	return &c.questions[c.session.CurrentIndex]
}

// Advance records the answer for the current question and resolves the next
// position through the rule evaluator. Required questions reject empty
// answers as a validation result, not an error.
func (c *FlowController) Advance(ctx context.Context, answer model.AnswerValue) (AdvanceResult, error) {
	if c.session.IsSubmitted {
		return AdvanceResult{}, ErrSessionFinished
	}
	c.session.OnWelcome = false

	question := c.Current()
	if question.Required && answer.IsEmpty() {
		return c.invalid(), nil
	}

	c.recordAnswer(ctx, question, answer)

	dest := c.evaluator.Evaluate(question, answer.Flatten())
	cur := c.session.CurrentIndex

	switch dest.Kind {
	case model.DestinationEnd:
		return c.complete(ctx), nil

	case model.DestinationGoTo:
		// Forward-only: a jump target at or before the current question
		// would let respondents loop, so it falls back to the next
		// question in sequence.
		target := model.QuestionIndex(c.questions, dest.QuestionID)
		if target > cur {
			return c.moveTo(target), nil
		}
		if cur+1 < len(c.questions) {
			return c.moveTo(cur + 1), nil
		}
		return c.complete(ctx), nil

	default:
		if cur+1 < len(c.questions) {
			return c.moveTo(cur + 1), nil
		}
		// Final question: completion requires an explicit Submit.
		return AdvanceResult{
			Validation: validationOK(),
			AtEnd:      true,
			Index:      cur,
			Question:   question,
		}, nil
	}
}

// Submit finalizes the session from the final question. Submitting anywhere
// else is rejected: it would let a client skip the questions after its
// current position.
func (c *FlowController) Submit(ctx context.Context, answer model.AnswerValue) (AdvanceResult, error) {
	if c.session.IsSubmitted {
		return AdvanceResult{}, ErrSessionFinished
	}
	if c.session.CurrentIndex != len(c.questions)-1 {
		return AdvanceResult{}, ErrNotAtEnd
	}

	question := c.Current()
	if question.Required && answer.IsEmpty() {
		return c.invalid(), nil
	}

	c.recordAnswer(ctx, question, answer)
	return c.complete(ctx), nil
}

// Previous steps back one question. Pure navigation: no progress or
// completion events fire, and the answers already given are kept.
func (c *FlowController) Previous() AdvanceResult {
	if c.session.CurrentIndex > 0 && !c.session.IsSubmitted {
		c.session.CurrentIndex--
		c.session.Direction = -1
	}
	return AdvanceResult{
		Validation: validationOK(),
		Index:      c.session.CurrentIndex,
		Question:   c.Current(),
	}
}

func (c *FlowController) recordAnswer(ctx context.Context, question *model.Question, answer model.AnswerValue) {
	if c.session.Answers == nil {
		c.session.Answers = make(map[string]model.AnswerValue)
	}
	c.session.Answers[question.ID] = answer
	c.markStarted(ctx)
	// Progress fires before navigation is resolved, so an abandoned jump
	// still credits the question that was answered.
	c.recorder.RecordProgress(ctx, c.session.VisitID, question.ID)
}

// markStarted fires the start event exactly once per session: on welcome
// dismissal, or on the first answered question when no welcome screen is
// configured.
func (c *FlowController) markStarted(ctx context.Context) {
	if c.session.HasStarted {
		return
	}
	c.session.HasStarted = true
	c.recorder.RecordStart(ctx, c.session.VisitID)
}

func (c *FlowController) moveTo(index int) AdvanceResult {
	c.session.CurrentIndex = index
	c.session.Direction = 1
	return AdvanceResult{
		Validation: validationOK(),
		Index:      index,
		Question:   &c.questions[index],
	}
}

func (c *FlowController) complete(ctx context.Context) AdvanceResult {
	c.session.IsSubmitted = true
	c.recorder.RecordComplete(ctx, c.session.VisitID)
	return AdvanceResult{
		Validation: validationOK(),
		Completed:  true,
		Index:      c.session.CurrentIndex,
	}
}

func (c *FlowController) invalid() AdvanceResult {
	return AdvanceResult{
		Validation: validationFailure("this question is required"),
		Index:      c.session.CurrentIndex,
		Question:   c.Current(),
	}
}
