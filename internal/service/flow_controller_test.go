package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
)

// recorderSpy counts lifecycle events so tests can assert on exactly what the
// flow engine emitted.
type recorderSpy struct {
	views     int
	starts    int
	progress  []string
	completes int
}

func (r *recorderSpy) RecordView(ctx context.Context, formID string, meta model.VisitMeta) string {
	r.views++
	return "visit-1"
}

func (r *recorderSpy) RecordStart(ctx context.Context, visitID string) {
	r.starts++
}

func (r *recorderSpy) RecordProgress(ctx context.Context, visitID, questionID string) {
	r.progress = append(r.progress, questionID)
}

func (r *recorderSpy) RecordComplete(ctx context.Context, visitID string) {
	r.completes++
}

func branchingForm() *model.Form {
	return &model.Form{
		ID:    "form-1",
		Title: "Feedback",
		Welcome: model.WelcomeScreen{
			Enabled: true,
			Title:   "Hi there",
		},
		Published: true,
		Questions: []model.Question{
			{
				ID:          "q1",
				Type:        model.QuestionRating,
				Label:       "Rate us",
				Required:    true,
				RatingScale: 5,
				Position:    0,
				Logic: &model.LogicJump{
					Enabled: true,
					Rules: []model.LogicRule{
						{
							ID:                    "r1",
							Operator:              model.OpLessThan,
							Value:                 "4",
							DestinationType:       model.DestSpecificQuestion,
							DestinationQuestionID: "q3",
						},
					},
					DefaultDestinationType: model.DestNextQuestion,
				},
			},
			{ID: "q2", Type: model.QuestionShortText, Label: "Anything else?", Position: 1},
			{ID: "q3", Type: model.QuestionLongText, Label: "What went wrong?", Position: 2},
			{ID: "q4", Type: model.QuestionEmail, Label: "Your email", Position: 3},
		},
	}
}

func newTestController(t *testing.T, form *model.Form) (*FlowController, *model.FlowSession, *recorderSpy) {
	t.Helper()
	session := &model.FlowSession{ID: "s1", FormID: form.ID}
	spy := &recorderSpy{}
	controller, err := NewFlowController(form, session, NewRuleEvaluator(), spy)
	require.NoError(t, err)
	return controller, session, spy
}

func TestNewFlowController_RejectsEmptyForm(t *testing.T) {
	form := &model.Form{ID: "form-1"}
	_, err := NewFlowController(form, &model.FlowSession{}, NewRuleEvaluator(), &recorderSpy{})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestBegin_RecordsViewAndShowsWelcome(t *testing.T) {
	controller, session, spy := newTestController(t, branchingForm())

	controller.Begin(context.Background(), "form-1", model.VisitMeta{Device: "mobile"})

	assert.Equal(t, 1, spy.views)
	assert.Equal(t, "visit-1", session.VisitID)
	assert.True(t, session.OnWelcome)
	assert.Zero(t, spy.starts, "viewing is not starting")
}

func TestStart_FiresStartEventOnce(t *testing.T) {
	controller, session, spy := newTestController(t, branchingForm())
	controller.Begin(context.Background(), "form-1", model.VisitMeta{})

	controller.Start(context.Background())
	controller.Start(context.Background())

	assert.False(t, session.OnWelcome)
	assert.Equal(t, 1, spy.starts)
}

func TestBegin_NoWelcomeScreenSkipsToFirstQuestion(t *testing.T) {
	form := branchingForm()
	form.Welcome.Enabled = false
	controller, session, spy := newTestController(t, form)

	controller.Begin(context.Background(), "form-1", model.VisitMeta{})

	assert.False(t, session.OnWelcome)
	assert.Equal(t, "q1", controller.Current().ID)

	// First answered question doubles as the start signal.
	_, err := controller.Advance(context.Background(), model.TextAnswer("5"))
	require.NoError(t, err)
	assert.Equal(t, 1, spy.starts)
}

func TestAdvance_RequiredQuestionRejectsEmptyAnswer(t *testing.T) {
	controller, session, spy := newTestController(t, branchingForm())
	controller.Begin(context.Background(), "form-1", model.VisitMeta{})
	controller.Start(context.Background())

	result, err := controller.Advance(context.Background(), model.TextAnswer("   "))
	require.NoError(t, err, "a rejected answer is a result, not an error")

	assert.False(t, result.Validation.Valid)
	assert.NotEmpty(t, result.Validation.Message)
	assert.Equal(t, 0, session.CurrentIndex, "respondent stays on the question")
	assert.Empty(t, spy.progress, "no progress event for a rejected answer")
}

func TestAdvance_LowRatingJumpsForward(t *testing.T) {
	controller, session, spy := newTestController(t, branchingForm())
	controller.Begin(context.Background(), "form-1", model.VisitMeta{})
	controller.Start(context.Background())

	result, err := controller.Advance(context.Background(), model.TextAnswer("2"))
	require.NoError(t, err)

	assert.True(t, result.Validation.Valid)
	assert.Equal(t, 2, session.CurrentIndex)
	assert.Equal(t, "q3", result.Question.ID)
	assert.Equal(t, []string{"q1"}, spy.progress)
}

func TestAdvance_HighRatingContinuesInSequence(t *testing.T) {
	controller, session, _ := newTestController(t, branchingForm())
	controller.Begin(context.Background(), "form-1", model.VisitMeta{})
	controller.Start(context.Background())

	result, err := controller.Advance(context.Background(), model.TextAnswer("5"))
	require.NoError(t, err)

	assert.Equal(t, 1, session.CurrentIndex)
	assert.Equal(t, "q2", result.Question.ID)
}

func TestAdvance_BackwardJumpFallsThroughToNextQuestion(t *testing.T) {
	form := branchingForm()
	// Point the rule backward at the question itself.
	form.Questions[0].Logic.Rules[0].DestinationQuestionID = "q1"
	controller, session, _ := newTestController(t, form)
	controller.Begin(context.Background(), "form-1", model.VisitMeta{})
	controller.Start(context.Background())

	result, err := controller.Advance(context.Background(), model.TextAnswer("2"))
	require.NoError(t, err)

	assert.Equal(t, 1, session.CurrentIndex, "backward target falls back to the next question")
	assert.Equal(t, "q2", result.Question.ID)
}

func TestAdvance_EndFormRuleCompletes(t *testing.T) {
	form := branchingForm()
	form.Questions[0].Logic.Rules[0] = model.LogicRule{
		ID:              "r1",
		Operator:        model.OpGreaterThan,
		Value:           "3",
		DestinationType: model.DestEndForm,
	}
	controller, session, spy := newTestController(t, form)
	controller.Begin(context.Background(), "form-1", model.VisitMeta{})
	controller.Start(context.Background())

	result, err := controller.Advance(context.Background(), model.TextAnswer("5"))
	require.NoError(t, err)

	assert.True(t, result.Completed)
	assert.True(t, session.IsSubmitted)
	assert.Equal(t, 1, spy.completes)
}

func TestAdvance_FinalQuestionRequiresExplicitSubmit(t *testing.T) {
	controller, session, spy := newTestController(t, branchingForm())
	controller.Begin(context.Background(), "form-1", model.VisitMeta{})
	controller.Start(context.Background())

	answers := []string{"5", "all good", "nothing", "a@b.com"}
	var result AdvanceResult
	var err error
	for _, a := range answers[:3] {
		result, err = controller.Advance(context.Background(), model.TextAnswer(a))
		require.NoError(t, err)
	}

	// Advancing on the final question parks, it does not complete.
	result, err = controller.Advance(context.Background(), model.TextAnswer(answers[3]))
	require.NoError(t, err)
	assert.True(t, result.AtEnd)
	assert.False(t, result.Completed)
	assert.False(t, session.IsSubmitted)
	assert.Zero(t, spy.completes)

	result, err = controller.Submit(context.Background(), model.TextAnswer(answers[3]))
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.True(t, session.IsSubmitted)
	assert.Equal(t, 1, spy.completes)
}

func TestSubmit_RejectedBeforeFinalQuestion(t *testing.T) {
	controller, session, spy := newTestController(t, branchingForm())
	controller.Begin(context.Background(), "form-1", model.VisitMeta{})
	controller.Start(context.Background())

	// Still on q1: submitting here would skip every later question.
	_, err := controller.Submit(context.Background(), model.TextAnswer("5"))
	assert.ErrorIs(t, err, ErrNotAtEnd)
	assert.False(t, session.IsSubmitted)
	assert.Zero(t, spy.completes)

	_, err = controller.Advance(context.Background(), model.TextAnswer("5"))
	require.NoError(t, err)
	_, err = controller.Submit(context.Background(), model.TextAnswer("skipping ahead"))
	assert.ErrorIs(t, err, ErrNotAtEnd, "mid-form submit rejected")
}

func TestAdvance_AfterSubmitIsFinished(t *testing.T) {
	controller, _, _ := newTestController(t, branchingForm())
	controller.Begin(context.Background(), "form-1", model.VisitMeta{})
	controller.Start(context.Background())
	session := controller.session
	session.IsSubmitted = true

	_, err := controller.Advance(context.Background(), model.TextAnswer("5"))
	assert.ErrorIs(t, err, ErrSessionFinished)

	_, err = controller.Submit(context.Background(), model.TextAnswer("5"))
	assert.ErrorIs(t, err, ErrSessionFinished)
}

func TestPrevious_NavigatesWithoutEvents(t *testing.T) {
	controller, session, spy := newTestController(t, branchingForm())
	controller.Begin(context.Background(), "form-1", model.VisitMeta{})
	controller.Start(context.Background())

	_, err := controller.Advance(context.Background(), model.TextAnswer("5"))
	require.NoError(t, err)
	eventsBefore := len(spy.progress)

	result := controller.Previous()

	assert.Equal(t, 0, result.Index)
	assert.Equal(t, "q1", result.Question.ID)
	assert.Equal(t, -1, session.Direction)
	assert.Len(t, spy.progress, eventsBefore, "stepping back emits nothing")
	assert.Equal(t, model.TextAnswer("5"), session.Answers["q1"], "answers are kept")

	// Already at the first question: stay put.
	result = controller.Previous()
	assert.Equal(t, 0, result.Index)
}

func TestAdvance_ProgressFiresForAnsweredQuestionBeforeNavigation(t *testing.T) {
	controller, _, spy := newTestController(t, branchingForm())
	controller.Begin(context.Background(), "form-1", model.VisitMeta{})
	controller.Start(context.Background())

	_, err := controller.Advance(context.Background(), model.TextAnswer("2"))
	require.NoError(t, err)
	_, err = controller.Advance(context.Background(), model.TextAnswer("slow exports"))
	require.NoError(t, err)

	// q1's low rating jumped over q2; progress credits the questions that
	// were actually answered.
	assert.Equal(t, []string{"q1", "q3"}, spy.progress)
}
