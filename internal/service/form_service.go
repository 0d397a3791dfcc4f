package service

import (
	"context"
	"sort"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
	"github.com/KennethOlivas/type-form-builder-sub000/internal/repository"
)

// FormService owns the builder's editing boundary: form CRUD, question list
// updates, and the logic-map edits. Editing state is held by the caller and
// passed through here; there is no ambient builder singleton.
type FormService struct {
	formRepo repository.FormRepo
	graph    *GraphService
}

// NewFormService creates a new form service
func NewFormService(formRepo repository.FormRepo, graph *GraphService) *FormService {
	return &FormService{
		formRepo: formRepo,
		graph:    graph,
	}
}

// Create validates and stores a new form.
func (s *FormService) Create(ctx context.Context, form *model.Form) (string, error) {
	normalizeQuestions(form.Questions)
	if err := validateLogic(form.Questions); err != nil {
		return "", err
	}
	return s.formRepo.Create(ctx, form)
}

// GetByID retrieves a form by id.
func (s *FormService) GetByID(ctx context.Context, id string) (*model.Form, error) {
	form, err := s.formRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrNotFound
	}
	return form, nil
}

// List retrieves all forms, most recently edited first.
func (s *FormService) List(ctx context.Context) ([]*model.Form, error) {
	return s.formRepo.List(ctx)
}

// Update replaces a form's metadata and welcome screen, keeping questions.
func (s *FormService) Update(ctx context.Context, id string, title, description string, welcome model.WelcomeScreen) (*model.Form, error) {
	form, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	form.Title = title
	form.Description = description
	form.Welcome = welcome
	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

// UpdateQuestions replaces the question list. A question whose type changed
// keeps its identity but loses the fields that no longer apply: renaming a
// rating to a short-text drops the scale, switching away from a choice type
// drops the options.
func (s *FormService) UpdateQuestions(ctx context.Context, id string, questions []model.Question) (*model.Form, error) {
	form, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := make(map[string]model.QuestionType, len(form.Questions))
	for _, q := range form.Questions {
		previous[q.ID] = q.Type
	}
	for i := range questions {
		q := &questions[i]
		if oldType, ok := previous[q.ID]; ok && oldType != q.Type {
			clearTypeFields(q)
		}
	}

	normalizeQuestions(questions)
	if err := validateLogic(questions); err != nil {
		return nil, err
	}

	form.Questions = questions
	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

// SetPublished toggles whether respondents can open the form.
func (s *FormService) SetPublished(ctx context.Context, id string, published bool) (*model.Form, error) {
	form, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	form.Published = published
	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

// Delete removes a form.
func (s *FormService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.formRepo.Delete(ctx, id)
}

// LogicMap projects the form's branching into the logic-map graph.
func (s *FormService) LogicMap(ctx context.Context, id string) (*model.FlowGraph, error) {
	form, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.graph.Project(form.Questions), nil
}

// ConnectEdge adds a logic edge on the map and persists the mutated rules.
func (s *FormService) ConnectEdge(ctx context.Context, id string, req ConnectRequest) (string, error) {
	form, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	edgeID, err := s.graph.Connect(form.Questions, req)
	if err != nil {
		return "", err
	}
	if err := s.formRepo.Update(ctx, form); err != nil {
		return "", err
	}
	return edgeID, nil
}

// DisconnectEdge removes a logic edge and persists the mutated rules.
func (s *FormService) DisconnectEdge(ctx context.Context, id string, edgeID string) error {
	form, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	removed, err := s.graph.Disconnect(form.Questions, edgeID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return s.formRepo.Update(ctx, form)
}

// normalizeQuestions sorts by position and reassigns dense positions so the
// linear path has no gaps after reorders or deletions.
func normalizeQuestions(questions []model.Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Position < questions[j].Position
	})
	for i := range questions {
		questions[i].Position = i
	}
}

// clearTypeFields drops the type-specific fields that are not valid for the
// question's new type.
func clearTypeFields(q *model.Question) {
	if !q.Type.HasOptions() {
		q.Options = nil
		q.AllowMultiple = false
	}
	if !q.Type.IsScalar() {
		q.RatingScale = 0
	}
	q.Placeholder = ""
}

// validateLogic rejects malformed branching up front: a rule or default that
// names a question id missing from the form is a configuration error at save
// time, not something to discover mid-session.
func validateLogic(questions []model.Question) error {
	ids := make(map[string]bool, len(questions))
	for _, q := range questions {
		ids[q.ID] = true
	}

	for _, q := range questions {
		if q.Logic == nil {
			continue
		}
		for _, rule := range q.Logic.Rules {
			if rule.DestinationType == model.DestSpecificQuestion &&
				rule.DestinationQuestionID != "" && !ids[rule.DestinationQuestionID] {
				return ConfigError("question %s rule targets unknown question %s", q.ID, rule.DestinationQuestionID)
			}
		}
		if q.Logic.DefaultDestinationType == model.DestSpecificQuestion &&
			q.Logic.DefaultDestinationQuestion != "" && !ids[q.Logic.DefaultDestinationQuestion] {
			return ConfigError("question %s default targets unknown question %s", q.ID, q.Logic.DefaultDestinationQuestion)
		}
	}
	return nil
}
