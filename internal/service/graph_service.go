package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
)

// GraphService projects a form's branching logic into the logic-map graph
// and applies the inverse edits (connect / disconnect) back onto the
// question list. Layout is a client concern; only node/edge extraction and
// the edit mapping live here.
type GraphService struct{}

// NewGraphService creates a new graph service
func NewGraphService() *GraphService {
	return &GraphService{}
}

// fallbackEdgeID names the implicit "Otherwise" edge of a question whose
// default destination is a specific question. Rule edges reuse the rule id,
// which is what keeps edge deletion an exact inverse of rule creation.
func fallbackEdgeID(questionID string) string {
	return "default:" + questionID
}

// Project derives the directed graph: one node per question, one edge per
// rule targeting a specific question, plus an "Otherwise" fallback edge for
// defaults that target a specific question.
func (g *GraphService) Project(questions []model.Question) *model.FlowGraph {
	graph := &model.FlowGraph{
		Nodes: make([]model.FlowNode, 0, len(questions)),
		Edges: []model.FlowEdge{},
	}

	for i := range questions {
		q := &questions[i]
		graph.Nodes = append(graph.Nodes, model.FlowNode{
			ID:      q.ID,
			Label:   q.Label,
			Type:    q.Type,
			Options: q.Options,
		})

		if q.Logic == nil || !q.Logic.Enabled {
			continue
		}

		for _, rule := range q.Logic.Rules {
			if rule.DestinationQuestionID == "" {
				continue
			}
			graph.Edges = append(graph.Edges, model.FlowEdge{
				ID:     rule.ID,
				Source: q.ID,
				Target: rule.DestinationQuestionID,
				Label:  fmt.Sprintf("%s %s", rule.Operator, rule.Value),
			})
		}

		if q.Logic.DefaultDestinationType == model.DestSpecificQuestion && q.Logic.DefaultDestinationQuestion != "" {
			graph.Edges = append(graph.Edges, model.FlowEdge{
				ID:       fallbackEdgeID(q.ID),
				Source:   q.ID,
				Target:   q.Logic.DefaultDestinationQuestion,
				Label:    "Otherwise",
				Fallback: true,
			})
		}
	}

	return graph
}

// ConnectRequest describes a new rule edge drawn on the logic map.
type ConnectRequest struct {
	SourceQuestionID string          `json:"sourceQuestionId"`
	TargetQuestionID string          `json:"targetQuestionId"`
	Operator         model.Operator  `json:"operator"`
	Value            model.RuleValue `json:"value,omitempty"`
	ValueMax         model.RuleValue `json:"valueMax,omitempty"`
	AsDefault        bool            `json:"asDefault,omitempty"`
}

// Connect adds a rule (or default) edge between two questions. Only forward
// jumps are allowed: with that enforced at this boundary the question graph
// is acyclic by construction, so a plain index comparison replaces cycle
// detection.
func (g *GraphService) Connect(questions []model.Question, req ConnectRequest) (string, error) {
	source := model.QuestionIndex(questions, req.SourceQuestionID)
	if source < 0 {
		return "", ConfigError("unknown source question %s", req.SourceQuestionID)
	}
	target := model.QuestionIndex(questions, req.TargetQuestionID)
	if target < 0 {
		return "", ConfigError("unknown target question %s", req.TargetQuestionID)
	}
	if target <= source {
		return "", ConfigError("logic jumps must point forward (question %d -> %d)", source+1, target+1)
	}

	q := &questions[source]
	if q.Logic == nil {
		q.Logic = &model.LogicJump{DefaultDestinationType: model.DestNextQuestion}
	}
	q.Logic.Enabled = true

	if req.AsDefault {
		q.Logic.DefaultDestinationType = model.DestSpecificQuestion
		q.Logic.DefaultDestinationQuestion = req.TargetQuestionID
		return fallbackEdgeID(q.ID), nil
	}

	rule := model.LogicRule{
		ID:                    uuid.NewString(),
		Operator:              req.Operator,
		Value:                 req.Value,
		ValueMax:              req.ValueMax,
		DestinationType:       model.DestSpecificQuestion,
		DestinationQuestionID: req.TargetQuestionID,
	}
	q.Logic.Rules = append(q.Logic.Rules, rule)
	return rule.ID, nil
}

// Disconnect removes the edge with the given id: for a rule edge it deletes
// exactly the matching rule, for a fallback edge it resets the default back
// to next-question. Sibling rules are left untouched.
func (g *GraphService) Disconnect(questions []model.Question, edgeID string) (bool, error) {
	for i := range questions {
		q := &questions[i]
		if q.Logic == nil {
			continue
		}

		if edgeID == fallbackEdgeID(q.ID) {
			q.Logic.DefaultDestinationType = model.DestNextQuestion
			q.Logic.DefaultDestinationQuestion = ""
			return true, nil
		}

		for r := range q.Logic.Rules {
			if q.Logic.Rules[r].ID != edgeID {
				continue
			}
			q.Logic.Rules = append(q.Logic.Rules[:r], q.Logic.Rules[r+1:]...)
			return true, nil
		}
	}
	return false, nil
}
