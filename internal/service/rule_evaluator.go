package service

import (
	"strings"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
)

// RuleEvaluator decides where an answer sends the respondent next. It is a
// pure interpreter over a question's logic jump: no side effects, fully
// deterministic given its inputs.
type RuleEvaluator struct{}

// NewRuleEvaluator creates a new rule evaluator
func NewRuleEvaluator() *RuleEvaluator {
	return &RuleEvaluator{}
}

// Evaluate walks the question's rules in order and returns the destination of
// the first match, falling back to the logic jump's default when nothing
// matches. Questions without enabled logic always continue in sequence.
func (e *RuleEvaluator) Evaluate(question *model.Question, answer string) model.Destination {
	logic := question.Logic
	if logic == nil || !logic.Enabled {
		return model.NextInSequence
	}

	for i := range logic.Rules {
		rule := &logic.Rules[i]
		if !e.Matches(rule, answer) {
			continue
		}
		return destinationFor(rule.DestinationType, rule.DestinationQuestionID)
	}

	return destinationFor(logic.DefaultDestinationType, logic.DefaultDestinationQuestion)
}

// Matches applies a single rule's operator to an answer. Numeric operators
// that fail to parse either side are non-matches, never errors: a "greater
// than 4" rule simply does not fire on the answer "banana".
func (e *RuleEvaluator) Matches(rule *model.LogicRule, answer string) bool {
	value := rule.Value.String()

	switch rule.Operator {
	case model.OpIs:
		return answer == value
	case model.OpIsNot:
		return answer != value
	case model.OpContains:
		return strings.Contains(strings.ToLower(answer), strings.ToLower(value))
	case model.OpDoesNotContain:
		return !strings.Contains(strings.ToLower(answer), strings.ToLower(value))
	case model.OpStartsWith:
		return strings.HasPrefix(strings.ToLower(answer), strings.ToLower(value))
	case model.OpIsEmpty:
		return strings.TrimSpace(answer) == ""
	case model.OpIsNotEmpty:
		return strings.TrimSpace(answer) != ""
	case model.OpEquals:
		a, v, ok := numericPair(answer, rule.Value)
		return ok && a == v
	case model.OpNotEquals:
		a, v, ok := numericPair(answer, rule.Value)
		return ok && a != v
	case model.OpGreaterThan:
		a, v, ok := numericPair(answer, rule.Value)
		return ok && a > v
	case model.OpLessThan:
		a, v, ok := numericPair(answer, rule.Value)
		return ok && a < v
	case model.OpBetween:
		a, lo, ok := numericPair(answer, rule.Value)
		if !ok {
			return false
		}
		hi, ok := rule.ValueMax.Number()
		return ok && lo <= a && a <= hi
	default:
		return false
	}
}

// numericPair coerces the answer and the rule value to numbers. ok is false
// when either side fails to parse.
func numericPair(answer string, value model.RuleValue) (a, v float64, ok bool) {
	a, aok := model.RuleValue(answer).Number()
	v, vok := value.Number()
	return a, v, aok && vok
}

// destinationFor maps a configured destination onto a navigation decision.
// A specific-question destination without an id falls back to the next
// question in sequence rather than failing mid-session.
func destinationFor(destType model.DestinationType, questionID string) model.Destination {
	switch destType {
	case model.DestEndForm:
		return model.EndForm
	case model.DestSpecificQuestion:
		if questionID == "" {
			return model.NextInSequence
		}
		return model.GoTo(questionID)
	default:
		return model.NextInSequence
	}
}
