package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Operator is the comparison a logic rule applies to an answer
type Operator string

const (
	OpIs             Operator = "is"
	OpIsNot          Operator = "is-not"
	OpContains       Operator = "contains"
	OpDoesNotContain Operator = "does-not-contain"
	OpStartsWith     Operator = "starts-with"
	OpIsEmpty        Operator = "is-empty"
	OpIsNotEmpty     Operator = "is-not-empty"
	OpEquals         Operator = "equals"
	OpNotEquals      Operator = "not-equals"
	OpGreaterThan    Operator = "greater-than"
	OpLessThan       Operator = "less-than"
	OpBetween        Operator = "between"
)

// DestinationType says where a matched rule (or the default) sends the respondent
type DestinationType string

const (
	DestNextQuestion     DestinationType = "next-question"
	DestSpecificQuestion DestinationType = "specific-question"
	DestEndForm          DestinationType = "end-form"
)

// RuleValue holds a rule comparison operand. The builder UI sends either a
// JSON string or a JSON number depending on the operator, so both are accepted
// and kept in string form; numeric operators parse on evaluation.
type RuleValue string

func (v *RuleValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = RuleValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = RuleValue(n.String())
	return nil
}

func (v RuleValue) String() string { return string(v) }

// Number parses the value as a float. ok is false when it does not parse;
// callers treat that as a non-match, never an error.
func (v RuleValue) Number() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	return f, err == nil
}

// LogicRule is one conditional branch attached to a question. Rules are
// evaluated in list order and the first match wins.
type LogicRule struct {
	ID                    string          `json:"id" bson:"id"`
	Operator              Operator        `json:"operator" bson:"operator"`
	Value                 RuleValue       `json:"value,omitempty" bson:"value,omitempty"`
	ValueMax              RuleValue       `json:"valueMax,omitempty" bson:"valueMax,omitempty"` // between only
	DestinationType       DestinationType `json:"destinationType" bson:"destinationType"`
	DestinationQuestionID string          `json:"destinationQuestionId,omitempty" bson:"destinationQuestionId,omitempty"`
}

// LogicJump is the branching configuration attached to a question: an ordered
// rule list plus the default applied when no rule matches.
type LogicJump struct {
	Enabled                    bool            `json:"enabled" bson:"enabled"`
	Rules                      []LogicRule     `json:"rules" bson:"rules"`
	DefaultDestinationType     DestinationType `json:"defaultDestinationType" bson:"defaultDestinationType"`
	DefaultDestinationQuestion string          `json:"defaultDestinationQuestionId,omitempty" bson:"defaultDestinationQuestionId,omitempty"`
}

// DestinationKind is the resolved outcome of evaluating a question's logic
type DestinationKind int

const (
	DestinationNext DestinationKind = iota // next question in sequence
	DestinationEnd                         // terminal: form is complete
	DestinationGoTo                        // jump to a specific question
)

// Destination is a navigation decision produced by rule evaluation
type Destination struct {
	Kind       DestinationKind
	QuestionID string // set only for DestinationGoTo
}

var (
	NextInSequence = Destination{Kind: DestinationNext}
	EndForm        = Destination{Kind: DestinationEnd}
)

// GoTo builds a jump destination to the given question id.
func GoTo(questionID string) Destination {
	return Destination{Kind: DestinationGoTo, QuestionID: questionID}
}
