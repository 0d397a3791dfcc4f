package model

import (
	"encoding/json"
	"strings"
	"time"
)

// AnswerValue is the tagged union an answer arrives as: a single string for
// most question types, or a string list for multi-select choice questions.
// The untyped JSON payload is resolved here at the edge so aggregation never
// sees interface{} values.
type AnswerValue struct {
	Text  string
	Multi []string
}

// TextAnswer wraps a plain string answer.
func TextAnswer(s string) AnswerValue { return AnswerValue{Text: s} }

// MultiAnswer wraps a multi-select answer.
func MultiAnswer(vals ...string) AnswerValue { return AnswerValue{Multi: vals} }

// IsMulti reports whether the answer is a multi-select list.
func (a AnswerValue) IsMulti() bool { return a.Multi != nil }

// IsEmpty reports whether the answer carries no content. Whitespace-only
// text counts as empty for required-field validation.
func (a AnswerValue) IsEmpty() bool {
	if a.Multi != nil {
		return len(a.Multi) == 0
	}
	return strings.TrimSpace(a.Text) == ""
}

// Flatten renders the answer as a single string for rule evaluation and
// free-text analytics. Multi-select answers join with ", ".
func (a AnswerValue) Flatten() string {
	if a.Multi != nil {
		return strings.Join(a.Multi, ", ")
	}
	return a.Text
}

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	if a.Multi != nil {
		return json.Marshal(a.Multi)
	}
	return json.Marshal(a.Text)
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = AnswerValue{Text: s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	if list == nil {
		list = []string{}
	}
	*a = AnswerValue{Multi: list}
	return nil
}

// Submission is a completed respondent's full answer set, keyed by question
// id. Immutable: created exactly once per completed session, never updated.
type Submission struct {
	ID          string                 `json:"id" bson:"_id"`
	FormID      string                 `json:"formId" bson:"formId"`
	Answers     map[string]AnswerValue `json:"answers" bson:"-"`
	RawAnswers  map[string]interface{} `json:"-" bson:"answers"`
	SubmittedAt time.Time              `json:"submittedAt" bson:"submittedAt"`
	Device      string                 `json:"device,omitempty" bson:"device,omitempty"`
}

// EncodeAnswers projects the typed answer map into the BSON-storable shape.
func (s *Submission) EncodeAnswers() {
	s.RawAnswers = make(map[string]interface{}, len(s.Answers))
	for id, a := range s.Answers {
		if a.IsMulti() {
			s.RawAnswers[id] = a.Multi
		} else {
			s.RawAnswers[id] = a.Text
		}
	}
}

// DecodeAnswers rebuilds the typed answer map from stored BSON values.
// Unknown value shapes are dropped rather than propagated untyped.
func (s *Submission) DecodeAnswers() {
	s.Answers = make(map[string]AnswerValue, len(s.RawAnswers))
	for id, raw := range s.RawAnswers {
		switch v := raw.(type) {
		case string:
			s.Answers[id] = TextAnswer(v)
		case []string:
			s.Answers[id] = MultiAnswer(v...)
		case []interface{}:
			vals := make([]string, 0, len(v))
			for _, el := range v {
				if str, ok := el.(string); ok {
					vals = append(vals, str)
				}
			}
			s.Answers[id] = MultiAnswer(vals...)
		}
	}
}
