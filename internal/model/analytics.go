package model

import "time"

// DateRange bounds an analytics query. Nil ends are unbounded; both bounds
// are inclusive.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// NameValue is one labeled counter in the device breakdown or funnel
type NameValue struct {
	Name  string `json:"name" bson:"name"`
	Value int    `json:"value" bson:"value"`
}

// TimelinePoint is one day's submission count. Days with zero submissions
// are absent rather than zero-filled.
type TimelinePoint struct {
	Date  string `json:"date" bson:"date"` // YYYY-MM-DD, UTC
	Count int    `json:"count" bson:"count"`
}

// QuestionStats is the per-question slice of a report. Exactly one of the
// Recent / Counts / Histogram shapes is populated depending on the question
// type.
type QuestionStats struct {
	Type      QuestionType   `json:"type" bson:"type"`
	Recent    []string       `json:"recent,omitempty" bson:"recent,omitempty"`       // free-text: up to 5 most recent
	Counts    map[string]int `json:"counts,omitempty" bson:"counts,omitempty"`       // choice: value -> frequency
	Histogram map[int]int    `json:"histogram,omitempty" bson:"histogram,omitempty"` // scalar: bucket -> frequency
	Average   float64        `json:"average,omitempty" bson:"average,omitempty"`     // scalar only
}

// AnalyticsReport is the full dashboard payload for one form and date range
type AnalyticsReport struct {
	FormID         string                   `json:"formId" bson:"formId"`
	Title          string                   `json:"title" bson:"title"`
	Views          int                      `json:"views" bson:"views"`
	Starts         int                      `json:"starts" bson:"starts"`
	Submissions    int                      `json:"submissions" bson:"submissions"`
	CompletionRate float64                  `json:"completionRate" bson:"completionRate"` // 0..100
	AvgTimeSeconds float64                  `json:"avgTimeSeconds" bson:"avgTimeSeconds"`
	Devices        []NameValue              `json:"devices" bson:"devices"`
	Timeline       []TimelinePoint          `json:"timeline" bson:"timeline"`
	Funnel         []NameValue              `json:"funnel" bson:"funnel"`
	Questions      map[string]QuestionStats `json:"questions" bson:"questions"`
}
