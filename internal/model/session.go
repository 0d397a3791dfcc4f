package model

import "time"

// FlowSession is one respondent's walk through a form. It lives in the
// session cache for the duration of the browser session; the only durable
// trace it leaves is the visit events and, on completion, a submission.
type FlowSession struct {
	ID           string                 `json:"id"`
	FormID       string                 `json:"formId"`
	VisitID      string                 `json:"visitId,omitempty"`
	CurrentIndex int                    `json:"currentIndex"`
	Answers      map[string]AnswerValue `json:"answers"`
	Direction    int                    `json:"direction"` // +1 forward, -1 backward
	OnWelcome    bool                   `json:"onWelcome"`
	HasStarted   bool                   `json:"hasStarted"`
	IsSubmitted  bool                   `json:"isSubmitted"`
	Device       string                 `json:"device,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
}
