package model

import "time"

// FormVisit is one respondent page load. Created on "view" with both
// StartedAt and CompletedAt unset, then mutated by the recorder as the
// respondent progresses. Never deleted by the core.
type FormVisit struct {
	ID                string     `json:"id" bson:"_id"`
	FormID            string     `json:"formId" bson:"formId"`
	Device            string     `json:"device,omitempty" bson:"device,omitempty"`
	Browser           string     `json:"browser,omitempty" bson:"browser,omitempty"`
	OS                string     `json:"os,omitempty" bson:"os,omitempty"`
	IP                string     `json:"ip,omitempty" bson:"ip,omitempty"`
	Country           string     `json:"country,omitempty" bson:"country,omitempty"`
	StartedAt         *time.Time `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	LastInteractionAt time.Time  `json:"lastInteractionAt" bson:"lastInteractionAt"`
	LastQuestionID    string     `json:"lastQuestionId,omitempty" bson:"lastQuestionId,omitempty"`
	CreatedAt         time.Time  `json:"createdAt" bson:"createdAt"`
}

// VisitMeta is the client-supplied context captured when a visit is created
type VisitMeta struct {
	Device  string `json:"device"`
	Browser string `json:"browser"`
	OS      string `json:"os"`
	IP      string `json:"-"`
	Country string `json:"country"`
}
