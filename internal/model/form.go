package model

import "time"

// QuestionType defines the input widget a question renders as
type QuestionType string

const (
	QuestionShortText      QuestionType = "short-text"
	QuestionLongText       QuestionType = "long-text"
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionEmail          QuestionType = "email"
	QuestionPhone          QuestionType = "phone"
	QuestionDate           QuestionType = "date"
	QuestionRating         QuestionType = "rating"
	QuestionYesNo          QuestionType = "yes-no"
	QuestionDropdown       QuestionType = "dropdown"
	QuestionFileUpload     QuestionType = "file-upload"
)

// IsChoice reports whether answers are picked from a fixed option set.
func (t QuestionType) IsChoice() bool {
	return t == QuestionMultipleChoice || t == QuestionDropdown || t == QuestionYesNo
}

// IsScalar reports whether answers are numeric values on a scale.
func (t QuestionType) IsScalar() bool {
	return t == QuestionRating
}

// HasOptions reports whether the type carries an editable option list.
func (t QuestionType) HasOptions() bool {
	return t == QuestionMultipleChoice || t == QuestionDropdown
}

// Question is a single prompt in a form. Ordering by Position defines the
// default linear path a respondent walks when no logic jump applies.
type Question struct {
	ID            string       `json:"id" bson:"id"`
	Type          QuestionType `json:"type" bson:"type"`
	Label         string       `json:"label" bson:"label"`
	Description   string       `json:"description,omitempty" bson:"description,omitempty"`
	Placeholder   string       `json:"placeholder,omitempty" bson:"placeholder,omitempty"`
	Required      bool         `json:"required" bson:"required"`
	Options       []string     `json:"options,omitempty" bson:"options,omitempty"`
	AllowMultiple bool         `json:"allowMultiple,omitempty" bson:"allowMultiple,omitempty"`
	RatingScale   int          `json:"ratingScale,omitempty" bson:"ratingScale,omitempty"` // 3..10
	Position      int          `json:"position" bson:"position"`
	Logic         *LogicJump   `json:"logic,omitempty" bson:"logic,omitempty"`
}

// WelcomeScreen configures the optional intro step shown before question 0
type WelcomeScreen struct {
	Enabled     bool   `json:"enabled" bson:"enabled"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	ButtonText  string `json:"buttonText,omitempty" bson:"buttonText,omitempty"`
}

// Form is a named, ordered collection of questions built by a workspace user
type Form struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	Title       string        `json:"title" bson:"title"`
	Description string        `json:"description,omitempty" bson:"description,omitempty"`
	Welcome     WelcomeScreen `json:"welcome" bson:"welcome"`
	Published   bool          `json:"published" bson:"published"`
	Questions   []Question    `json:"questions" bson:"questions"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// QuestionIndex returns the position of the question with the given id in the
// ordered list, or -1 when no such question exists.
func (f *Form) QuestionIndex(questionID string) int {
	return QuestionIndex(f.Questions, questionID)
}

// QuestionIndex finds questionID in an ordered question list, -1 if absent.
func QuestionIndex(questions []Question, questionID string) int {
	for i := range questions {
		if questions[i].ID == questionID {
			return i
		}
	}
	return -1
}
