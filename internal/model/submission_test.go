package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerValue_UnmarshalStringOrList(t *testing.T) {
	var a AnswerValue
	require.NoError(t, json.Unmarshal([]byte(`"hello"`), &a))
	assert.Equal(t, TextAnswer("hello"), a)
	assert.False(t, a.IsMulti())

	require.NoError(t, json.Unmarshal([]byte(`["A","B"]`), &a))
	assert.True(t, a.IsMulti())
	assert.Equal(t, []string{"A", "B"}, a.Multi)

	assert.Error(t, json.Unmarshal([]byte(`{"nested":true}`), &a))
}

func TestAnswerValue_MarshalRoundTrip(t *testing.T) {
	data, err := json.Marshal(TextAnswer("hi"))
	require.NoError(t, err)
	assert.JSONEq(t, `"hi"`, string(data))

	data, err = json.Marshal(MultiAnswer("A", "B"))
	require.NoError(t, err)
	assert.JSONEq(t, `["A","B"]`, string(data))
}

func TestAnswerValue_IsEmpty(t *testing.T) {
	assert.True(t, TextAnswer("").IsEmpty())
	assert.True(t, TextAnswer("   ").IsEmpty())
	assert.False(t, TextAnswer("x").IsEmpty())
	assert.True(t, MultiAnswer().IsEmpty())
	assert.False(t, MultiAnswer("A").IsEmpty())
}

func TestAnswerValue_Flatten(t *testing.T) {
	assert.Equal(t, "hi", TextAnswer("hi").Flatten())
	assert.Equal(t, "A, B", MultiAnswer("A", "B").Flatten())
}

func TestSubmission_EncodeDecodeAnswers(t *testing.T) {
	s := &Submission{
		Answers: map[string]AnswerValue{
			"q1": TextAnswer("4"),
			"q2": MultiAnswer("A", "B"),
		},
	}
	s.EncodeAnswers()

	assert.Equal(t, "4", s.RawAnswers["q1"])
	assert.Equal(t, []string{"A", "B"}, s.RawAnswers["q2"])

	// Decoded BSON arrays come back as []interface{}.
	stored := &Submission{
		RawAnswers: map[string]interface{}{
			"q1": "4",
			"q2": []interface{}{"A", "B"},
			"q3": 42,
		},
	}
	stored.DecodeAnswers()

	assert.Equal(t, TextAnswer("4"), stored.Answers["q1"])
	assert.Equal(t, MultiAnswer("A", "B"), stored.Answers["q2"])
	assert.NotContains(t, stored.Answers, "q3", "untyped values are dropped")
}

func TestRuleValue_UnmarshalStringOrNumber(t *testing.T) {
	var v RuleValue
	require.NoError(t, json.Unmarshal([]byte(`"yes"`), &v))
	assert.Equal(t, RuleValue("yes"), v)

	require.NoError(t, json.Unmarshal([]byte(`4`), &v))
	assert.Equal(t, RuleValue("4"), v)

	require.NoError(t, json.Unmarshal([]byte(`7.5`), &v))
	n, ok := v.Number()
	require.True(t, ok)
	assert.Equal(t, 7.5, n)

	_, ok = RuleValue("banana").Number()
	assert.False(t, ok)
}

func TestQuestionIndex(t *testing.T) {
	questions := []Question{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, 1, QuestionIndex(questions, "b"))
	assert.Equal(t, -1, QuestionIndex(questions, "ghost"))
}
