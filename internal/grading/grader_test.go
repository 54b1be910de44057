package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrader_ChoiceByOptionID(t *testing.T) {
	q := Q{
		Type: "MCQ",
		Options: []Option{
			{ID: "o1", IsCorrect: true},
			{ID: "o2", IsCorrect: false},
		},
	}

	g := NewGrader()

	tests := []struct {
		name      string
		submitted string
		want      bool
	}{
		{name: "correct option", submitted: "o1", want: true},
		{name: "wrong option", submitted: "o2", want: false},
		{name: "unknown option id", submitted: "o9", want: false},
		{name: "empty submission", submitted: "", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, g.Correct(q, tc.submitted))
		})
	}
}

func TestGrader_TrueFalseUsesOptionIDs(t *testing.T) {
	q := Q{
		Type: "TRUE_FALSE",
		Options: []Option{
			{ID: "t", IsCorrect: false},
			{ID: "f", IsCorrect: true},
		},
	}
	g := NewGrader()

	assert.True(t, g.Correct(q, "f"))
	assert.False(t, g.Correct(q, "t"))
}

func TestGrader_FIBTrimAndCase(t *testing.T) {
	q := Q{Type: "FIB", CorrectAnswer: "H2O"}
	g := NewGrader()

	tests := []struct {
		name      string
		submitted string
		want      bool
	}{
		{name: "exact", submitted: "H2O", want: true},
		{name: "padded lowercase", submitted: " h2o ", want: true},
		{name: "wrong answer", submitted: "CO2", want: false},
		{name: "interior whitespace differs", submitted: "H 2O", want: false},
		{name: "empty", submitted: "", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, g.Correct(q, tc.submitted))
		})
	}
}

func TestGrader_MatchingExactEquality(t *testing.T) {
	q := Q{Type: "MATCHING", CorrectAnswer: "a-1,b-2"}
	g := NewGrader()

	assert.True(t, g.Correct(q, "a-1,b-2"))
	assert.False(t, g.Correct(q, "A-1,B-2")) // no casefolding on the fallback path
}

func TestGrader_UnknownTypeFallsBack(t *testing.T) {
	q := Q{Type: "ESSAY", CorrectAnswer: "whatever"}
	g := NewGrader()

	assert.True(t, g.Correct(q, "whatever"))
	assert.False(t, g.Correct(q, " whatever "))
}
