package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCorrectMCQ(t *testing.T) {
	q := Question{
		ID:      "q1",
		Prompt:  "Largest planet?",
		Type:    TypeMCQ,
		Options: []string{"Mars", "Jupiter", "Venus"},
		Answer:  "Jupiter",
	}

	assert.True(t, IsCorrect(q, "Jupiter"))
	assert.True(t, IsCorrect(q, "  jupiter "), "comparison is case and whitespace insensitive")
	assert.True(t, IsCorrect(q, 1), "index into the option list")
	assert.False(t, IsCorrect(q, 0))
	assert.False(t, IsCorrect(q, 5), "out-of-range index falls back to string compare")
	assert.False(t, IsCorrect(q, "Mars"))
}

func TestIsCorrectTrueFalse(t *testing.T) {
	q := Question{ID: "q2", Prompt: "The sky is blue.", Type: TypeTrueFalse, Answer: "true"}

	assert.True(t, IsCorrect(q, true))
	assert.True(t, IsCorrect(q, "TRUE"))
	assert.True(t, IsCorrect(q, "  true "))
	assert.False(t, IsCorrect(q, false))
	assert.False(t, IsCorrect(q, "yes"), "unparseable boolean text is incorrect")
}

func TestIsCorrectNumberInput(t *testing.T) {
	q := Question{ID: "q3", Prompt: "7 x 8?", Type: TypeNumberInput, Answer: "56"}

	assert.True(t, IsCorrect(q, 56))
	assert.True(t, IsCorrect(q, "56"))
	assert.True(t, IsCorrect(q, 56.005), "within the 0.01 tolerance")
	assert.False(t, IsCorrect(q, 56.02))
	assert.False(t, IsCorrect(q, 57))
	assert.False(t, IsCorrect(q, "fifty-six"), "unparseable numbers are incorrect")
}

func TestIsCorrectUnknownTypeFailsClosed(t *testing.T) {
	q := Question{ID: "q4", Prompt: "?", Type: "essay", Answer: "anything"}
	assert.False(t, IsCorrect(q, "anything"))
}

func TestIsCorrectIsPure(t *testing.T) {
	q := Question{ID: "q5", Prompt: "7 x 8?", Type: TypeNumberInput, Answer: "56"}
	first := IsCorrect(q, "56")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, IsCorrect(q, "56"))
	}
}
