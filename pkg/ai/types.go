package ai

import (
	"context"
	"errors"
)

var (
	// ErrProviderUnavailable is returned when no upstream model is configured or the upstream call fails.
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	// ErrMalformedResponse is returned when the model output cannot be interpreted.
	ErrMalformedResponse = errors.New("ai provider returned a malformed response")
)

// QuestionCount is the number of questions every generated set contains.
const QuestionCount = 5

// Score ceilings for the evaluation rubric.
const (
	MaxCorrectness   = 4.0
	MaxClarity       = 2.0
	MaxDepth         = 2.0
	MaxCommunication = 2.0
	MaxScore         = 10.0
)

// Profile describes the interview an operation is performed for.
type Profile struct {
	Kind       string
	Difficulty string
	TechFocus  []string
}

// Question is a single generated interview prompt.
type Question struct {
	Prompt   string `json:"prompt"`
	Category string `json:"category,omitempty"`
}

// Evaluation is the rubric score for one answer.
type Evaluation struct {
	Score         float64  `json:"score"`
	Correctness   float64  `json:"correctness"`
	Clarity       float64  `json:"clarity"`
	Depth         float64  `json:"depth"`
	Communication float64  `json:"communication"`
	Feedback      string   `json:"feedback"`
	WeakAreas     []string `json:"weak_areas"`
}

// QAPair is one answered question passed to SummarizeInterview.
type QAPair struct {
	Question string
	Answer   string
	Score    float64
	Feedback string
}

// Summary is the overall assessment of a completed interview.
type Summary struct {
	Score     float64  `json:"score"`
	Feedback  string   `json:"feedback"`
	WeakAreas []string `json:"weak_areas"`
}

// Provider generates, scores and summarizes mock interviews.
type Provider interface {
	Name() string
	GenerateQuestions(ctx context.Context, profile Profile) ([]Question, error)
	EvaluateAnswer(ctx context.Context, profile Profile, question, answer string) (Evaluation, error)
	SummarizeInterview(ctx context.Context, profile Profile, pairs []QAPair) (Summary, error)
}
