package ai

import (
	"context"
)

// StubProvider returns fixed, deterministic content. It backs local development and tests
// when no model credentials are configured.
type StubProvider struct{}

// NewStubProvider returns the deterministic provider.
func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

func (StubProvider) Name() string {
	return "stub"
}

func (StubProvider) GenerateQuestions(ctx context.Context, _ Profile) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []Question{
		{Prompt: "Can you explain the difference between a process and a thread?", Category: "OS"},
		{Prompt: "Describe a challenging bug you recently fixed. How did you approach it?", Category: "Experience"},
		{Prompt: "What is the time complexity of finding an element in a hash map versus a binary search tree?", Category: "DSA"},
		{Prompt: "Explain the concept of a closure in JavaScript or a similar concept in your preferred language.", Category: "Language"},
		{Prompt: "How do you handle receiving negative feedback from an engineering manager?", Category: "HR"},
	}, nil
}

func (StubProvider) EvaluateAnswer(ctx context.Context, _ Profile, _, _ string) (Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return Evaluation{}, err
	}
	evaluation := Evaluation{
		Correctness:   3,
		Clarity:       2,
		Depth:         1,
		Communication: 1,
		Feedback:      "This is a good start, but you could provide more depth by bringing up specific examples or edge cases.",
		WeakAreas:     []string{"Deep dives into edge cases"},
	}
	evaluation.Score = CompositeScore(evaluation)
	return evaluation, nil
}

func (StubProvider) SummarizeInterview(ctx context.Context, _ Profile, _ []QAPair) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	return Summary{
		Score: 7.5,
		Feedback: "The candidate demonstrated a strong baseline understanding of core concepts but struggled slightly with architectural depth. " +
			"Communication was generally clear and concise. Overall a solid performance requiring minor polish on edge case handling.",
		WeakAreas: []string{"Architectural depth", "Edge cases"},
	}, nil
}
