package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const fiveQuestions = `{"questions": [
	{"prompt": "What is a mutex?", "category": "OS"},
	{"prompt": "Explain Big-O.", "category": "DSA"},
	{"prompt": "Tell me about yourself.", "category": "HR"},
	{"prompt": "What is REST?"},
	{"prompt": "Describe a deadlock.", "category": null}
]}`

func TestParseQuestionsStripsCodeFence(t *testing.T) {
	questions, err := parseQuestions("```json\n" + fiveQuestions + "\n```")
	require.NoError(t, err)
	require.Len(t, questions, QuestionCount)
	require.Equal(t, "What is a mutex?", questions[0].Prompt)
	require.Equal(t, "OS", questions[0].Category)
	require.Empty(t, questions[3].Category)
}

func TestParseQuestionsSalvagesObjectFromProse(t *testing.T) {
	questions, err := parseQuestions("Sure! Here are your questions:\n" + fiveQuestions + "\nGood luck.")
	require.NoError(t, err)
	require.Len(t, questions, QuestionCount)
}

func TestParseQuestionsRejectsWrongCount(t *testing.T) {
	_, err := parseQuestions(`{"questions": [{"prompt": "only one"}, {"prompt": "  "}]}`)
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseQuestionsRejectsMissingField(t *testing.T) {
	_, err := parseQuestions(`{"items": []}`)
	require.ErrorIs(t, err, ErrMalformedResponse)

	_, err = parseQuestions("no json at all")
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseEvaluationClampsSubScores(t *testing.T) {
	evaluation, err := parseEvaluation(`{"correctness": 9, "clarity": -1, "depth": 2, "communication": 1.5, "feedback": "  ok  ", "weakAreas": [" graphs ", "", "recursion"]}`)
	require.NoError(t, err)
	require.Equal(t, 4.0, evaluation.Correctness)
	require.Equal(t, 0.0, evaluation.Clarity)
	require.Equal(t, 2.0, evaluation.Depth)
	require.Equal(t, 1.5, evaluation.Communication)
	require.Equal(t, 7.5, evaluation.Score)
	require.Equal(t, "ok", evaluation.Feedback)
	require.Equal(t, []string{"graphs", "recursion"}, evaluation.WeakAreas)
}

func TestParseEvaluationRequiresRubricFields(t *testing.T) {
	_, err := parseEvaluation(`{"score": 8, "feedback": "fine"}`)
	require.True(t, errors.Is(err, ErrMalformedResponse))

	_, err = parseEvaluation(`{"correctness": "high", "clarity": 1, "depth": 1, "communication": 1}`)
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseSummaryClampsOverallScore(t *testing.T) {
	summary, err := parseSummary(`{"overallScore": 14, "summary": " Strong. ", "weakAreas": ["SQL"]}`)
	require.NoError(t, err)
	require.Equal(t, 10.0, summary.Score)
	require.Equal(t, "Strong.", summary.Feedback)
	require.Equal(t, []string{"SQL"}, summary.WeakAreas)
}

func TestCompositeScoreCapsAtTen(t *testing.T) {
	require.Equal(t, 10.0, CompositeScore(Evaluation{Correctness: 4, Clarity: 2, Depth: 2, Communication: 2.5}))
	require.Equal(t, 7.0, CompositeScore(Evaluation{Correctness: 3, Clarity: 2, Depth: 1, Communication: 1}))
}
