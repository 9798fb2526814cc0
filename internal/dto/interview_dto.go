package dto

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/noah-isme/campusprep-api/internal/models"
)

// StartInterviewRequest describes the payload for beginning a mock interview.
type StartInterviewRequest struct {
	Kind       string   `json:"kind" validate:"required"`
	Difficulty string   `json:"difficulty" validate:"required"`
	TechFocus  []string `json:"tech_focus" validate:"max=20,dive,max=60"`
}

// SubmitAnswerRequest describes an answer to one question. The index is kept raw so that
// non-integer values can be reported as validation errors instead of decode failures.
type SubmitAnswerRequest struct {
	QuestionIndex json.RawMessage `json:"question_index"`
	Answer        string          `json:"answer"`
}

// Index returns the question index when it is a whole JSON number (or a numeric string).
// Integral values written as 1.0 or 1e0 are accepted.
func (r SubmitAnswerRequest) Index() (int, bool) {
	if len(r.QuestionIndex) == 0 {
		return 0, false
	}

	raw := string(r.QuestionIndex)
	var text string
	if err := json.Unmarshal(r.QuestionIndex, &text); err == nil {
		raw = strings.TrimSpace(text)
	}

	value, err := json.Number(raw).Float64()
	if err != nil || math.IsInf(value, 0) || value != math.Trunc(value) {
		return 0, false
	}
	if value < math.MinInt32 || value > math.MaxInt32 {
		return 0, false
	}
	return int(value), true
}

// QuestionResponse is a single question presented to the candidate.
type QuestionResponse struct {
	Prompt   string `json:"prompt"`
	Category string `json:"category,omitempty"`
}

// StartInterviewResponse returns the new attempt and its first question.
type StartInterviewResponse struct {
	AttemptID      uint             `json:"attempt_id"`
	Question       QuestionResponse `json:"question"`
	QuestionIndex  int              `json:"question_index"`
	TotalQuestions int              `json:"total_questions"`
}

// AnswerResponse is one scored answer.
type AnswerResponse struct {
	QuestionIndex int       `json:"question_index"`
	Answer        string    `json:"answer"`
	Score         float64   `json:"score"`
	Correctness   float64   `json:"correctness"`
	Clarity       float64   `json:"clarity"`
	Depth         float64   `json:"depth"`
	Communication float64   `json:"communication"`
	Feedback      string    `json:"feedback"`
	WeakAreas     []string  `json:"weak_areas"`
	AnsweredAt    time.Time `json:"answered_at"`
}

// SubmitAnswerResponse reports the recorded answer and what comes next.
type SubmitAnswerResponse struct {
	Answer            AnswerResponse    `json:"answer"`
	NextQuestion      *QuestionResponse `json:"next_question"`
	NextQuestionIndex *int              `json:"next_question_index"`
	IsComplete        bool              `json:"is_complete"`
	FinalScore        *float64          `json:"final_score"`
	FinalFeedback     *string           `json:"final_feedback"`
}

// AttemptResponse is the full attempt view.
type AttemptResponse struct {
	ID             uint               `json:"id"`
	Kind           string             `json:"kind"`
	Difficulty     string             `json:"difficulty"`
	TechFocus      []string           `json:"tech_focus"`
	Status         string             `json:"status"`
	Questions      []QuestionResponse `json:"questions"`
	Answers        []AnswerResponse   `json:"answers"`
	Score          *float64           `json:"score"`
	Feedback       *string            `json:"feedback"`
	CompletedAt    *time.Time         `json:"completed_at"`
	CreatedAt      time.Time          `json:"created_at"`
	TotalQuestions int                `json:"total_questions"`
}

// AttemptSummaryResponse is the list view of an attempt.
type AttemptSummaryResponse struct {
	ID             uint      `json:"id"`
	Kind           string    `json:"kind"`
	Difficulty     string    `json:"difficulty"`
	Status         string    `json:"status"`
	Score          *float64  `json:"score"`
	AnsweredCount  int       `json:"answered_count"`
	TotalQuestions int       `json:"total_questions"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewQuestionResponse converts a stored question into a DTO.
func NewQuestionResponse(model models.InterviewQuestion) QuestionResponse {
	return QuestionResponse{Prompt: model.Prompt, Category: model.Category}
}

// NewAnswerResponse converts a stored answer into a DTO.
func NewAnswerResponse(model models.InterviewAnswer) AnswerResponse {
	weakAreas := model.WeakAreas
	if weakAreas == nil {
		weakAreas = []string{}
	}
	return AnswerResponse{
		QuestionIndex: model.QuestionIndex,
		Answer:        model.Text,
		Score:         model.Score,
		Correctness:   model.Correctness,
		Clarity:       model.Clarity,
		Depth:         model.Depth,
		Communication: model.Communication,
		Feedback:      model.Feedback,
		WeakAreas:     weakAreas,
		AnsweredAt:    model.AnsweredAt,
	}
}

// NewAttemptResponse converts a model into the full DTO.
func NewAttemptResponse(model models.InterviewAttempt) AttemptResponse {
	questions := make([]QuestionResponse, 0, len(model.Questions))
	for _, question := range model.Questions {
		questions = append(questions, NewQuestionResponse(question))
	}

	answers := make([]AnswerResponse, 0, len(model.Answers))
	for _, answer := range model.Answers {
		answers = append(answers, NewAnswerResponse(answer))
	}

	techFocus := []string(model.TechFocus)
	if techFocus == nil {
		techFocus = []string{}
	}

	return AttemptResponse{
		ID:             model.ID,
		Kind:           model.Kind,
		Difficulty:     model.Difficulty,
		TechFocus:      techFocus,
		Status:         model.Status(),
		Questions:      questions,
		Answers:        answers,
		Score:          model.Score,
		Feedback:       model.Feedback,
		CompletedAt:    model.CompletedAt,
		CreatedAt:      model.CreatedAt,
		TotalQuestions: len(model.Questions),
	}
}

// NewAttemptSummaryResponseSlice converts attempts into list DTOs.
func NewAttemptSummaryResponseSlice(attempts []models.InterviewAttempt) []AttemptSummaryResponse {
	responses := make([]AttemptSummaryResponse, 0, len(attempts))
	for _, attempt := range attempts {
		responses = append(responses, AttemptSummaryResponse{
			ID:             attempt.ID,
			Kind:           attempt.Kind,
			Difficulty:     attempt.Difficulty,
			Status:         attempt.Status(),
			Score:          attempt.Score,
			AnsweredCount:  len(attempt.Answers),
			TotalQuestions: len(attempt.Questions),
			CreatedAt:      attempt.CreatedAt,
		})
	}
	return responses
}
