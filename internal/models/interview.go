package models

import (
	"time"

	"gorm.io/datatypes"
)

// Interview kinds.
const (
	InterviewKindTechnical = "technical"
	InterviewKindHR        = "hr"
	InterviewKindMixed     = "mixed"
)

// Interview difficulty levels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Derived attempt states.
const (
	InterviewStatusCreated    = "created"
	InterviewStatusInProgress = "in_progress"
	InterviewStatusComplete   = "complete"
)

// InterviewQuestionCount is the fixed size of every question set.
const InterviewQuestionCount = 5

// InterviewQuestion is one prompt in an attempt's question set.
type InterviewQuestion struct {
	Prompt   string `json:"prompt"`
	Category string `json:"category,omitempty"`
}

// InterviewAnswer is the scored response recorded for a single question index.
type InterviewAnswer struct {
	QuestionIndex int       `json:"question_index"`
	Text          string    `json:"text"`
	Score         float64   `json:"score"`
	Correctness   float64   `json:"correctness"`
	Clarity       float64   `json:"clarity"`
	Depth         float64   `json:"depth"`
	Communication float64   `json:"communication"`
	Feedback      string    `json:"feedback"`
	WeakAreas     []string  `json:"weak_areas"`
	AnsweredAt    time.Time `json:"answered_at"`
}

// InterviewAttempt is one run of the mock interview flow, stored as a single row.
type InterviewAttempt struct {
	ID          uint                                   `gorm:"primaryKey" json:"id"`
	AccountID   uint                                   `gorm:"not null;index" json:"account_id"`
	Kind        string                                 `gorm:"size:16;not null" json:"kind"`
	Difficulty  string                                 `gorm:"size:16;not null" json:"difficulty"`
	TechFocus   datatypes.JSONSlice[string]            `json:"tech_focus"`
	Questions   datatypes.JSONSlice[InterviewQuestion] `json:"questions"`
	Answers     datatypes.JSONSlice[InterviewAnswer]   `json:"answers"`
	Score       *float64                               `json:"score"`
	Feedback    *string                                `json:"feedback"`
	CompletedAt *time.Time                             `json:"completed_at"`
	CreatedAt   time.Time                              `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time                              `json:"updated_at"`
}

// AnswerFor returns the position of the answer recorded for questionIndex, or -1.
func (a InterviewAttempt) AnswerFor(questionIndex int) int {
	for i, answer := range a.Answers {
		if answer.QuestionIndex == questionIndex {
			return i
		}
	}
	return -1
}

// AllAnswered reports whether every question index has an answer.
func (a InterviewAttempt) AllAnswered() bool {
	if len(a.Questions) == 0 {
		return false
	}
	for idx := range a.Questions {
		if a.AnswerFor(idx) < 0 {
			return false
		}
	}
	return true
}

// IsComplete reports whether the attempt reached its terminal state.
func (a InterviewAttempt) IsComplete() bool {
	return a.Score != nil && a.AllAnswered()
}

// Status derives the lifecycle state from the recorded answers.
func (a InterviewAttempt) Status() string {
	switch {
	case a.IsComplete():
		return InterviewStatusComplete
	case len(a.Answers) == 0:
		return InterviewStatusCreated
	default:
		return InterviewStatusInProgress
	}
}

// IsValidInterviewKind reports whether kind is a supported interview kind.
func IsValidInterviewKind(kind string) bool {
	switch kind {
	case InterviewKindTechnical, InterviewKindHR, InterviewKindMixed:
		return true
	}
	return false
}

// IsValidDifficulty reports whether difficulty is a supported level.
func IsValidDifficulty(difficulty string) bool {
	switch difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
