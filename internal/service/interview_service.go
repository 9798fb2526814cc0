package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/campusprep-api/internal/dto"
	"github.com/noah-isme/campusprep-api/internal/models"
	"github.com/noah-isme/campusprep-api/internal/observability"
	"github.com/noah-isme/campusprep-api/internal/repository"
	"github.com/noah-isme/campusprep-api/pkg/ai"
	"github.com/noah-isme/campusprep-api/pkg/events"
)

// InterviewService drives a mock interview from question generation to the final summary.
type InterviewService interface {
	Start(ctx context.Context, accountID uint, payload dto.StartInterviewRequest) (dto.StartInterviewResponse, error)
	SubmitAnswer(ctx context.Context, attemptID, accountID uint, questionIndex int, answer string) (dto.SubmitAnswerResponse, error)
	Get(ctx context.Context, attemptID, accountID uint) (dto.AttemptResponse, error)
	List(ctx context.Context, accountID uint) ([]dto.AttemptSummaryResponse, error)
}

type interviewService struct {
	repo      repository.InterviewRepository
	provider  ai.Provider
	publisher events.Publisher
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewInterviewService builds the interview state machine.
func NewInterviewService(repo repository.InterviewRepository, provider ai.Provider, publisher events.Publisher, validate *validator.Validate, logger zerolog.Logger) InterviewService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &interviewService{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		validator: validate,
		logger:    logger.With().Str("component", "interview_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/campusprep-api/internal/service/interview"),
		now:       time.Now,
	}
}

func (s *interviewService) Start(ctx context.Context, accountID uint, payload dto.StartInterviewRequest) (dto.StartInterviewResponse, error) {
	ctx, span := s.tracer.Start(ctx, "interview.start")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.StartInterviewResponse{}, translateValidation(err)
	}

	kind := strings.ToLower(strings.TrimSpace(payload.Kind))
	difficulty := strings.ToLower(strings.TrimSpace(payload.Difficulty))
	if !models.IsValidInterviewKind(kind) {
		return dto.StartInterviewResponse{}, validationError("kind must be one of technical, hr, mixed")
	}
	if !models.IsValidDifficulty(difficulty) {
		return dto.StartInterviewResponse{}, validationError("difficulty must be one of easy, medium, hard")
	}

	techFocus := normalizeTechFocus(payload.TechFocus)
	span.SetAttributes(
		attribute.String("interview.kind", kind),
		attribute.String("interview.difficulty", difficulty),
		attribute.Int("interview.tech_focus", len(techFocus)),
	)

	generated, err := s.provider.GenerateQuestions(ctx, ai.Profile{Kind: kind, Difficulty: difficulty, TechFocus: techFocus})
	if err != nil {
		return dto.StartInterviewResponse{}, s.fail(span, err)
	}
	if len(generated) != models.InterviewQuestionCount {
		return dto.StartInterviewResponse{}, s.fail(span, fmt.Errorf("%w: expected %d questions, got %d", ai.ErrMalformedResponse, models.InterviewQuestionCount, len(generated)))
	}

	questions := make(datatypes.JSONSlice[models.InterviewQuestion], 0, len(generated))
	for _, question := range generated {
		questions = append(questions, models.InterviewQuestion{Prompt: question.Prompt, Category: question.Category})
	}

	attempt := models.InterviewAttempt{
		AccountID:  accountID,
		Kind:       kind,
		Difficulty: difficulty,
		TechFocus:  datatypes.JSONSlice[string](techFocus),
		Questions:  questions,
		Answers:    datatypes.JSONSlice[models.InterviewAnswer]{},
	}
	if err := s.repo.Create(ctx, &attempt); err != nil {
		return dto.StartInterviewResponse{}, s.fail(span, err)
	}

	observability.RecordInterviewStarted(kind, difficulty)
	s.logger.Info().Uint("attempt_id", attempt.ID).Uint("account_id", accountID).Str("provider", s.provider.Name()).Msg("interview started")

	return dto.StartInterviewResponse{
		AttemptID:      attempt.ID,
		Question:       dto.NewQuestionResponse(attempt.Questions[0]),
		QuestionIndex:  0,
		TotalQuestions: len(attempt.Questions),
	}, nil
}

func (s *interviewService) SubmitAnswer(ctx context.Context, attemptID, accountID uint, questionIndex int, answer string) (dto.SubmitAnswerResponse, error) {
	ctx, span := s.tracer.Start(ctx, "interview.submit_answer", trace.WithAttributes(
		attribute.Int("interview.attempt_id", int(attemptID)),
		attribute.Int("interview.question_index", questionIndex),
	))
	defer span.End()

	if questionIndex < 0 || questionIndex >= models.InterviewQuestionCount {
		return dto.SubmitAnswerResponse{}, validationError("question_index must be an integer between 0 and %d", models.InterviewQuestionCount-1)
	}
	text := strings.TrimSpace(answer)
	if text == "" {
		return dto.SubmitAnswerResponse{}, validationError("answer is required")
	}

	attempt, err := s.load(ctx, attemptID, accountID)
	if err != nil {
		return dto.SubmitAnswerResponse{}, err
	}

	if questionIndex >= len(attempt.Questions) {
		return dto.SubmitAnswerResponse{}, validationError("no question exists at index %d", questionIndex)
	}

	profile := profileOf(attempt)
	evaluation, err := s.provider.EvaluateAnswer(ctx, profile, attempt.Questions[questionIndex].Prompt, text)
	if err != nil {
		return dto.SubmitAnswerResponse{}, s.fail(span, err)
	}

	recorded := models.InterviewAnswer{
		QuestionIndex: questionIndex,
		Text:          text,
		Score:         evaluation.Score,
		Correctness:   evaluation.Correctness,
		Clarity:       evaluation.Clarity,
		Depth:         evaluation.Depth,
		Communication: evaluation.Communication,
		Feedback:      evaluation.Feedback,
		WeakAreas:     evaluation.WeakAreas,
		AnsweredAt:    s.now().UTC(),
	}
	if existing := attempt.AnswerFor(questionIndex); existing >= 0 {
		attempt.Answers[existing] = recorded
	} else {
		attempt.Answers = append(attempt.Answers, recorded)
	}

	completedNow := false
	if attempt.AllAnswered() && attempt.Score == nil {
		summary, err := s.provider.SummarizeInterview(ctx, profile, orderedPairs(attempt))
		if err != nil {
			return dto.SubmitAnswerResponse{}, s.fail(span, err)
		}
		score := summary.Score
		feedback := summary.Feedback
		completedAt := s.now().UTC()
		attempt.Score = &score
		attempt.Feedback = &feedback
		attempt.CompletedAt = &completedAt
		completedNow = true
	}

	if err := s.repo.Save(ctx, &attempt); err != nil {
		return dto.SubmitAnswerResponse{}, s.fail(span, err)
	}

	if completedNow {
		observability.RecordInterviewCompleted(attempt.Kind, attempt.Difficulty, *attempt.Score)
		_ = s.publisher.Publish(ctx, events.TypeInterviewCompleted, map[string]interface{}{
			"attempt_id": attempt.ID,
			"account_id": attempt.AccountID,
			"kind":       attempt.Kind,
			"difficulty": attempt.Difficulty,
			"score":      *attempt.Score,
		})
		s.logger.Info().Uint("attempt_id", attempt.ID).Float64("score", *attempt.Score).Msg("interview completed")
	}

	response := dto.SubmitAnswerResponse{
		Answer:     dto.NewAnswerResponse(recorded),
		IsComplete: attempt.IsComplete(),
	}
	if next := questionIndex + 1; next < len(attempt.Questions) {
		question := dto.NewQuestionResponse(attempt.Questions[next])
		response.NextQuestion = &question
		response.NextQuestionIndex = &next
	}
	if response.IsComplete {
		response.FinalScore = attempt.Score
		response.FinalFeedback = attempt.Feedback
	}

	return response, nil
}

func (s *interviewService) Get(ctx context.Context, attemptID, accountID uint) (dto.AttemptResponse, error) {
	attempt, err := s.load(ctx, attemptID, accountID)
	if err != nil {
		return dto.AttemptResponse{}, err
	}
	return dto.NewAttemptResponse(attempt), nil
}

func (s *interviewService) List(ctx context.Context, accountID uint) ([]dto.AttemptSummaryResponse, error) {
	attempts, err := s.repo.ListByAccount(ctx, accountID, 0)
	if err != nil {
		return nil, err
	}
	return dto.NewAttemptSummaryResponseSlice(attempts), nil
}

// load hides attempts owned by other accounts behind the same not-found error.
func (s *interviewService) load(ctx context.Context, attemptID, accountID uint) (models.InterviewAttempt, error) {
	attempt, err := s.repo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.InterviewAttempt{}, notFoundError("interview not found")
		}
		return models.InterviewAttempt{}, err
	}
	if attempt.AccountID != accountID {
		return models.InterviewAttempt{}, notFoundError("interview not found")
	}
	return attempt, nil
}

func (s *interviewService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func profileOf(attempt models.InterviewAttempt) ai.Profile {
	return ai.Profile{
		Kind:       attempt.Kind,
		Difficulty: attempt.Difficulty,
		TechFocus:  []string(attempt.TechFocus),
	}
}

func orderedPairs(attempt models.InterviewAttempt) []ai.QAPair {
	answers := make([]models.InterviewAnswer, len(attempt.Answers))
	copy(answers, attempt.Answers)
	sort.SliceStable(answers, func(i, j int) bool {
		return answers[i].QuestionIndex < answers[j].QuestionIndex
	})

	return lo.Map(answers, func(answer models.InterviewAnswer, _ int) ai.QAPair {
		return ai.QAPair{
			Question: attempt.Questions[answer.QuestionIndex].Prompt,
			Answer:   answer.Text,
			Score:    answer.Score,
			Feedback: answer.Feedback,
		}
	})
}

// normalizeTechFocus trims tags, drops empties and removes case-insensitive duplicates keeping the first spelling.
func normalizeTechFocus(tags []string) []string {
	trimmed := lo.FilterMap(tags, func(tag string, _ int) (string, bool) {
		value := strings.TrimSpace(tag)
		return value, value != ""
	})
	return lo.UniqBy(trimmed, strings.ToLower)
}
