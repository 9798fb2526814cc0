package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campusprep",
		Subsystem: "ai",
		Name:      "request_duration_seconds",
		Help:      "Duration of AI provider requests",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
	}, []string{"provider", "operation"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campusprep",
		Subsystem: "ai",
		Name:      "request_failures_total",
		Help:      "Number of failed AI provider requests",
	}, []string{"provider", "operation"})
)

// Operation names used in spans, metrics and logs.
const (
	opGenerateQuestions = "generate_questions"
	opEvaluateAnswer    = "evaluate_answer"
	opSummarize         = "summarize_interview"
)

// completion is one chat request against an upstream model.
type completion struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// completer sends a single completion upstream and returns the raw text.
type completer interface {
	complete(ctx context.Context, req completion) (string, error)
}

// chatProvider implements Provider on top of any chat completion backend.
type chatProvider struct {
	name      string
	model     string
	maxTokens int
	backend   completer
	tracer    trace.Tracer
	logger    zerolog.Logger
}

func newChatProvider(name, model string, maxTokens int, backend completer, logger zerolog.Logger) *chatProvider {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &chatProvider{
		name:      name,
		model:     model,
		maxTokens: maxTokens,
		backend:   backend,
		tracer:    otel.Tracer("github.com/noah-isme/campusprep-api/pkg/ai/" + name),
		logger:    logger.With().Str("component", "ai_provider").Str("provider", name).Logger(),
	}
}

func (p *chatProvider) Name() string {
	return p.name
}

func (p *chatProvider) GenerateQuestions(ctx context.Context, profile Profile) ([]Question, error) {
	var questions []Question
	err := p.call(ctx, opGenerateQuestions, completion{
		System:      systemPrompt,
		User:        questionsPrompt(profile),
		Temperature: 0.6,
	}, func(content string) error {
		parsed, err := parseQuestions(content)
		questions = parsed
		return err
	})
	return questions, err
}

func (p *chatProvider) EvaluateAnswer(ctx context.Context, profile Profile, question, answer string) (Evaluation, error) {
	var evaluation Evaluation
	err := p.call(ctx, opEvaluateAnswer, completion{
		System:      systemPrompt,
		User:        evaluationPrompt(profile, question, answer),
		Temperature: 0.3,
	}, func(content string) error {
		parsed, err := parseEvaluation(content)
		evaluation = parsed
		return err
	})
	return evaluation, err
}

func (p *chatProvider) SummarizeInterview(ctx context.Context, profile Profile, pairs []QAPair) (Summary, error) {
	var summary Summary
	err := p.call(ctx, opSummarize, completion{
		System:      systemPrompt,
		User:        summaryPrompt(profile, pairs),
		Temperature: 0.3,
	}, func(content string) error {
		parsed, err := parseSummary(content)
		summary = parsed
		return err
	})
	return summary, err
}

func (p *chatProvider) call(parent context.Context, operation string, req completion, parse func(string) error) error {
	ctx, span := p.tracer.Start(parent, p.name+"."+operation, trace.WithAttributes(
		attribute.String("ai.provider", p.name),
		attribute.String("ai.model", p.model),
	))
	defer span.End()

	if req.MaxTokens == 0 {
		req.MaxTokens = p.maxTokens
	}

	start := time.Now()
	content, err := p.backend.complete(ctx, req)
	aiDuration.WithLabelValues(p.name, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		if !errors.Is(err, ErrMalformedResponse) {
			err = fmt.Errorf("%s %s: %w: %w", p.name, operation, ErrProviderUnavailable, err)
		}
		return p.fail(span, operation, err)
	}

	if err := parse(content); err != nil {
		return p.fail(span, operation, fmt.Errorf("%s %s: %w", p.name, operation, err))
	}

	return nil
}

func (p *chatProvider) fail(span trace.Span, operation string, err error) error {
	aiFailures.WithLabelValues(p.name, operation).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	p.logger.Warn().Err(err).Str("operation", operation).Msg("ai provider call failed")
	return err
}
