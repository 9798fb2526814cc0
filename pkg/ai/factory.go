package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Provider names accepted by NewProvider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderStub      = "stub"
	ProviderDisabled  = "disabled"
)

// Settings selects and configures the provider used by the process.
type Settings struct {
	Provider        string
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string
}

// NewProvider builds the configured provider. A selected provider without credentials
// falls back to the stub with a warning.
func NewProvider(settings Settings, logger zerolog.Logger) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(settings.Provider))
	if name == "" {
		name = ProviderOpenAI
	}

	switch name {
	case ProviderDisabled:
		logger.Warn().Msg("ai features disabled")
		return Unavailable{}, nil
	case ProviderStub:
		logger.Info().Msg("using deterministic stub ai provider")
		return NewStubProvider(), nil
	case ProviderOpenAI:
		if strings.TrimSpace(settings.OpenAIAPIKey) == "" {
			logger.Warn().Msg("openai api key missing, falling back to stub ai provider")
			return NewStubProvider(), nil
		}
		return NewOpenAIProvider(OpenAIConfig{
			APIKey: settings.OpenAIAPIKey,
			Model:  settings.OpenAIModel,
			Logger: logger,
		})
	case ProviderAnthropic:
		if strings.TrimSpace(settings.AnthropicAPIKey) == "" {
			logger.Warn().Msg("anthropic api key missing, falling back to stub ai provider")
			return NewStubProvider(), nil
		}
		return NewAnthropicProvider(AnthropicConfig{
			APIKey: settings.AnthropicAPIKey,
			Model:  settings.AnthropicModel,
			Logger: logger,
		})
	default:
		return nil, fmt.Errorf("unknown ai provider %q", settings.Provider)
	}
}

// Unavailable is a Provider that rejects every call. It is used when AI features are switched off.
type Unavailable struct{}

func (Unavailable) Name() string { return ProviderDisabled }

func (Unavailable) GenerateQuestions(context.Context, Profile) ([]Question, error) {
	return nil, ErrProviderUnavailable
}

func (Unavailable) EvaluateAnswer(context.Context, Profile, string, string) (Evaluation, error) {
	return Evaluation{}, ErrProviderUnavailable
}

func (Unavailable) SummarizeInterview(context.Context, Profile, []QAPair) (Summary, error) {
	return Summary{}, ErrProviderUnavailable
}
