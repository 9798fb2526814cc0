package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	fencePattern  = regexp.MustCompile("(?s)^```[A-Za-z]*\\s*(.*?)\\s*```$")
	objectPattern = regexp.MustCompile(`\{[\s\S]*\}`)
)

const questionsSchemaSource = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["prompt"],
        "properties": {
          "prompt": {"type": "string"},
          "category": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

const evaluationSchemaSource = `{
  "type": "object",
  "required": ["correctness", "clarity", "depth", "communication"],
  "properties": {
    "correctness": {"type": "number"},
    "clarity": {"type": "number"},
    "depth": {"type": "number"},
    "communication": {"type": "number"},
    "feedback": {"type": ["string", "null"]},
    "weakAreas": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

const summarySchemaSource = `{
  "type": "object",
  "required": ["overallScore", "summary"],
  "properties": {
    "overallScore": {"type": "number"},
    "summary": {"type": "string"},
    "weakAreas": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

var (
	questionsSchema  = mustCompileSchema("questions.json", questionsSchemaSource)
	evaluationSchema = mustCompileSchema("evaluation.json", evaluationSchemaSource)
	summarySchema    = mustCompileSchema("summary.json", summarySchemaSource)
)

func mustCompileSchema(name, source string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(source)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", name, err))
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return schema
}

type questionsPayload struct {
	Questions []struct {
		Prompt   string  `json:"prompt"`
		Category *string `json:"category"`
	} `json:"questions"`
}

type evaluationPayload struct {
	Correctness   float64  `json:"correctness"`
	Clarity       float64  `json:"clarity"`
	Depth         float64  `json:"depth"`
	Communication float64  `json:"communication"`
	Feedback      *string  `json:"feedback"`
	WeakAreas     []string `json:"weakAreas"`
}

type summaryPayload struct {
	OverallScore float64  `json:"overallScore"`
	Summary      string   `json:"summary"`
	WeakAreas    []string `json:"weakAreas"`
}

// decodeResponse extracts the JSON object from raw model output, validates it and decodes it into target.
func decodeResponse(content string, schema *jsonschema.Schema, target interface{}) error {
	raw, doc, err := extractObject(content)
	if err != nil {
		return err
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return nil
}

func extractObject(content string) ([]byte, interface{}, error) {
	trimmed := strings.TrimSpace(content)
	if match := fencePattern.FindStringSubmatch(trimmed); match != nil {
		trimmed = strings.TrimSpace(match[1])
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(trimmed), &doc); err == nil {
		if _, ok := doc.(map[string]interface{}); ok {
			return []byte(trimmed), doc, nil
		}
	}

	candidate := objectPattern.FindString(content)
	if candidate == "" {
		return nil, nil, fmt.Errorf("%w: no json object found", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if _, ok := doc.(map[string]interface{}); !ok {
		return nil, nil, fmt.Errorf("%w: expected a json object", ErrMalformedResponse)
	}

	return []byte(candidate), doc, nil
}

func parseQuestions(content string) ([]Question, error) {
	var payload questionsPayload
	if err := decodeResponse(content, questionsSchema, &payload); err != nil {
		return nil, err
	}

	questions := make([]Question, 0, QuestionCount)
	for _, item := range payload.Questions {
		prompt := strings.TrimSpace(item.Prompt)
		if prompt == "" {
			continue
		}
		question := Question{Prompt: prompt}
		if item.Category != nil {
			question.Category = strings.TrimSpace(*item.Category)
		}
		questions = append(questions, question)
	}

	if len(questions) != QuestionCount {
		return nil, fmt.Errorf("%w: expected %d questions, got %d", ErrMalformedResponse, QuestionCount, len(questions))
	}

	return questions, nil
}

func parseEvaluation(content string) (Evaluation, error) {
	var payload evaluationPayload
	if err := decodeResponse(content, evaluationSchema, &payload); err != nil {
		return Evaluation{}, err
	}

	evaluation := Evaluation{
		Correctness:   clamp(payload.Correctness, MaxCorrectness),
		Clarity:       clamp(payload.Clarity, MaxClarity),
		Depth:         clamp(payload.Depth, MaxDepth),
		Communication: clamp(payload.Communication, MaxCommunication),
		WeakAreas:     cleanList(payload.WeakAreas),
	}
	if payload.Feedback != nil {
		evaluation.Feedback = strings.TrimSpace(*payload.Feedback)
	}
	evaluation.Score = CompositeScore(evaluation)

	return evaluation, nil
}

func parseSummary(content string) (Summary, error) {
	var payload summaryPayload
	if err := decodeResponse(content, summarySchema, &payload); err != nil {
		return Summary{}, err
	}

	return Summary{
		Score:     clamp(payload.OverallScore, MaxScore),
		Feedback:  strings.TrimSpace(payload.Summary),
		WeakAreas: cleanList(payload.WeakAreas),
	}, nil
}

// CompositeScore sums the rubric components, capped at MaxScore.
func CompositeScore(e Evaluation) float64 {
	return clamp(e.Correctness+e.Clarity+e.Depth+e.Communication, MaxScore)
}

func clamp(value, max float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	if value > max {
		return max
	}
	return value
}

func cleanList(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
