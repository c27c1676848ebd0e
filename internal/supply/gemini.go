package supply

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"

	"github.com/synaptrix4/skillatics-io/internal/models"
)

// DefaultModels is tried in order when no model list is configured.
var DefaultModels = []string{"gemini-2.5-flash", "gemini-2.0-flash"}

// textGenerator is the single call the supply needs from a model client.
type textGenerator interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

type genaiGenerator struct {
	client *genai.Client
}

func (g *genaiGenerator) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	result, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}

// GeminiSupply generates questions with Gemini, falling back through an
// ordered list of models.
type GeminiSupply struct {
	gen    textGenerator
	models []string
}

func NewGeminiSupply(ctx context.Context, apiKey string, modelIDs []string) (*GeminiSupply, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return newGeminiSupply(&genaiGenerator{client: client}, modelIDs), nil
}

func newGeminiSupply(gen textGenerator, modelIDs []string) *GeminiSupply {
	if len(modelIDs) == 0 {
		modelIDs = DefaultModels
	}
	return &GeminiSupply{gen: gen, models: modelIDs}
}

func (s *GeminiSupply) Models() []string {
	return s.models
}

// Generate asks each model in turn until one returns at least one valid
// question. The returned error is the last model's.
func (s *GeminiSupply) Generate(ctx context.Context, topic string, difficulty, count int) ([]models.Question, error) {
	if count <= 0 {
		return nil, nil
	}
	prompt := buildPrompt(topic, difficulty, count)

	var lastErr error
	for _, model := range s.models {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = &GenerationError{Model: model, Err: err}
			}
			break
		}

		start := time.Now()
		text, err := s.gen.GenerateText(ctx, model, prompt)
		if err == nil {
			var questions []models.Question
			questions, err = parseQuestions(text, topic, difficulty, count)
			if err == nil {
				now := time.Now().UTC()
				for i := range questions {
					questions[i].CreatedAt = now
				}
				log.Printf("[SUPPLY] model=%s topic=%q difficulty=%d generated=%d in %v", model, topic, difficulty, len(questions), time.Since(start))
				return questions, nil
			}
		}

		log.Printf("[SUPPLY] model %s failed: %v", model, err)
		lastErr = &GenerationError{Model: model, Err: err}
	}
	return nil, lastErr
}
