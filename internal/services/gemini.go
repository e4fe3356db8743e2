package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/aslammaududy/cv-checker/internal/config"
)

// EmbeddingService converts text into a fixed-dimension vector.
type EmbeddingService interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// GenerativeService runs a structured generation call: the payload is
// appended to the instruction as JSON and the model response is decoded
// into out. Any malformed or empty response is an ErrGeneration.
type GenerativeService interface {
	GenerateJSON(ctx context.Context, instruction string, payload any, out any) error
}

type GeminiService interface {
	EmbeddingService
	GenerativeService
}

// Low temperature keeps scoring output close to deterministic across runs.
const scoringTemperature = 0.1

const maxEmbedInputChars = 40000

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	embedDim   int
	timeout    time.Duration
}

func NewGeminiService(cfg config.GeminiConfig, timeout time.Duration) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		modelName:  cfg.Model,
		embedModel: cfg.EmbedModel,
		embedDim:   cfg.EmbedDim,
		timeout:    timeout,
	}, nil
}

// EmbedText implements EmbeddingService.
func (g *geminiService) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbedInputChars {
		text = text[:maxEmbedInputChars]
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: empty embedding result", ErrEmbedding)
	}

	vector := result.Embeddings[0].Values
	if g.embedDim > 0 && len(vector) != g.embedDim {
		return nil, fmt.Errorf("%w: dimension mismatch: got %d, want %d",
			ErrEmbedding, len(vector), g.embedDim)
	}

	return vector, nil
}

// GenerateJSON implements GenerativeService.
func (g *geminiService) GenerateJSON(ctx context.Context, instruction string, payload any, out any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal generation payload: %w", err)
	}

	temperature := float32(scoringTemperature)
	genCfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		MaxOutputTokens:  4096,
	}

	prompt := instruction + "\n" + string(payloadJSON)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), genCfg)
	if err != nil {
		return fmt.Errorf("failed to generate content: %w", err)
	}

	if resp == nil {
		return fmt.Errorf("%w: nil response", ErrGeneration)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty response", ErrGeneration)
	}

	if err := json.Unmarshal([]byte(extractJSON(text)), out); err != nil {
		return fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	return nil
}

// extractJSON strips markdown fences the model sometimes wraps around its
// output even in JSON mode, and narrows to the outermost object or array.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
