package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	geminiEmbeddingAPI = "https://generativelanguage.googleapis.com/v1beta/models/gemini-embedding-001:embedContent"
	maxRetries         = 3
	initialBackoff     = time.Second
)

// GeminiService is the hosted alternative to LocalLLMService, selected with
// LLM_BACKEND=gemini. It keeps the same Embedder/GenerationEngine contracts
// so the rest of the pipeline does not care which backend is wired.
type GeminiService struct {
	client    *genai.Client
	chatModel string
	apiKey    string
}

// NewGeminiService creates the Gemini backend. A nil client (missing key,
// init failure) leaves the service unavailable rather than failing startup.
func NewGeminiService(ctx context.Context) *GeminiService {
	apiKey := os.Getenv("GEMINI_API_KEY")
	chatModel := os.Getenv("GEMINI_MODEL")
	if chatModel == "" {
		chatModel = "gemini-2.0-flash"
	}

	s := &GeminiService{chatModel: chatModel, apiKey: apiKey}
	if apiKey == "" {
		return s
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return s
	}
	s.client = client
	return s
}

// Available reports whether the Gemini client initialized
func (s *GeminiService) Available() bool {
	return s.client != nil
}

// Generate runs a single-turn completion with a hard output-length cap
func (s *GeminiService) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if s.client == nil {
		return "", ErrEngineUnavailable
	}

	model := s.client.GenerativeModel(s.chatModel)
	model.SetMaxOutputTokens(int32(maxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

type geminiEmbeddingRequest struct {
	Model                string             `json:"model"`
	Content              geminiContentInput `json:"content"`
	TaskType             string             `json:"task_type,omitempty"`
	OutputDimensionality int                `json:"output_dimensionality,omitempty"`
}

type geminiContentInput struct {
	Parts []geminiPartInput `json:"parts"`
}

type geminiPartInput struct {
	Text string `json:"text"`
}

type geminiEmbeddingResponse struct {
	Embedding geminiEmbeddingData `json:"embedding"`
}

type geminiEmbeddingData struct {
	Values []float64 `json:"values"`
}

// EmbedText generates a normalized 768-dim embedding via the REST API,
// with exponential backoff on transient failures
func (s *GeminiService) EmbedText(ctx context.Context, text string) ([]float64, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY not set", ErrEmbeddingFailed)
	}

	reqBody := geminiEmbeddingRequest{
		Model: "models/gemini-embedding-001",
		Content: geminiContentInput{
			Parts: []geminiPartInput{{Text: text}},
		},
		TaskType:             "RETRIEVAL_QUERY",
		OutputDimensionality: 768,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", geminiEmbeddingAPI, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", s.apiKey)

		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			if attempt == maxRetries-1 {
				return nil, fmt.Errorf("failed to send request after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var apiResp geminiEmbeddingResponse
			if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
				resp.Body.Close()
				if attempt == maxRetries-1 {
					return nil, fmt.Errorf("failed to decode response: %w", err)
				}
				continue
			}
			resp.Body.Close()
			return normalize(apiResp.Embedding.Values), nil
		}

		resp.Body.Close()

		// Don't retry on 400 or 401 errors
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("embedding API error: %d", resp.StatusCode)
		}

		if attempt == maxRetries-1 {
			return nil, fmt.Errorf("embedding API error after %d attempts: %d", maxRetries, resp.StatusCode)
		}
	}

	return nil, ErrEmbeddingFailed
}

// normalize scales the vector to unit length so cosine and L2 ordering agree
func normalize(embedding []float64) []float64 {
	norm := 0.0
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range embedding {
			embedding[i] /= norm
		}
	}
	return embedding
}
