package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrEngineUnavailable = errors.New("generation engine not loaded")
	ErrEmptyCompletion   = errors.New("generation engine returned no choices")
	ErrEmbeddingFailed   = errors.New("failed to generate embedding")
)

// Embedder turns text into a query/document embedding vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float64, error)
}

// GenerationEngine is a single-turn text generator. Available reports
// whether the underlying model loaded; a false value is surfaced to users
// as a refusal response, never as a crash.
type GenerationEngine interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	Available() bool
}

// LocalLLMService talks to an OpenAI-compatible local model server
// (LM Studio, GPT4All, llama.cpp server) for both chat completion and
// embeddings. This is the default backend.
type LocalLLMService struct {
	client     *openai.Client
	chatModel  string
	embedModel string
	available  bool
}

// NewLocalLLMService creates the local backend from environment variables
// and probes the server once. A failed probe does not error - the service
// stays constructed with Available() == false so each request degrades to
// a refusal instead of the process dying.
func NewLocalLLMService() *LocalLLMService {
	baseURL := os.Getenv("LLM_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:1234/v1"
	}
	chatModel := os.Getenv("LLM_MODEL")
	if chatModel == "" {
		chatModel = "meta-llama-3-8b-instruct"
	}
	embedModel := os.Getenv("EMBED_MODEL")
	if embedModel == "" {
		embedModel = "text-embedding-nomic-embed-text-v1.5"
	}

	cfg := openai.DefaultConfig("not-needed")
	cfg.BaseURL = baseURL
	client := openai.NewClientWithConfig(cfg)

	s := &LocalLLMService{
		client:     client,
		chatModel:  chatModel,
		embedModel: embedModel,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.ListModels(ctx); err != nil {
		log.Printf("Warning: local model server unreachable at %s: %v", baseURL, err)
		return s
	}
	s.available = true
	log.Printf("Local model server ready at %s (chat=%s embed=%s)", baseURL, chatModel, embedModel)
	return s
}

// Available reports whether the model server answered the startup probe
func (s *LocalLLMService) Available() bool {
	return s.available
}

// Generate runs a single-turn completion with a hard output-length cap
func (s *LocalLLMService) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if !s.available {
		return "", ErrEngineUnavailable
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// EmbedText generates an embedding for the given text
func (s *LocalLLMService) EmbedText(ctx context.Context, text string) ([]float64, error) {
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(s.embedModel),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, ErrEmbeddingFailed
	}

	embedding := make([]float64, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		embedding[i] = float64(v)
	}
	return embedding, nil
}
