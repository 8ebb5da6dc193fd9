package service

import (
	"context"
	"log"

	"ganesha-backend/models"
)

const (
	// retrievalTopK is the number of scripture chunks pulled per question
	retrievalTopK = 4
	// generationMaxTokens caps a single completion
	generationMaxTokens = 700
)

// AgentService orchestrates the response pipeline: retrieve context,
// build the persona prompt, generate once, parse and validate. Every
// failure mode degrades to a refusal-flagged response - GetResponse
// never returns an error.
type AgentService struct {
	retriever ContextRetriever
	engine    GenerationEngine
}

// AgentServiceOption is a functional option for AgentService
type AgentServiceOption func(*AgentService)

// AgentWithRetriever sets the context retriever
func AgentWithRetriever(r ContextRetriever) AgentServiceOption {
	return func(s *AgentService) {
		s.retriever = r
	}
}

// AgentWithGenerationEngine sets the generation engine
func AgentWithGenerationEngine(e GenerationEngine) AgentServiceOption {
	return func(s *AgentService) {
		s.engine = e
	}
}

// NewAgentService creates a new agent service
func NewAgentService(opts ...AgentServiceOption) *AgentService {
	s := &AgentService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetResponse answers a user's question as Lord Ganesha, grounded in the
// retrieved scripture context
func (s *AgentService) GetResponse(ctx context.Context, userInput string) models.GaneshaResponse {
	if s.engine == nil || !s.engine.Available() {
		log.Printf("Agent: generation engine unavailable, refusing")
		return models.NewModelUnavailableResponse()
	}

	// Retrieval failure is not fatal: answer from empty context rather
	// than surfacing an error. Zero hits is a normal outcome.
	var contextText string
	if s.retriever != nil {
		chunks, err := s.retriever.Search(ctx, userInput, retrievalTopK)
		if err != nil {
			log.Printf("Warning: context retrieval failed: %v. Continuing with empty context.", err)
		} else {
			texts := make([]string, len(chunks))
			for i, ch := range chunks {
				texts[i] = ch.Text
			}
			contextText = BuildContext(texts)
			log.Printf("Agent: retrieved %d scripture chunks", len(chunks))
		}
	}

	prompt := BuildPrompt(contextText, userInput)

	// One attempt per request. Malformed output falls back to a scripted
	// apology instead of a re-prompt loop.
	raw, err := s.engine.Generate(ctx, prompt, generationMaxTokens)
	if err != nil {
		log.Printf("Agent: generation failed: %v", err)
		return models.NewGenerationFailedResponse()
	}

	resp, err := ParseGaneshaResponse(raw)
	if err != nil {
		log.Printf("Agent: failed to parse model output: %v", err)
		return models.NewParseFailureResponse()
	}

	return resp
}
