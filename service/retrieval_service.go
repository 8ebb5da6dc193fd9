package service

import (
	"context"
	"fmt"

	"ganesha-backend/models"
	"ganesha-backend/repository"
)

// ContextRetriever finds the chunks most similar to a free-text query.
// The agent depends on this abstraction so tests can substitute a fake.
type ContextRetriever interface {
	Search(ctx context.Context, query string, k int) ([]models.ScriptureChunk, error)
}

// RetrievalService implements ContextRetriever over the pgvector store:
// embed the query, then nearest-neighbor search.
type RetrievalService struct {
	embedder  Embedder
	chunkRepo *repository.ScriptureChunkRepository
}

// NewRetrievalService creates a retrieval service
func NewRetrievalService(embedder Embedder, chunkRepo *repository.ScriptureChunkRepository) *RetrievalService {
	return &RetrievalService{
		embedder:  embedder,
		chunkRepo: chunkRepo,
	}
}

// Search returns up to k chunks ranked by similarity. Zero results is not
// an error - the caller proceeds with empty context.
func (s *RetrievalService) Search(ctx context.Context, query string, k int) ([]models.ScriptureChunk, error) {
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := s.chunkRepo.SearchSimilar(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	return chunks, nil
}
