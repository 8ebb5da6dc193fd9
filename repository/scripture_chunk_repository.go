package repository

import (
	"context"
	"fmt"
	"strings"

	"ganesha-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ScriptureChunkRepository handles database operations for scripture chunks
type ScriptureChunkRepository struct {
	db *pgxpool.Pool
}

// NewScriptureChunkRepository creates a new scripture chunk repository
func NewScriptureChunkRepository(db *pgxpool.Pool) *ScriptureChunkRepository {
	return &ScriptureChunkRepository{db: db}
}

// FormatVector formats an embedding vector as a pgvector literal for pgx
func FormatVector(embedding []float64) string {
	if len(embedding) == 0 {
		return "[]"
	}
	var parts []string
	for _, v := range embedding {
		parts = append(parts, fmt.Sprintf("%.6f", v))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// SearchSimilar returns the chunks nearest to the query embedding.
// embedding: query embedding vector (768 dimensions)
// limit: maximum number of chunks to return
func (r *ScriptureChunkRepository) SearchSimilar(
	ctx context.Context,
	embedding []float64,
	limit int,
) ([]models.ScriptureChunk, error) {
	if len(embedding) != 768 {
		return nil, fmt.Errorf("embedding must be 768 dimensions, got %d", len(embedding))
	}

	vectorStr := FormatVector(embedding)

	query := `
		SELECT
			id,
			chunk_text,
			source_document,
			chunk_index,
			embedding <=> $1::vector AS distance
		FROM scripture_chunks
		ORDER BY
			embedding <=> $1::vector
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, vectorStr, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scripture chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.ScriptureChunk
	for rows.Next() {
		var chunk models.ScriptureChunk
		err := rows.Scan(
			&chunk.ID,
			&chunk.Text,
			&chunk.SourceDocument,
			&chunk.ChunkIndex,
			&chunk.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scripture chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scripture chunks: %w", err)
	}

	return chunks, nil
}

// Insert stores a chunk with its embedding
func (r *ScriptureChunkRepository) Insert(
	ctx context.Context,
	chunk models.ScriptureChunk,
	embedding []float64,
) error {
	if len(embedding) != 768 {
		return fmt.Errorf("embedding must be 768 dimensions, got %d", len(embedding))
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO scripture_chunks (id, source_document, chunk_index, chunk_text, embedding)
		VALUES ($1, $2, $3, $4, $5::vector)`,
		chunk.ID, chunk.SourceDocument, chunk.ChunkIndex, chunk.Text, FormatVector(embedding),
	)
	if err != nil {
		return fmt.Errorf("failed to insert scripture chunk: %w", err)
	}
	return nil
}

// CountBySource returns how many chunks exist for a source document.
// Used by ingestion to skip documents that were already processed.
func (r *ScriptureChunkRepository) CountBySource(ctx context.Context, sourceDocument string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM scripture_chunks WHERE source_document = $1",
		sourceDocument,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks for %s: %w", sourceDocument, err)
	}
	return count, nil
}
