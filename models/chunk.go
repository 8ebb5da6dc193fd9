package models

import (
	"github.com/google/uuid"
)

// ScriptureChunk is a chunk of scripture text from the knowledge base
type ScriptureChunk struct {
	ID             uuid.UUID `json:"id"`
	Text           string    `json:"text"`
	SourceDocument string    `json:"source_document"`
	ChunkIndex     int       `json:"chunk_index"`
	Distance       float64   `json:"distance,omitempty"` // Vector similarity distance, lower is closer
}
