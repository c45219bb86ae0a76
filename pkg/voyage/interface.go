package voyage

import (
	"context"
)

// IVoyage embeds catalog documents and visitor queries.
// Implementations are safe for concurrent use.
type IVoyage interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
