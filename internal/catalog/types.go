package catalog

import "saas-action-bot/internal/model"

// DefaultTopK is the number of candidates returned when TopK is unset.
const DefaultTopK = 5

// SearchInput is the input for Search. Namespace is the tenant id.
type SearchInput struct {
	Text      string
	Namespace string
	TopK      int
}

// Candidate is a ranked endpoint.
type Candidate struct {
	EndpointID string
	Score      float64
	Endpoint   model.Endpoint
}
