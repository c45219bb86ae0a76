package qdrant

import "fmt"

const (
	DistanceCosine = "Cosine"
	SchemaKeyword  = "keyword"
)

// APIError is a Qdrant response with an unexpected status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("qdrant API error: %d: %s", e.StatusCode, e.Body)
}

// CreateCollectionRequest creates a collection. Name goes in the URL.
type CreateCollectionRequest struct {
	Name    string       `json:"-"`
	Vectors VectorConfig `json:"vectors"`
}

type VectorConfig struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

type PayloadIndexRequest struct {
	FieldName   string `json:"field_name"`
	FieldSchema string `json:"field_schema"`
}

// Point is a vector with its payload. Qdrant only accepts UUID strings or
// unsigned integers as point ids.
type Point struct {
	ID      interface{}            `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload"`
}

type UpsertPointsRequest struct {
	Points []Point `json:"points"`
}

type SearchRequest struct {
	Vector         []float32 `json:"vector"`
	Limit          int       `json:"limit"`
	WithPayload    bool      `json:"with_payload"`
	Filter         *Filter   `json:"filter,omitempty"`
	ScoreThreshold *float64  `json:"score_threshold,omitempty"`
}

// Filter is a payload filter. All Must conditions have to match.
type Filter struct {
	Must []Condition `json:"must,omitempty"`
}

// Condition matches a payload key against an exact value.
type Condition struct {
	Key   string `json:"key"`
	Match Match  `json:"match"`
}

type Match struct {
	Value interface{} `json:"value"`
}

// MatchFilter builds a filter requiring payload[key] == value.
func MatchFilter(key string, value interface{}) *Filter {
	return &Filter{Must: []Condition{{Key: key, Match: Match{Value: value}}}}
}

type SearchResponse struct {
	Result []ScoredPoint `json:"result"`
	Status string        `json:"status"`
	Time   float64       `json:"time"`
}

// ScoredPoint is a search hit. ID is a UUID string for every point this package writes.
type ScoredPoint struct {
	ID      string                 `json:"id"`
	Score   float64                `json:"score"`
	Payload map[string]interface{} `json:"payload"`
}

// DeletePointsRequest selects points by id or by filter; exactly one is set.
type DeletePointsRequest struct {
	Points []string `json:"points,omitempty"`
	Filter *Filter  `json:"filter,omitempty"`
}
