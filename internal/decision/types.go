package decision

import (
	"saas-action-bot/internal/catalog"
	"saas-action-bot/internal/model"
)

// Decision is the parsed reasoning-service output. It is never persisted.
type Decision struct {
	ActIntended           bool
	EndpointID            string
	Parameters            map[string]any
	MissingParameters     []string
	ClarificationQuestion string
	Confidence            float64
	Reasoning             string
	Reply                 string
}

// DecideInput is the input for Decide.
type DecideInput struct {
	Message    string
	History    []model.HistoryEntry
	Candidates []catalog.Candidate
	// Known holds parameter values already resolved for this conversation.
	Known map[string]string
}

// GreetInput is the input for Greet.
type GreetInput struct {
	VisitorName string
	Locale      string
}

// SelectResolverInput is the input for SelectResolver.
type SelectResolverInput struct {
	// Fact names the known visitor attribute, e.g. "email".
	Fact       string
	ParamName  string
	Candidates []catalog.Candidate
}

// ResolverChoice is a confirmed resolver endpoint and the parameter that receives the fact.
type ResolverChoice struct {
	Endpoint  model.Endpoint
	FactParam string
}
