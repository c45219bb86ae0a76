package decision

import (
	"context"

	"saas-action-bot/pkg/llmprovider"
)

// Engine turns a visitor message plus retrieved candidates into a structured decision.
type Engine interface {
	// Decide asks the reasoning service which endpoint, if any, the visitor wants invoked.
	Decide(ctx context.Context, input DecideInput) (Decision, error)
	// Greet produces a short welcome line for a new session.
	Greet(ctx context.Context, input GreetInput) (string, error)
	// SelectResolver confirms which candidate can look up a user identity from a known fact.
	SelectResolver(ctx context.Context, input SelectResolverInput) (ResolverChoice, error)
}

// Generator is the reasoning service. *llmprovider.Manager satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}
