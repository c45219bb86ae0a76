package resolver

import "context"

// UseCase fills identity parameters the visitor never typed, from facts already known about them.
type UseCase interface {
	// Resolvable reports whether paramName is a kind this resolver can fill.
	Resolvable(paramName string) bool
	// Resolve returns the value for input.ParamName. Every failure is logged and reported as ok=false.
	Resolve(ctx context.Context, input ResolveInput) (value string, ok bool)
}
