package usecase

import (
	"context"
	"strings"

	"saas-action-bot/internal/action"
	"saas-action-bot/internal/catalog"
	"saas-action-bot/internal/decision"
	"saas-action-bot/internal/resolver"
)

func (uc *implUseCase) Resolvable(paramName string) bool {
	return resolver.IsIdentityParam(paramName)
}

// Resolve tries the conversation's resolved parameters first, then looks the visitor up
// by email through a resolver endpoint found in the tenant's catalog.
func (uc *implUseCase) Resolve(ctx context.Context, input resolver.ResolveInput) (string, bool) {
	if !uc.Resolvable(input.ParamName) {
		return "", false
	}

	if v, ok := uc.conv.ResolvedParam(ctx, input.Key, input.ParamName); ok {
		uc.metrics.AutoResolution("cached")
		return v, true
	}

	email := strings.TrimSpace(input.Visitor.Email)
	if email == "" {
		uc.l.Infof(ctx, "internal.resolver.usecase.Resolve: %s: no visitor email to resolve %s", input.Key, input.ParamName)
		uc.metrics.AutoResolution("no_fact")
		return "", false
	}

	candidates, err := uc.catalog.Search(ctx, catalog.SearchInput{
		Text:      resolver.ResolverQuery,
		Namespace: input.Namespace,
		TopK:      catalog.DefaultTopK,
	})
	if err != nil || len(candidates) == 0 {
		uc.l.Infof(ctx, "internal.resolver.usecase.Resolve: %s: no resolver endpoint (err=%v)", input.Key, err)
		uc.metrics.AutoResolution("no_endpoint")
		return "", false
	}

	choice, err := uc.engine.SelectResolver(ctx, decision.SelectResolverInput{
		Fact:       resolver.FactEmail,
		ParamName:  input.ParamName,
		Candidates: candidates,
	})
	if err != nil {
		uc.l.Infof(ctx, "internal.resolver.usecase.Resolve: %s: resolver selection: %v", input.Key, err)
		uc.metrics.AutoResolution("not_suitable")
		return "", false
	}

	out, err := uc.executor.Execute(ctx, action.ExecuteInput{
		TenantID: input.Namespace,
		Endpoint: choice.Endpoint,
		Params:   map[string]any{choice.FactParam: email},
	})
	if err != nil {
		uc.l.Warnf(ctx, "internal.resolver.usecase.Resolve: %s: resolver call %s: %v", input.Key, choice.Endpoint.ID, err)
		uc.metrics.AutoResolution("call_failed")
		return "", false
	}

	value, ok := resolver.ExtractIdentity(out.Body)
	if !ok {
		uc.l.Warnf(ctx, "internal.resolver.usecase.Resolve: %s: no identity in %s answer", input.Key, choice.Endpoint.ID)
		uc.metrics.AutoResolution("not_found")
		return "", false
	}

	if err := uc.conv.SaveResolvedParam(ctx, input.Key, input.ParamName, value); err != nil {
		uc.l.Warnf(ctx, "internal.resolver.usecase.Resolve: %s: cache %s: %v", input.Key, input.ParamName, err)
	}

	uc.l.Infof(ctx, "internal.resolver.usecase.Resolve: %s: resolved %s via %s", input.Key, input.ParamName, choice.Endpoint.ID)
	uc.metrics.AutoResolution("resolved")
	return value, true
}
