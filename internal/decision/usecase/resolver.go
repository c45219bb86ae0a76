package usecase

import (
	"context"
	"fmt"
	"strings"

	"saas-action-bot/internal/decision"
	"saas-action-bot/pkg/llmprovider"
)

type rawResolverChoice struct {
	Suitable      bool   `json:"suitable"`
	EndpointID    string `json:"endpointId"`
	FactParameter string `json:"factParameter"`
}

// SelectResolver confirms a candidate can map the known fact to a user identity.
func (uc *implUseCase) SelectResolver(ctx context.Context, input decision.SelectResolverInput) (decision.ResolverChoice, error) {
	if len(input.Candidates) == 0 {
		return decision.ResolverChoice{}, decision.ErrNoCandidates
	}

	resp, err := uc.llm.GenerateContent(ctx, &llmprovider.Request{
		System:      systemPromptResolver,
		Messages:    []llmprovider.Message{{Role: llmprovider.RoleUser, Text: buildResolverPrompt(input)}},
		Temperature: 0,
		MaxTokens:   256,
		JSONMode:    true,
	})
	if err != nil {
		return decision.ResolverChoice{}, fmt.Errorf("resolver selection call failed: %w", err)
	}

	var raw rawResolverChoice
	if err := llmprovider.DecodeJSON(resp.Text, &raw); err != nil {
		return decision.ResolverChoice{}, fmt.Errorf("%w: %v", decision.ErrMalformedDecision, err)
	}
	if !raw.Suitable {
		return decision.ResolverChoice{}, decision.ErrNoSuitableResolver
	}

	param := strings.TrimSpace(raw.FactParameter)
	for _, c := range input.Candidates {
		if c.EndpointID != strings.TrimSpace(raw.EndpointID) {
			continue
		}
		if param == "" {
			break
		}
		// the fact must go into a declared parameter when the endpoint declares any
		if _, ok := c.Endpoint.Param(param); !ok && len(c.Endpoint.Parameters) > 0 {
			break
		}
		uc.l.Infof(ctx, "internal.decision.usecase.SelectResolver: endpoint=%s param=%s", c.EndpointID, param)
		return decision.ResolverChoice{Endpoint: c.Endpoint, FactParam: param}, nil
	}

	return decision.ResolverChoice{}, fmt.Errorf("%w: endpoint %q param %q", decision.ErrNoSuitableResolver, raw.EndpointID, param)
}
