package usecase

import (
	"context"
	"fmt"
	"strings"

	"saas-action-bot/internal/catalog"
	"saas-action-bot/internal/decision"
	"saas-action-bot/pkg/llmprovider"
)

type rawDecision struct {
	ActIntended           *bool          `json:"actIntended"`
	EndpointID            string         `json:"endpointId"`
	Parameters            map[string]any `json:"parameters"`
	MissingParameters     []string       `json:"missingParameters"`
	ClarificationQuestion string         `json:"clarificationQuestion"`
	Confidence            *float64       `json:"confidence"`
	Reasoning             string         `json:"reasoning"`
	Reply                 string         `json:"reply"`
}

// Decide asks the reasoning service for a structured decision over the candidates.
func (uc *implUseCase) Decide(ctx context.Context, input decision.DecideInput) (decision.Decision, error) {
	if len(input.Candidates) == 0 {
		return decision.Decision{}, decision.ErrNoCandidates
	}

	resp, err := uc.llm.GenerateContent(ctx, &llmprovider.Request{
		System:      systemPromptDecide,
		Messages:    []llmprovider.Message{{Role: llmprovider.RoleUser, Text: buildDecidePrompt(input)}},
		Temperature: 0.1,
		MaxTokens:   1024,
		JSONMode:    true,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.decision.usecase.Decide: reasoning call failed: %v", err)
		return decision.Decision{}, fmt.Errorf("reasoning call failed: %w", err)
	}

	d, err := parseDecision(resp.Text, input.Candidates)
	if err != nil {
		uc.l.Warnf(ctx, "internal.decision.usecase.Decide: %v raw=%q", err, resp.Text)
		return decision.Decision{}, err
	}

	uc.l.Infof(ctx, "internal.decision.usecase.Decide: act=%v endpoint=%s confidence=%.2f missing=%v",
		d.ActIntended, d.EndpointID, d.Confidence, d.MissingParameters)
	return d, nil
}

// parseDecision validates the reasoning output. Any deviation is ErrMalformedDecision.
func parseDecision(text string, candidates []catalog.Candidate) (decision.Decision, error) {
	var raw rawDecision
	if err := llmprovider.DecodeJSON(text, &raw); err != nil {
		return decision.Decision{}, fmt.Errorf("%w: %v", decision.ErrMalformedDecision, err)
	}
	if raw.ActIntended == nil {
		return decision.Decision{}, fmt.Errorf("%w: actIntended missing", decision.ErrMalformedDecision)
	}
	if raw.Confidence == nil {
		return decision.Decision{}, fmt.Errorf("%w: confidence missing", decision.ErrMalformedDecision)
	}

	confidence := *raw.Confidence
	switch {
	case confidence < 0 || confidence > 100:
		return decision.Decision{}, fmt.Errorf("%w: confidence %v out of range", decision.ErrMalformedDecision, confidence)
	case confidence > 1:
		confidence /= 100
	}

	d := decision.Decision{
		ActIntended:           *raw.ActIntended,
		EndpointID:            strings.TrimSpace(raw.EndpointID),
		Parameters:            raw.Parameters,
		ClarificationQuestion: strings.TrimSpace(raw.ClarificationQuestion),
		Confidence:            confidence,
		Reasoning:             raw.Reasoning,
		Reply:                 strings.TrimSpace(raw.Reply),
	}
	if d.Parameters == nil {
		d.Parameters = map[string]any{}
	}
	if !d.ActIntended {
		return d, nil
	}

	var chosen *catalog.Candidate
	for i := range candidates {
		if candidates[i].EndpointID == d.EndpointID {
			chosen = &candidates[i]
			break
		}
	}
	if chosen == nil {
		return decision.Decision{}, fmt.Errorf("%w: endpoint %q is not a candidate", decision.ErrMalformedDecision, d.EndpointID)
	}

	d.MissingParameters = missingParameters(raw.MissingParameters, chosen.Endpoint.RequiredParams(), d.Parameters)
	return d, nil
}

// missingParameters merges reported and declared-required names that still lack a value.
func missingParameters(reported, required []string, params map[string]any) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range append(append([]string{}, reported...), required...) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if hasValue(params[name]) {
			continue
		}
		out = append(out, name)
	}
	return out
}

func hasValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	}
	return true
}
