package usecase

import (
	"fmt"
	"sort"
	"strings"

	"saas-action-bot/internal/catalog"
	"saas-action-bot/internal/decision"
	"saas-action-bot/internal/model"
)

const systemPromptDecide = `You route customer chat messages to SaaS API operations.
You receive the recent conversation, the latest visitor message and a list of candidate operations.
Answer with one JSON object and nothing else:
{
  "actIntended": boolean,          // true only if the visitor wants one of the candidates executed now
  "endpointId": string,            // id of the chosen candidate, "" when actIntended is false
  "parameters": object,            // parameter name -> value taken from the conversation
  "missingParameters": [string],   // required parameters you could not fill
  "clarificationQuestion": string, // one short question asking for the missing information
  "confidence": number,            // 0.0 to 1.0
  "reasoning": string,             // one sentence
  "reply": string                  // conversational answer when actIntended is false
}
Never invent parameter values. Only choose endpointId from the candidate list.`

const systemPromptGreet = `You are the assistant of a SaaS product's support chat.
Write one short, friendly welcome line (at most 20 words) offering help. No markdown.`

const systemPromptResolver = `You pick an API operation that looks up a user's identity from a known fact about them.
Answer with one JSON object and nothing else:
{
  "suitable": boolean,      // true if one candidate returns the user's record given the fact
  "endpointId": string,     // id of that candidate
  "factParameter": string   // name of the candidate's parameter that receives the fact
}`

// buildTranscript flattens the last MaxTranscriptTurns history entries.
func buildTranscript(history []model.HistoryEntry) string {
	if len(history) > decision.MaxTranscriptTurns {
		history = history[len(history)-decision.MaxTranscriptTurns:]
	}
	var b strings.Builder
	for _, h := range history {
		speaker := "Visitor"
		if h.Role == model.RoleAssistant {
			speaker = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, h.Text)
	}
	return b.String()
}

// writeCandidates lists id, method, path, summary and declared parameters.
func writeCandidates(b *strings.Builder, candidates []catalog.Candidate) {
	if len(candidates) > decision.MaxPromptCandidates {
		candidates = candidates[:decision.MaxPromptCandidates]
	}
	for i, c := range candidates {
		ep := c.Endpoint
		fmt.Fprintf(b, "%d. id=%s %s %s", i+1, c.EndpointID, ep.Method, ep.Path)
		if ep.Summary != "" {
			fmt.Fprintf(b, " - %s", ep.Summary)
		}
		b.WriteString("\n")
		for _, p := range ep.Parameters {
			req := "optional"
			if p.Required {
				req = "required"
			}
			fmt.Fprintf(b, "   - %s (%s, %s", p.Name, p.In, req)
			if p.Type != "" {
				fmt.Fprintf(b, ", %s", p.Type)
			}
			b.WriteString(")")
			if p.Description != "" {
				fmt.Fprintf(b, ": %s", p.Description)
			}
			b.WriteString("\n")
		}
	}
}

func buildDecidePrompt(input decision.DecideInput) string {
	var b strings.Builder
	if t := buildTranscript(input.History); t != "" {
		b.WriteString("Conversation so far:\n")
		b.WriteString(t)
		b.WriteString("\n")
	}
	if len(input.Known) > 0 {
		b.WriteString("Known values:\n")
		keys := make([]string, 0, len(input.Known))
		for k := range input.Known {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s = %s\n", k, input.Known[k])
		}
		b.WriteString("\n")
	}
	b.WriteString("Candidate operations:\n")
	writeCandidates(&b, input.Candidates)
	fmt.Fprintf(&b, "\nLatest visitor message:\n%s\n", input.Message)
	return b.String()
}

func buildResolverPrompt(input decision.SelectResolverInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Known fact: the visitor's %s.\n", input.Fact)
	if input.ParamName != "" {
		fmt.Fprintf(&b, "The identity is needed for a parameter named %q.\n", input.ParamName)
	}
	b.WriteString("\nCandidate operations:\n")
	writeCandidates(&b, input.Candidates)
	return b.String()
}
