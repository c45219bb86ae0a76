package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"saas-action-bot/internal/action"
	"saas-action-bot/internal/catalog"
	"saas-action-bot/internal/decision"
	"saas-action-bot/internal/model"
	"saas-action-bot/internal/resolver"
)

// safePipeline runs the pipeline and turns a panic into the apology text.
func (o *Orchestrator) safePipeline(ctx context.Context, ev model.InboundEvent) (text string) {
	start := o.now()
	defer func() {
		if r := recover(); r != nil {
			o.l.Errorf(ctx, "%s: panic handling %s: %v", LogPrefixPipeline, ev.Key(), r)
			text = MsgApology
		}
		o.metrics.PipelineFinished(time.Since(start))
	}()
	return o.runPipeline(ctx, ev)
}

// runPipeline interprets one message and applies the turn policy. The caller holds the
// conversation lock.
func (o *Orchestrator) runPipeline(ctx context.Context, ev model.InboundEvent) string {
	key := ev.Key()
	conv, err := o.conv.Load(ctx, key)
	if err != nil {
		o.l.Errorf(ctx, "%s: load %s: %v", LogPrefixPipeline, key, err)
		return MsgApology
	}
	conv.Visitor = conv.Visitor.Merge(ev.VisitorMeta())

	// history is read before this turn is appended
	history := append([]model.HistoryEntry(nil), conv.History...)
	branch, reply := o.decide(ctx, ev, &conv, history)
	o.metrics.Decision(branch)

	now := o.now()
	conv.AppendHistory(o.opts.MaxHistory,
		model.HistoryEntry{Role: model.RoleVisitor, Text: ev.Message.Text, At: now},
		model.HistoryEntry{Role: model.RoleAssistant, Text: reply, At: now},
	)
	if err := o.conv.Save(ctx, conv); err != nil {
		o.l.Errorf(ctx, "%s: save %s: %v", LogPrefixPipeline, key, err)
	}
	return reply
}

// decide walks the turn policy and returns the branch taken and the reply text.
func (o *Orchestrator) decide(ctx context.Context, ev model.InboundEvent, conv *model.Conversation, history []model.HistoryEntry) (string, string) {
	text := ev.Message.Text

	if decision.IsGreeting(text) {
		conv.ResetClarifications()
		return branchGreeting, MsgGreeting
	}

	candidates, err := o.catalog.Search(ctx, catalog.SearchInput{Text: text, Namespace: ev.TenantID, TopK: o.opts.TopK})
	if err != nil {
		o.l.Errorf(ctx, "%s: search %s: %v", LogPrefixPipeline, conv.Key, err)
		return branchRetrievalError, MsgGenericClarification
	}
	if len(candidates) == 0 {
		conv.ResetClarifications()
		return branchNoMatch, MsgNoMatch
	}

	dec, err := o.engine.Decide(ctx, decision.DecideInput{
		Message:    text,
		History:    history,
		Candidates: candidates,
		Known:      conv.ResolvedParams,
	})
	if err != nil {
		o.l.Errorf(ctx, "%s: decide %s: %v", LogPrefixPipeline, conv.Key, err)
		return branchDecisionError, MsgGenericClarification
	}

	if !dec.ActIntended {
		conv.ResetClarifications()
		if dec.Reply != "" {
			return branchConversational, dec.Reply
		}
		return branchConversational, MsgConversational
	}

	params := make(map[string]any, len(dec.Parameters)+len(dec.MissingParameters))
	for k, v := range dec.Parameters {
		params[k] = v
	}

	if len(dec.MissingParameters) > 0 {
		unresolved := o.fillMissing(ctx, ev, conv, dec.MissingParameters, params)
		if len(unresolved) > 0 {
			question := dec.ClarificationQuestion
			if question == "" {
				question = fmt.Sprintf(MsgMissingParam, unresolved[0])
			}
			return o.clarify(conv, branchMissingParams, question)
		}
	}
	// the threshold applies even when every parameter was auto-resolved
	if dec.Confidence < o.opts.ConfidenceThreshold {
		question := dec.ClarificationQuestion
		if question == "" {
			question = MsgGenericClarification
		}
		return o.clarify(conv, branchLowConfidence, question)
	}

	ep, ok := findCandidate(candidates, dec.EndpointID)
	if !ok {
		o.l.Warnf(ctx, "%s: %s chose unknown endpoint %q", LogPrefixPipeline, conv.Key, dec.EndpointID)
		return branchDecisionError, MsgGenericClarification
	}

	conv.ResetClarifications()
	out, err := o.executor.Execute(ctx, action.ExecuteInput{TenantID: ev.TenantID, Endpoint: ep, Params: params})
	if err != nil {
		o.l.Errorf(ctx, "%s: execute %s %s for %s: %v", LogPrefixPipeline, ep.Method, ep.Path, conv.Key, err)
		return branchExecute, failureMessage(action.Classify(err))
	}
	return branchExecute, formatResult(out.Body)
}

// fillMissing fills params from resolved facts and the identity resolver and returns the
// names still missing.
func (o *Orchestrator) fillMissing(ctx context.Context, ev model.InboundEvent, conv *model.Conversation, missing []string, params map[string]any) []string {
	var unresolved []string
	for _, name := range missing {
		if v, ok := conv.ResolvedParams[name]; ok && v != "" {
			params[name] = v
			continue
		}
		if o.resolver != nil && o.resolver.Resolvable(name) {
			v, ok := o.resolver.Resolve(ctx, resolver.ResolveInput{
				Key:       conv.Key,
				Namespace: ev.TenantID,
				ParamName: name,
				Visitor:   conv.Visitor,
			})
			if ok {
				params[name] = v
				conv.SetResolvedParam(name, v)
				continue
			}
		}
		unresolved = append(unresolved, name)
	}
	return unresolved
}

// clarify counts one clarification attempt. Past the limit it resets and asks to rephrase.
func (o *Orchestrator) clarify(conv *model.Conversation, branch, question string) (string, string) {
	conv.ClarificationCount++
	if conv.ClarificationCount > o.opts.MaxClarifications {
		conv.ResetClarifications()
		return branchExhausted, MsgRephrase
	}
	return branch, question
}

func findCandidate(candidates []catalog.Candidate, id string) (model.Endpoint, bool) {
	for _, c := range candidates {
		if c.EndpointID == id {
			return c.Endpoint, true
		}
	}
	return model.Endpoint{}, false
}

func failureMessage(outcome action.Outcome) string {
	switch outcome {
	case action.OutcomeAuth:
		return MsgActionAuthFailure
	case action.OutcomeUpstream:
		return MsgActionUpstreamFailure
	default:
		return MsgActionTransportFailure
	}
}

// formatResult renders an API answer for chat. Non-JSON bodies are shown as-is.
func formatResult(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || string(body) == "{}" || string(body) == "null" {
		return MsgActionDone
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err == nil {
		body = buf.Bytes()
	}
	return fmt.Sprintf(MsgActionResult, truncate(string(body), MaxResultChars))
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "..."
}
