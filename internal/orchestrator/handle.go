package orchestrator

import (
	"context"
	"strings"
	"time"

	"saas-action-bot/internal/conversation"
	"saas-action-bot/internal/decision"
	"saas-action-bot/internal/model"
)

// HandleEvent answers one inbound event. It never returns an error: every failure
// becomes a conversational reply.
func (o *Orchestrator) HandleEvent(ctx context.Context, ev model.InboundEvent) model.Reply {
	if ev.TenantID == "" || ev.Visitor.ID == "" {
		o.l.Warnf(ctx, "%s: event %s without tenant or visitor, ignoring", LogPrefixHandleEvent, ev.RequestID)
		o.metrics.Turn(ev.Handler, "invalid")
		return model.EmptyReply()
	}

	switch ev.Handler {
	case model.HandlerTrigger:
		o.metrics.Turn(ev.Handler, "greeted")
		return o.handleTrigger(ctx, ev)
	case model.HandlerMessage:
		if strings.TrimSpace(ev.Message.Text) == "" {
			o.metrics.Turn(ev.Handler, "empty")
			return model.EmptyReply()
		}
		return o.handleMessage(ctx, ev)
	default:
		o.l.Infof(ctx, "%s: unsupported handler %q", LogPrefixHandleEvent, ev.Handler)
		o.metrics.Turn(ev.Handler, "ignored")
		return model.EmptyReply()
	}
}

// handleTrigger captures the session and greets. The session write runs under the
// conversation lock; when a pipeline holds it the write is deferred until it is released.
func (o *Orchestrator) handleTrigger(ctx context.Context, ev model.InboundEvent) model.Reply {
	key := ev.Key()
	if o.locker.Acquire(ctx, key.TenantID, key.VisitorID) {
		o.startSession(ctx, ev)
		o.locker.Release(ctx, key.TenantID, key.VisitorID)
	} else {
		o.l.Infof(ctx, "%s: %s is busy, deferring session write", LogPrefixTrigger, key)
		o.metrics.LockContended()
		o.inflight.Add(1)
		go o.deferredSession(context.WithoutCancel(ctx), ev)
	}
	return model.TextReply(o.greeting(ctx, ev))
}

func (o *Orchestrator) startSession(ctx context.Context, ev model.InboundEvent) {
	_, err := o.conv.StartSession(ctx, conversation.StartSessionInput{
		Key:     ev.Key(),
		Visitor: ev.VisitorMeta(),
		Params:  ev.Params,
	})
	if err != nil {
		o.l.Errorf(ctx, "%s: %s: %v", LogPrefixSession, ev.Key(), err)
	}
}

// deferredSession waits up to SessionWriteWait for the conversation lock, then writes the session.
func (o *Orchestrator) deferredSession(ctx context.Context, ev model.InboundEvent) {
	defer o.inflight.Done()
	key := ev.Key()

	wctx, cancel := context.WithTimeout(ctx, o.opts.SessionWriteWait)
	defer cancel()
	if !o.waitForLock(wctx, key) {
		o.l.Errorf(ctx, "%s: gave up waiting for %s, visitor params dropped: %v", LogPrefixSession, key, ev.Params)
		return
	}
	defer o.locker.Release(ctx, key.TenantID, key.VisitorID)
	o.startSession(ctx, ev)
}

// waitForLock polls the non-blocking locker until it succeeds or ctx is done.
func (o *Orchestrator) waitForLock(ctx context.Context, key model.ConversationKey) bool {
	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()
	for {
		if o.locker.Acquire(ctx, key.TenantID, key.VisitorID) {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}

// greeting asks the reasoning service for a welcome line, falling back to the canned one
// on error or after GreetingTimeout.
func (o *Orchestrator) greeting(ctx context.Context, ev model.InboundEvent) string {
	gctx, cancel := context.WithTimeout(ctx, o.opts.GreetingTimeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := o.engine.Greet(gctx, decision.GreetInput{VisitorName: ev.Visitor.Name, Locale: ev.Visitor.Locale})
		ch <- result{text: text, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			o.l.Warnf(ctx, "%s: greeting: %v", LogPrefixTrigger, r.err)
			return MsgGreeting
		}
		return r.text
	case <-gctx.Done():
		o.l.Warnf(ctx, "%s: greeting timed out after %s", LogPrefixTrigger, o.opts.GreetingTimeout)
		return MsgGreeting
	}
}
