package orchestrator

import (
	"context"
	"time"

	"saas-action-bot/internal/metrics"
	"saas-action-bot/internal/model"
)

// handleMessage takes the conversation lock, delivers a stored late result if there is
// one, and otherwise races the pipeline against the response deadline.
func (o *Orchestrator) handleMessage(ctx context.Context, ev model.InboundEvent) model.Reply {
	key := ev.Key()

	if !o.locker.Acquire(ctx, key.TenantID, key.VisitorID) {
		o.l.Infof(ctx, "%s: %s is busy", LogPrefixHandleMsg, key)
		o.metrics.LockContended()
		o.metrics.Turn(ev.Handler, "contended")
		return model.TextReply(MsgStillWorking)
	}

	if text, outcome, ok := o.takeStored(ctx, key); ok {
		o.l.Infof(ctx, "%s: %s for %s", LogPrefixHandleMsg, outcome, key)
		o.metrics.Turn(ev.Handler, outcome)
		o.recordDelivery(ctx, ev, text)
		o.locker.Release(ctx, key.TenantID, key.VisitorID)
		return model.TextReply(text)
	}

	// the pipeline outlives the webhook request when it loses the race
	pctx := context.WithoutCancel(ctx)
	done := make(chan string, 1)
	o.inflight.Add(1)
	go func() {
		defer o.inflight.Done()
		done <- o.safePipeline(pctx, ev)
	}()

	timer := time.NewTimer(o.opts.ResponseDeadline)
	defer timer.Stop()

	select {
	case text := <-done:
		o.locker.Release(pctx, key.TenantID, key.VisitorID)
		o.metrics.RaceWon(metrics.WinnerPipeline)
		o.metrics.Turn(ev.Handler, "answered")
		return model.TextReply(text)
	case <-timer.C:
		o.l.Infof(ctx, "%s: %s missed the %s deadline, continuing in background", LogPrefixHandleMsg, key, o.opts.ResponseDeadline)
		o.metrics.RaceWon(metrics.WinnerDeadline)
		o.metrics.Turn(ev.Handler, "deferred")
		o.inflight.Add(1)
		go o.continueInBackground(pctx, ev, done)
		return model.TextReply(MsgInterim)
	}
}

// continueInBackground waits for the pipeline, performs exactly one delivery and
// then releases the lock.
func (o *Orchestrator) continueInBackground(ctx context.Context, ev model.InboundEvent, done <-chan string) {
	key := ev.Key()
	defer o.inflight.Done()
	defer o.locker.Release(ctx, key.TenantID, key.VisitorID)
	defer func() {
		if r := recover(); r != nil {
			o.l.Errorf(ctx, "%s: panic delivering to %s: %v", LogPrefixContinuation, key, r)
		}
	}()

	text := <-done
	path := o.deliverLate(ctx, ev, text)
	o.metrics.LateDelivery(path)
	o.l.Infof(ctx, "%s: %s delivered via %s", LogPrefixContinuation, key, path)
}

// deliverLate tries a proactive push, then a pending-result write, then a reply override.
func (o *Orchestrator) deliverLate(ctx context.Context, ev model.InboundEvent, text string) string {
	key := ev.Key()

	channel, handle := ev.Channel, ev.Conversation.ID
	if channel == "" || handle == "" {
		if conv, err := o.conv.Load(ctx, key); err == nil {
			if channel == "" {
				channel = conv.Visitor.Channel
			}
			if handle == "" {
				handle = conv.Visitor.ConversationHandle
			}
		}
	}

	if o.push != nil && channel != "" && handle != "" {
		pctx, cancel := context.WithTimeout(ctx, o.opts.PushTimeout)
		err := o.push.SendMessage(pctx, channel, handle, text)
		cancel()
		if err == nil {
			return metrics.DeliveryPush
		}
		o.l.Warnf(ctx, "%s: push to %s failed: %v", LogPrefixContinuation, key, err)
	}

	err := o.conv.StorePendingResult(ctx, key, text)
	if err == nil {
		return metrics.DeliveryPending
	}
	o.l.Errorf(ctx, "%s: store pending result for %s: %v", LogPrefixContinuation, key, err)

	err = o.conv.SetReplyOverride(ctx, key, text)
	if err == nil {
		return metrics.DeliveryOverride
	}
	o.l.Errorf(ctx, "%s: store reply override for %s: %v", LogPrefixContinuation, key, err)

	o.l.Errorf(ctx, "%s: dropping result for %s: %q", LogPrefixContinuation, key, text)
	return metrics.DeliveryDropped
}

// takeStored consumes a fresh pending result, or failing that a reply override.
// The caller holds the conversation lock.
func (o *Orchestrator) takeStored(ctx context.Context, key model.ConversationKey) (string, string, bool) {
	if text, ok := o.conv.TakePendingResult(ctx, key, o.now()); ok {
		return text, "pending_delivered", true
	}
	if text, ok := o.conv.TakeReplyOverride(ctx, key); ok {
		return text, "override_delivered", true
	}
	return "", "", false
}

// recordDelivery appends a delivered stored turn to history. The caller holds the conversation lock.
func (o *Orchestrator) recordDelivery(ctx context.Context, ev model.InboundEvent, text string) {
	key := ev.Key()
	conv, err := o.conv.Load(ctx, key)
	if err != nil {
		return
	}
	now := o.now()
	conv.AppendHistory(o.opts.MaxHistory,
		model.HistoryEntry{Role: model.RoleVisitor, Text: ev.Message.Text, At: now},
		model.HistoryEntry{Role: model.RoleAssistant, Text: text, At: now},
	)
	if err := o.conv.Save(ctx, conv); err != nil {
		o.l.Warnf(ctx, "%s: record delivered turn for %s: %v", LogPrefixHandleMsg, key, err)
	}
}

// Shutdown waits for in-flight pipelines and their deliveries, or until ctx is done.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	idle := make(chan struct{})
	go func() {
		o.inflight.Wait()
		close(idle)
	}()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
