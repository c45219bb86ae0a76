package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"saas-action-bot/internal/conversation"
	"saas-action-bot/internal/conversation/repository"
	"saas-action-bot/internal/model"
)

var testKey = model.ConversationKey{TenantID: "acme", VisitorID: "v-1"}

func newTestUseCase(repo *fakeRepo, cache repository.SessionCache, now time.Time) *implUseCase {
	uc := New(&mockLogger{}, repo, cache, conversation.Options{}).(*implUseCase)
	uc.now = func() time.Time { return now }
	return uc
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Invalid Key", func(t *testing.T) {
		uc := newTestUseCase(newFakeRepo(), nil, time.Now())
		if _, err := uc.Load(ctx, model.ConversationKey{TenantID: "acme"}); !errors.Is(err, conversation.ErrInvalidKey) {
			t.Errorf("expected ErrInvalidKey, got %v", err)
		}
	})

	t.Run("Fresh Conversation", func(t *testing.T) {
		uc := newTestUseCase(newFakeRepo(), nil, time.Now())
		conv, err := uc.Load(ctx, testKey)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if conv.Key != testKey || conv.ResolvedParams == nil {
			t.Errorf("unexpected fresh conversation: %+v", conv)
		}
	})

	t.Run("Store Error", func(t *testing.T) {
		repo := newFakeRepo()
		repo.getErr = errStore
		uc := newTestUseCase(repo, nil, time.Now())
		if _, err := uc.Load(ctx, testKey); !errors.Is(err, errStore) {
			t.Errorf("expected wrapped store error, got %v", err)
		}
	})
}

func TestSave_CapsHistory(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	uc := newTestUseCase(repo, nil, time.Now())

	conv := model.NewConversation(testKey)
	for i := 0; i < 14; i++ {
		conv.History = append(conv.History, model.HistoryEntry{Text: fmt.Sprintf("m%d", i)})
	}
	if err := uc.Save(ctx, conv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.rows[testKey]
	if len(stored.History) != 10 || stored.History[0].Text != "m4" {
		t.Errorf("expected last 10 entries starting at m4, got %d starting %s", len(stored.History), stored.History[0].Text)
	}
}

func TestStartSession(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	cache := newFakeCache()
	uc := newTestUseCase(repo, cache, time.Now())

	existing := model.NewConversation(testKey)
	existing.Visitor = model.VisitorMeta{Email: "first@acme.io"}
	existing.ClarificationCount = 2
	repo.rows[testKey] = existing

	conv, err := uc.StartSession(ctx, conversation.StartSessionInput{
		Key:     testKey,
		Visitor: model.VisitorMeta{Email: "other@acme.io", Locale: "en", ConversationHandle: "c-9"},
		Params:  map[string]string{"plan": "pro", "blank": ""},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if conv.Visitor.Email != "first@acme.io" || conv.Visitor.Locale != "en" || conv.Visitor.ConversationHandle != "c-9" {
		t.Errorf("visitor metadata not merged correctly: %+v", conv.Visitor)
	}
	if conv.ClarificationCount != 0 {
		t.Errorf("expected clarification counter reset, got %d", conv.ClarificationCount)
	}
	if _, ok := conv.ResolvedParams["blank"]; ok {
		t.Error("empty params should not be stored")
	}
	if repo.rows[testKey].ResolvedParams["plan"] != "pro" {
		t.Error("param not persisted to durable store")
	}
	if cache.entries[testKey].Params["plan"] != "pro" {
		t.Error("param not written to session cache")
	}
}

func TestResolvedParam(t *testing.T) {
	ctx := context.Background()

	t.Run("Cache Hit Skips Durable Store", func(t *testing.T) {
		repo := newFakeRepo()
		cache := newFakeCache()
		cache.entries[testKey] = model.SessionEntry{TenantID: "acme", VisitorID: "v-1", Params: map[string]string{"userId": "42"}}
		uc := newTestUseCase(repo, cache, time.Now())

		v, ok := uc.ResolvedParam(ctx, testKey, "userId")
		if !ok || v != "42" {
			t.Fatalf("expected cached 42, got %q ok=%v", v, ok)
		}
		if repo.gets != 0 {
			t.Errorf("durable store should not be read on a cache hit, got %d reads", repo.gets)
		}
	})

	t.Run("Durable Hit Refills Cache", func(t *testing.T) {
		repo := newFakeRepo()
		cache := newFakeCache()
		conv := model.NewConversation(testKey)
		conv.SetResolvedParam("userId", "7")
		repo.rows[testKey] = conv
		uc := newTestUseCase(repo, cache, time.Now())

		v, ok := uc.ResolvedParam(ctx, testKey, "userId")
		if !ok || v != "7" {
			t.Fatalf("expected durable 7, got %q ok=%v", v, ok)
		}
		if cache.entries[testKey].Params["userId"] != "7" {
			t.Error("cache should be refilled from durable store")
		}
	})

	t.Run("Cache Error Falls Back", func(t *testing.T) {
		repo := newFakeRepo()
		cache := newFakeCache()
		cache.err = errStore
		conv := model.NewConversation(testKey)
		conv.SetResolvedParam("userId", "9")
		repo.rows[testKey] = conv
		uc := newTestUseCase(repo, cache, time.Now())

		if v, ok := uc.ResolvedParam(ctx, testKey, "userId"); !ok || v != "9" {
			t.Fatalf("expected durable fallback 9, got %q ok=%v", v, ok)
		}
	})

	t.Run("Missing Everywhere", func(t *testing.T) {
		uc := newTestUseCase(newFakeRepo(), newFakeCache(), time.Now())
		if _, ok := uc.ResolvedParam(ctx, testKey, "userId"); ok {
			t.Error("expected miss")
		}
	})
}

func TestSaveResolvedParam_WritesBothStores(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	cache := newFakeCache()
	uc := newTestUseCase(repo, cache, time.Now())

	if err := uc.SaveResolvedParam(ctx, testKey, "userId", "42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.SaveResolvedParam(ctx, testKey, "email", "ann@acme.io"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.rows[testKey].ResolvedParams
	if stored["userId"] != "42" || stored["email"] != "ann@acme.io" {
		t.Errorf("durable params not additive: %v", stored)
	}
	if cache.entries[testKey].Params["userId"] != "42" {
		t.Error("cache not written")
	}

	t.Run("Cache Failure Is Not Fatal", func(t *testing.T) {
		cache.err = errStore
		if err := uc.SaveResolvedParam(ctx, testKey, "accountId", "a-1"); err != nil {
			t.Fatalf("cache failure should not fail the write: %v", err)
		}
		if repo.rows[testKey].ResolvedParams["accountId"] != "a-1" {
			t.Error("durable write should still happen")
		}
	})
}

func TestPendingResult(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Fresh Result Delivered Once", func(t *testing.T) {
		repo := newFakeRepo()
		uc := newTestUseCase(repo, nil, base)
		if err := uc.StorePendingResult(ctx, testKey, "your order shipped"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		text, ok := uc.TakePendingResult(ctx, testKey, base.Add(4*time.Minute))
		if !ok || text != "your order shipped" {
			t.Fatalf("expected pending text, got %q ok=%v", text, ok)
		}
		if _, ok := uc.TakePendingResult(ctx, testKey, base.Add(4*time.Minute)); ok {
			t.Error("consumed result must not be delivered twice")
		}
	})

	t.Run("Stale Result Never Delivered", func(t *testing.T) {
		repo := newFakeRepo()
		uc := newTestUseCase(repo, nil, base)
		if err := uc.StorePendingResult(ctx, testKey, "old"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, ok := uc.TakePendingResult(ctx, testKey, base.Add(5*time.Minute+time.Second)); ok {
			t.Fatal("stale result must not be delivered")
		}
		if !repo.rows[testKey].Pending.Consumed {
			t.Error("stale result should be marked consumed")
		}
	})

	t.Run("Store Replaces Earlier Result", func(t *testing.T) {
		repo := newFakeRepo()
		uc := newTestUseCase(repo, nil, base)
		uc.StorePendingResult(ctx, testKey, "first")
		uc.StorePendingResult(ctx, testKey, "second")

		text, ok := uc.TakePendingResult(ctx, testKey, base)
		if !ok || text != "second" {
			t.Errorf("expected latest result, got %q", text)
		}
	})

	t.Run("No Pending Result", func(t *testing.T) {
		uc := newTestUseCase(newFakeRepo(), nil, base)
		if _, ok := uc.TakePendingResult(ctx, testKey, base); ok {
			t.Error("expected nothing pending")
		}
	})
}

func TestReplyOverride(t *testing.T) {
	ctx := context.Background()
	uc := newTestUseCase(newFakeRepo(), nil, time.Now())

	if _, ok := uc.TakeReplyOverride(ctx, testKey); ok {
		t.Fatal("expected no override")
	}
	if err := uc.SetReplyOverride(ctx, testKey, "late answer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text, ok := uc.TakeReplyOverride(ctx, testKey)
	if !ok || text != "late answer" {
		t.Fatalf("expected override, got %q ok=%v", text, ok)
	}
	if _, ok := uc.TakeReplyOverride(ctx, testKey); ok {
		t.Error("override should be cleared after take")
	}
}
