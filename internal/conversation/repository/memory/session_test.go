package memory

import (
	"context"
	"testing"
	"time"

	"saas-action-bot/internal/model"
)

func TestSessionCache(t *testing.T) {
	ctx := context.Background()
	cache := New(50 * time.Millisecond)
	key := model.ConversationKey{TenantID: "acme", VisitorID: "v-1"}

	if _, ok, _ := cache.Get(ctx, key); ok {
		t.Fatal("expected miss on empty cache")
	}

	params := map[string]string{"userId": "42"}
	if err := cache.Put(ctx, model.SessionEntry{TenantID: "acme", VisitorID: "v-1", Params: params}, 0); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	params["userId"] = "mutated"

	got, ok, err := cache.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if got.Params["userId"] != "42" {
		t.Errorf("cache should hold its own copy, got %q", got.Params["userId"])
	}

	time.Sleep(120 * time.Millisecond)
	if _, ok, _ := cache.Get(ctx, key); ok {
		t.Error("expected entry to expire")
	}
}
