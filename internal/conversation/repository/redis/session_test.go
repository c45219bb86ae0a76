package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas-action-bot/internal/model"
)

func TestSessionCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := New(client, "sab")
	ctx := context.Background()
	key := model.ConversationKey{TenantID: "acme", VisitorID: "v-1"}

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	entry := model.SessionEntry{TenantID: "acme", VisitorID: "v-1", Params: map[string]string{"userId": "42"}}
	require.NoError(t, cache.Put(ctx, entry, 30*time.Minute))
	assert.True(t, mr.Exists("sab:session:acme:v-1"))

	got, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "42", got.Params["userId"])

	mr.FastForward(31 * time.Minute)
	_, ok, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire with its TTL")
}

func TestSessionCache_CorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, mr.Set("sab:session:acme:v-1", "{not json"))

	_, ok, err := New(client, "sab").Get(context.Background(), model.ConversationKey{TenantID: "acme", VisitorID: "v-1"})
	assert.Error(t, err)
	assert.False(t, ok)
}
