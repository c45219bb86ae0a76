package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"saas-action-bot/internal/conversation/repository"
	"saas-action-bot/internal/model"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// fakeRepo is an in-memory repository.Repository.
type fakeRepo struct {
	mu      sync.Mutex
	rows    map[model.ConversationKey]model.Conversation
	getErr  error
	saveErr error
	gets    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[model.ConversationKey]model.Conversation{}}
}

func (r *fakeRepo) Get(_ context.Context, key model.ConversationKey) (model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	if r.getErr != nil {
		return model.Conversation{}, r.getErr
	}
	c, ok := r.rows[key]
	if !ok {
		return model.Conversation{}, repository.ErrNotFound
	}
	return cloneConv(c), nil
}

func (r *fakeRepo) Upsert(_ context.Context, c model.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.rows[c.Key] = cloneConv(c)
	return nil
}

func cloneConv(c model.Conversation) model.Conversation {
	params := make(map[string]string, len(c.ResolvedParams))
	for k, v := range c.ResolvedParams {
		params[k] = v
	}
	c.ResolvedParams = params
	c.History = append([]model.HistoryEntry(nil), c.History...)
	if c.Pending != nil {
		p := *c.Pending
		c.Pending = &p
	}
	return c
}

// fakeCache is a repository.SessionCache that can be made to fail.
type fakeCache struct {
	mu      sync.Mutex
	entries map[model.ConversationKey]model.SessionEntry
	err     error
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[model.ConversationKey]model.SessionEntry{}}
}

func (c *fakeCache) Get(_ context.Context, key model.ConversationKey) (model.SessionEntry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return model.SessionEntry{}, false, c.err
	}
	e, ok := c.entries[key]
	return e, ok, nil
}

func (c *fakeCache) Put(_ context.Context, e model.SessionEntry, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	if c.err != nil {
		return c.err
	}
	params := make(map[string]string, len(e.Params))
	for k, v := range e.Params {
		params[k] = v
	}
	e.Params = params
	c.entries[model.ConversationKey{TenantID: e.TenantID, VisitorID: e.VisitorID}] = e
	return nil
}

var errStore = errors.New("store unavailable")
