package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"saas-action-bot/internal/action"
	"saas-action-bot/internal/catalog"
	"saas-action-bot/internal/conversation"
	"saas-action-bot/internal/conversation/repository"
	conversationUC "saas-action-bot/internal/conversation/usecase"
	"saas-action-bot/internal/decision"
	"saas-action-bot/internal/guard"
	"saas-action-bot/internal/metrics"
	"saas-action-bot/internal/model"
	"saas-action-bot/internal/resolver"
	pkgLog "saas-action-bot/pkg/log"
)

const (
	testTenant  = "tenant-1"
	testVisitor = "visitor-1"
)

var orderEndpoint = model.Endpoint{
	ID:       "get-order",
	TenantID: testTenant,
	Method:   "GET",
	Path:     "/orders/{orderId}",
	Summary:  "Get an order",
	Parameters: []model.EndpointParam{
		{Name: "orderId", In: model.InPath, Required: true},
		{Name: "userId", In: model.InQuery, Required: true},
	},
}

// memRepo is an in-memory repository.Repository.
type memRepo struct {
	mu       sync.Mutex
	rows     map[model.ConversationKey]model.Conversation
	saveErr  error
	getDelay time.Duration
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[model.ConversationKey]model.Conversation{}}
}

func (r *memRepo) Get(_ context.Context, key model.ConversationKey) (model.Conversation, error) {
	if r.getDelay > 0 {
		time.Sleep(r.getDelay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[key]
	if !ok {
		return model.Conversation{}, repository.ErrNotFound
	}
	return clone(c), nil
}

func (r *memRepo) Upsert(_ context.Context, c model.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.rows[c.Key] = clone(c)
	return nil
}

func (r *memRepo) put(c model.Conversation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.Key] = clone(c)
}

func (r *memRepo) get(key model.ConversationKey) model.Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clone(r.rows[key])
}

func clone(c model.Conversation) model.Conversation {
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

type fakeCatalog struct {
	mu         sync.Mutex
	candidates []catalog.Candidate
	err        error
	searches   int
}

func (f *fakeCatalog) Search(_ context.Context, _ catalog.SearchInput) ([]catalog.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	return f.candidates, f.err
}

func (f *fakeCatalog) IndexEndpoint(context.Context, model.Endpoint) error { return nil }

func (f *fakeCatalog) GetEndpoint(context.Context, string, string) (model.Endpoint, error) {
	return model.Endpoint{}, errors.New("not implemented")
}

func (f *fakeCatalog) ListEndpoints(context.Context, string) ([]model.Endpoint, error) {
	return nil, nil
}

func (f *fakeCatalog) ReindexTenant(context.Context, string) (int, error) { return 0, nil }

func (f *fakeCatalog) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches
}

type fakeEngine struct {
	decide func(ctx context.Context, in decision.DecideInput) (decision.Decision, error)
	greet  func(ctx context.Context, in decision.GreetInput) (string, error)
}

func (f *fakeEngine) Decide(ctx context.Context, in decision.DecideInput) (decision.Decision, error) {
	return f.decide(ctx, in)
}

func (f *fakeEngine) Greet(ctx context.Context, in decision.GreetInput) (string, error) {
	if f.greet == nil {
		return "Hello!", nil
	}
	return f.greet(ctx, in)
}

func (f *fakeEngine) SelectResolver(context.Context, decision.SelectResolverInput) (decision.ResolverChoice, error) {
	return decision.ResolverChoice{}, decision.ErrNoSuitableResolver
}

type fakeResolver struct {
	values map[string]string
	calls  int
}

func (f *fakeResolver) Resolvable(name string) bool { return name == "userId" }

func (f *fakeResolver) Resolve(_ context.Context, in resolver.ResolveInput) (string, bool) {
	f.calls++
	v, ok := f.values[in.ParamName]
	return v, ok
}

type fakeExecutor struct {
	mu      sync.Mutex
	out     action.ExecuteOutput
	err     error
	release chan struct{}
	started chan struct{}
	inputs  []action.ExecuteInput
}

func (f *fakeExecutor) Execute(_ context.Context, in action.ExecuteInput) (action.ExecuteOutput, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.out, f.err
}

func (f *fakeExecutor) calls() []action.ExecuteInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]action.ExecuteInput(nil), f.inputs...)
}

type sentMessage struct {
	channel, handle, text string
}

type fakePush struct {
	mu   sync.Mutex
	err  error
	sent []sentMessage
}

func (f *fakePush) SendMessage(_ context.Context, channel, handle, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{channel: channel, handle: handle, text: text})
	return nil
}

func (f *fakePush) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type fixture struct {
	repo     *memRepo
	conv     conversation.UseCase
	catalog  *fakeCatalog
	engine   *fakeEngine
	resolver *fakeResolver
	executor *fakeExecutor
	locker   guard.Locker
	push     *fakePush
	metrics  *metrics.Collector
}

func newFixture() *fixture {
	repo := newMemRepo()
	return &fixture{
		repo:     repo,
		conv:     conversationUC.New(pkgLog.NewNop(), repo, nil, conversation.Options{}),
		catalog:  &fakeCatalog{candidates: []catalog.Candidate{{EndpointID: orderEndpoint.ID, Score: 0.9, Endpoint: orderEndpoint}}},
		engine:   &fakeEngine{},
		resolver: &fakeResolver{values: map[string]string{}},
		executor: &fakeExecutor{out: action.ExecuteOutput{StatusCode: 200, Body: []byte(`{"status":"shipped"}`)}},
		locker:   guard.NewMemoryLocker(),
		metrics:  metrics.NewCollector("test"),
	}
}

func (f *fixture) orchestrator(t *testing.T, opts Options) *Orchestrator {
	t.Helper()
	if opts.ResponseDeadline == 0 {
		opts.ResponseDeadline = 2 * time.Second
	}
	cfg := Config{
		Logger:       pkgLog.NewNop(),
		Conversation: f.conv,
		Catalog:      f.catalog,
		Engine:       f.engine,
		Resolver:     f.resolver,
		Executor:     f.executor,
		Locker:       f.locker,
		Metrics:      f.metrics,
		Options:      opts,
	}
	if f.push != nil {
		cfg.Push = f.push
	}
	o, err := New(cfg)
	require.NoError(t, err)
	return o
}

func (f *fixture) decideWith(d decision.Decision) {
	f.engine.decide = func(context.Context, decision.DecideInput) (decision.Decision, error) {
		return d, nil
	}
}

func messageEvent(text string) model.InboundEvent {
	return model.InboundEvent{
		Handler:      model.HandlerMessage,
		RequestID:    "req-" + text,
		TenantID:     testTenant,
		Channel:      "web",
		Visitor:      model.EventVisitor{ID: testVisitor, Email: "ada@example.com", Name: "Ada"},
		Conversation: model.EventConversation{ID: "conv-handle-1"},
		Message:      model.EventMessage{Type: "text", Text: text},
	}
}

func testKey() model.ConversationKey {
	return model.ConversationKey{TenantID: testTenant, VisitorID: testVisitor}
}

func shutdown(t *testing.T, o *Orchestrator) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, o.Shutdown(ctx))
}

func counterValue(t *testing.T, c *metrics.Collector, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}
