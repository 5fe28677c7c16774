package interview

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/borderdrill/borderdrill/pkg/cache"
	"github.com/borderdrill/borderdrill/pkg/gateway"
	"github.com/borderdrill/borderdrill/pkg/models"
	"github.com/borderdrill/borderdrill/pkg/persona"
	"github.com/borderdrill/borderdrill/pkg/prompt"
	"github.com/borderdrill/borderdrill/pkg/tracker"
)

// stubGateway counts calls and records the last request.
type stubGateway struct {
	mu       sync.Mutex
	calls    int
	reply    string
	err      error
	last     []models.Message
	lastTemp float64
}

func (g *stubGateway) Complete(_ context.Context, messages []models.Message, temperature float64) (*gateway.Completion, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.last = messages
	g.lastTemp = temperature
	if g.err != nil {
		return nil, g.err
	}
	return &gateway.Completion{
		Text:  g.reply,
		Model: "stub-model",
		Usage: &models.Usage{PromptTokens: 40, CompletionTokens: 10, TotalTokens: 50},
	}, nil
}

type fixedSource int

func (f fixedSource) IntN(n int) int { return int(f) % n }

var testOpts = Options{ReplyTemperature: 0.7, ScoreTemperature: 0.5}

func newService(gw gateway.Gateway, c cache.Store) *Service {
	return New(persona.Default(), gw, c, nil, fixedSource(0), testOpts)
}

func TestReplyScenario(t *testing.T) {
	gw := &stubGateway{reply: "I have nothing to declare. (Feedback: fine.)"}
	store := cache.NewMemory(cache.DefaultTTL, nil)
	svc := newService(gw, store)

	req := models.InterviewRequest{
		NewMessage: "Officer: Do you have anything to declare?",
		ProfileID:  "smuggling",
	}

	r, err := svc.Reply(context.Background(), req, Meta{RequestID: "r1"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Text != "I have nothing to declare. (Feedback: fine.)" {
		t.Errorf("unexpected reply %q", r.Text)
	}
	if r.PersonaID != "smuggling" || r.Fallback || r.CacheHit {
		t.Errorf("unexpected reply metadata %+v", r)
	}
	if gw.lastTemp != 0.7 {
		t.Errorf("expected reply temperature 0.7, got %v", gw.lastTemp)
	}

	p, _ := persona.Default().Get("smuggling")
	want := []models.Message{
		{Role: models.RoleSystem, Content: prompt.SystemPrompt(&p)},
		{Role: models.RoleUser, Content: "Do you have anything to declare?"},
	}
	if cache.Key(gw.last) != cache.Key(want) {
		t.Errorf("unexpected outbound messages %+v", gw.last)
	}
	if cached, ok := store.Get(cache.Key(want)); !ok || cached != r.Text {
		t.Errorf("reply not cached under the serialized key: %q %v", cached, ok)
	}

	again, err := svc.Reply(context.Background(), req, Meta{RequestID: "r2"})
	if err != nil {
		t.Fatal(err)
	}
	if again.Text != r.Text || !again.CacheHit {
		t.Errorf("expected cached reply, got %+v", again)
	}
	if gw.calls != 1 {
		t.Errorf("expected 1 gateway call, got %d", gw.calls)
	}
}

func TestReplyInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  models.InterviewRequest
	}{
		{"empty message", models.InterviewRequest{NewMessage: ""}},
		{"blank message", models.InterviewRequest{NewMessage: "  "}},
		{"bad role", models.InterviewRequest{
			Conversation: []models.Message{{Role: "narrator", Content: "x"}},
			NewMessage:   "hello",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &stubGateway{reply: "x"}
			svc := newService(gw, cache.NewMemory(time.Minute, nil))

			_, err := svc.Reply(context.Background(), tt.req, Meta{})
			if !errors.Is(err, prompt.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if gw.calls != 0 {
				t.Errorf("expected no gateway calls, got %d", gw.calls)
			}
		})
	}
}

func TestReplyUnknownPersonaFallsBack(t *testing.T) {
	gw := &stubGateway{reply: "hi"}
	svc := New(persona.Default(), gw, nil, nil, fixedSource(4), testOpts)

	r, err := svc.Reply(context.Background(), models.InterviewRequest{
		NewMessage: "Where are you traveling from?",
		ProfileID:  "not_a_persona",
	}, Meta{})
	if err != nil {
		t.Fatal(err)
	}
	if !r.Fallback {
		t.Error("expected fallback persona")
	}
	if r.PersonaID != "agricultural_goods" {
		t.Errorf("expected persona from source, got %s", r.PersonaID)
	}
	if !strings.Contains(gw.last[0].Content, "Agricultural Goods Traveler") {
		t.Error("system prompt should use the fallback persona")
	}
}

func TestReplyHistoryChangeMissesCache(t *testing.T) {
	gw := &stubGateway{reply: "ok"}
	svc := newService(gw, cache.NewMemory(time.Minute, nil))
	ctx := context.Background()

	base := models.InterviewRequest{
		Conversation: []models.Message{
			{Role: models.RoleUser, Content: "Hello"},
			{Role: models.RoleAssistant, Content: "Hi"},
		},
		NewMessage: "Purpose of visit?",
		ProfileID:  "visa_issue",
	}
	edited := base
	edited.Conversation = []models.Message{
		{Role: models.RoleUser, Content: "Hello"},
		{Role: models.RoleAssistant, Content: "Hi there"},
	}
	otherPersona := base
	otherPersona.ProfileID = "smuggling"

	for _, req := range []models.InterviewRequest{base, edited, otherPersona} {
		if _, err := svc.Reply(ctx, req, Meta{}); err != nil {
			t.Fatal(err)
		}
	}
	if gw.calls != 3 {
		t.Errorf("expected 3 gateway calls, got %d", gw.calls)
	}

	// "Officer:" prefixes are stripped before keying.
	prefixed := base
	prefixed.NewMessage = "Officer: Purpose of visit?"
	r, err := svc.Reply(ctx, prefixed, Meta{})
	if err != nil {
		t.Fatal(err)
	}
	if !r.CacheHit {
		t.Error("sanitized duplicate should hit the cache")
	}
}

func TestReplyCacheExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	gw := &stubGateway{reply: "ok"}
	svc := newService(gw, cache.NewMemory(cache.DefaultTTL, clock))
	req := models.InterviewRequest{NewMessage: "Hi", ProfileID: "terrorism"}

	_, _ = svc.Reply(context.Background(), req, Meta{})
	now = now.Add(cache.DefaultTTL)
	_, _ = svc.Reply(context.Background(), req, Meta{})

	if gw.calls != 2 {
		t.Errorf("expected expired entry to trigger a second call, got %d calls", gw.calls)
	}
}

func TestReplyProviderError(t *testing.T) {
	gw := &stubGateway{err: errors.Join(gateway.ErrProvider, errors.New("status 401"))}
	store := cache.NewMemory(time.Minute, nil)
	svc := newService(gw, store)

	_, err := svc.Reply(context.Background(), models.InterviewRequest{NewMessage: "Hi"}, Meta{})
	if !errors.Is(err, gateway.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	if gw.calls != 1 {
		t.Errorf("expected exactly one attempt, got %d", gw.calls)
	}
	stats, _ := store.Stats()
	if stats.Entries != 0 {
		t.Error("failed replies must not be cached")
	}
}

func TestScore(t *testing.T) {
	gw := &stubGateway{reply: "Score: 80/100"}
	svc := newService(gw, cache.NewMemory(time.Minute, nil))
	transcript := []models.Message{
		{Role: models.RoleUser, Content: "Anything to declare?"},
		{Role: models.RoleAssistant, Content: "No."},
	}

	for i := 0; i < 2; i++ {
		score, err := svc.Score(context.Background(), transcript, Meta{})
		if err != nil {
			t.Fatal(err)
		}
		if score != "Score: 80/100" {
			t.Errorf("unexpected score %q", score)
		}
	}
	if gw.calls != 2 {
		t.Errorf("scoring must not be cached, got %d calls", gw.calls)
	}
	if gw.lastTemp != 0.5 {
		t.Errorf("expected score temperature 0.5, got %v", gw.lastTemp)
	}
	if len(gw.last) != 2 || gw.last[0].Role != models.RoleSystem {
		t.Errorf("unexpected score messages %+v", gw.last)
	}
}

func TestScoreErrors(t *testing.T) {
	gw := &stubGateway{err: gateway.ErrProvider}
	svc := newService(gw, nil)

	transcript := []models.Message{{Role: models.RoleUser, Content: "Hi"}}
	if _, err := svc.Score(context.Background(), transcript, Meta{}); !errors.Is(err, gateway.ErrProvider) {
		t.Errorf("expected ErrProvider, got %v", err)
	}
	if gw.calls != 1 {
		t.Errorf("expected exactly one attempt, got %d", gw.calls)
	}
}

func TestScoreEmptyTranscript(t *testing.T) {
	gw := &stubGateway{reply: "Score: 0/100"}
	svc := newService(gw, nil)

	score, err := svc.Score(context.Background(), nil, Meta{})
	if err != nil {
		t.Fatal(err)
	}
	if score != "Score: 0/100" {
		t.Errorf("unexpected score %q", score)
	}
	if gw.calls != 1 {
		t.Errorf("expected one gateway call, got %d", gw.calls)
	}
}

func TestUsageTracking(t *testing.T) {
	tr, err := tracker.New(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	gw := &stubGateway{reply: "ok"}
	svc := New(persona.Default(), gw, cache.NewMemory(time.Minute, nil), tr, fixedSource(0), testOpts)
	ctx := context.Background()
	meta := Meta{RequestID: "r1", SessionID: "s1"}

	req := models.InterviewRequest{NewMessage: "Hi", ProfileID: "smuggling"}
	_, _ = svc.Reply(ctx, req, meta)
	_, _ = svc.Reply(ctx, req, meta) // cache hit, not recorded
	_, _ = svc.Score(ctx, []models.Message{{Role: models.RoleUser, Content: "Hi"}}, meta)

	recs, err := tr.QuerySession(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 usage records, got %d", len(recs))
	}
	if recs[0].Kind != models.KindReply || recs[0].PersonaID != "smuggling" || recs[0].TotalTokens != 50 {
		t.Errorf("unexpected reply record %+v", recs[0])
	}
	if recs[1].Kind != models.KindScore || recs[1].Model != "stub-model" {
		t.Errorf("unexpected score record %+v", recs[1])
	}
}

func TestCacheStats(t *testing.T) {
	gw := &stubGateway{reply: "No, officer."}
	svc := newService(gw, cache.NewMemory(cache.DefaultTTL, nil))

	req := models.InterviewRequest{NewMessage: "Officer: Purpose of visit?", ProfileID: "smuggling"}
	for i := 0; i < 2; i++ {
		if _, err := svc.Reply(context.Background(), req, Meta{}); err != nil {
			t.Fatal(err)
		}
	}
	stats, ok := svc.CacheStats()
	if !ok {
		t.Fatal("expected stats from memory cache")
	}
	if stats.Entries != 1 || stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}

	if _, ok := newService(gw, nil).CacheStats(); ok {
		t.Error("expected no stats without a cache")
	}
}
