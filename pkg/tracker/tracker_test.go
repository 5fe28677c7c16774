package tracker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/borderdrill/borderdrill/pkg/models"
)

func setup(t *testing.T) (*SQLiteTracker, context.Context) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tracker_test.db")
	tr, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { tr.Close() })
	return tr, context.Background()
}

func TestRecordAndQuerySession(t *testing.T) {
	tr, ctx := setup(t)

	recs := []models.UsageRecord{
		{RequestID: "r1", SessionID: "s1", Kind: models.KindReply, PersonaID: "smuggling", Model: "gpt-3.5-turbo", PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120},
		{RequestID: "r2", SessionID: "s1", Kind: models.KindReply, PersonaID: "smuggling", Model: "gpt-3.5-turbo", PromptTokens: 150, CompletionTokens: 25, TotalTokens: 175},
		{RequestID: "r3", SessionID: "s2", Kind: models.KindReply, PersonaID: "visa_issue", Model: "gpt-3.5-turbo", PromptTokens: 90, CompletionTokens: 10, TotalTokens: 100},
	}
	for _, r := range recs {
		if err := tr.Record(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	got, err := tr.QuerySession(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].RequestID != "r1" || got[1].RequestID != "r2" {
		t.Errorf("unexpected order: %s, %s", got[0].RequestID, got[1].RequestID)
	}
	if got[0].Kind != models.KindReply {
		t.Errorf("unexpected kind %s", got[0].Kind)
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestSummary(t *testing.T) {
	tr, ctx := setup(t)
	now := time.Now().UTC()

	_ = tr.Record(ctx, models.UsageRecord{RequestID: "a", Kind: models.KindReply, PersonaID: "smuggling", Model: "m", PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15, CreatedAt: now})
	_ = tr.Record(ctx, models.UsageRecord{RequestID: "b", Kind: models.KindReply, PersonaID: "smuggling", Model: "m", PromptTokens: 20, CompletionTokens: 5, TotalTokens: 25, CreatedAt: now})
	_ = tr.Record(ctx, models.UsageRecord{RequestID: "c", Kind: models.KindScore, Model: "m", PromptTokens: 300, CompletionTokens: 100, TotalTokens: 400, CreatedAt: now})
	_ = tr.Record(ctx, models.UsageRecord{RequestID: "d", Kind: models.KindReply, PersonaID: "smuggling", Model: "m", PromptTokens: 1, CompletionTokens: 1, TotalTokens: 2, CreatedAt: now.Add(-48 * time.Hour)})

	all, err := tr.Summary(ctx, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(all))
	}
	if all[0].Kind != models.KindReply || all[0].RequestCount != 3 || all[0].TotalTokens != 42 {
		t.Errorf("unexpected reply group: %+v", all[0])
	}
	if all[1].Kind != models.KindScore || all[1].TotalTokens != 400 {
		t.Errorf("unexpected score group: %+v", all[1])
	}

	recent, err := tr.Summary(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if recent[0].RequestCount != 2 {
		t.Errorf("expected 2 recent replies, got %d", recent[0].RequestCount)
	}
}

func TestSummaryEmpty(t *testing.T) {
	tr, ctx := setup(t)
	s, err := tr.Summary(ctx, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 0 {
		t.Errorf("expected no summaries, got %d", len(s))
	}
}
