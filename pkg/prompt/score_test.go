package prompt

import (
	"strings"
	"testing"

	"github.com/borderdrill/borderdrill/pkg/models"
)

func TestBuildScorePrompt(t *testing.T) {
	transcript := []models.Message{
		{Role: models.RoleSystem, Content: "ignored"},
		{Role: models.RoleUser, Content: "Officer: Anything to declare?"},
		{Role: models.RoleAssistant, Content: "Just some fruit."},
		{Role: models.RoleUser, Content: "What kind of fruit?"},
	}

	msgs := BuildScorePrompt(transcript)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != models.RoleSystem || msgs[0].Content != scoringSystem {
		t.Errorf("unexpected system message: %+v", msgs[0])
	}
	body := msgs[1].Content
	if msgs[1].Role != models.RoleUser {
		t.Errorf("expected user role, got %s", msgs[1].Role)
	}

	want := "Officer: Anything to declare?\nTraveler: Just some fruit.\nOfficer: What kind of fruit?\n"
	if !strings.Contains(body, want) {
		t.Errorf("transcript not rendered as expected:\n%s", body)
	}
	if !strings.Contains(body, "0–100") {
		t.Error("score prompt should ask for a 0–100 score")
	}
	if strings.Contains(body, "ignored") {
		t.Error("system messages should not be rendered")
	}
}

func TestBuildScorePromptEmpty(t *testing.T) {
	for _, transcript := range [][]models.Message{
		nil,
		{},
		{{Role: models.RoleSystem, Content: "x"}},
	} {
		msgs := BuildScorePrompt(transcript)
		if len(msgs) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(msgs))
		}
		if !strings.HasSuffix(msgs[1].Content, "Conversation:\n") {
			t.Errorf("expected an empty conversation section, got:\n%s", msgs[1].Content)
		}
	}
}
