package main

import (
	"context"
	"strings"
	"testing"

	"github.com/borderdrill/borderdrill/pkg/gateway"
	"github.com/borderdrill/borderdrill/pkg/interview"
	"github.com/borderdrill/borderdrill/pkg/models"
	"github.com/borderdrill/borderdrill/pkg/persona"
)

type recordingGateway struct {
	requests [][]models.Message
}

func (g *recordingGateway) Complete(_ context.Context, messages []models.Message, _ float64) (*gateway.Completion, error) {
	g.requests = append(g.requests, messages)
	return &gateway.Completion{Text: "reply", Model: "stub"}, nil
}

func TestRunDrill(t *testing.T) {
	gw := &recordingGateway{}
	svc := interview.New(persona.Default(), gw, nil, nil, nil, interview.Options{})

	input := "Officer: Where are you coming from?\n\nHow long is your stay?\n/score\n"
	if err := runDrill(context.Background(), svc, "smuggling", strings.NewReader(input)); err != nil {
		t.Fatal(err)
	}

	if len(gw.requests) != 3 {
		t.Fatalf("expected 2 replies and 1 score call, got %d calls", len(gw.requests))
	}

	second := gw.requests[1]
	if len(second) != 4 {
		t.Fatalf("expected system + 2 history + new message, got %d", len(second))
	}
	if second[1].Content != "Where are you coming from?" || second[2].Content != "reply" {
		t.Errorf("history not carried between turns: %+v", second[1:3])
	}
	if !strings.Contains(second[0].Content, "Smuggling Traveler") {
		t.Error("persona should stay pinned for the session")
	}

	score := gw.requests[2]
	if !strings.Contains(score[1].Content, "Officer: How long is your stay?") {
		t.Errorf("score prompt missing transcript: %s", score[1].Content)
	}
}

func TestRunDrillQuit(t *testing.T) {
	gw := &recordingGateway{}
	svc := interview.New(persona.Default(), gw, nil, nil, nil, interview.Options{})

	if err := runDrill(context.Background(), svc, "visa_issue", strings.NewReader("/score\n/quit\n")); err != nil {
		t.Fatal(err)
	}
	if len(gw.requests) != 0 {
		t.Errorf("expected no gateway calls, got %d", len(gw.requests))
	}
}
