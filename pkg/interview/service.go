// Package interview runs officer/traveler turns and end-of-session scoring
// against a completion gateway.
package interview

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/borderdrill/borderdrill/pkg/cache"
	"github.com/borderdrill/borderdrill/pkg/gateway"
	"github.com/borderdrill/borderdrill/pkg/models"
	"github.com/borderdrill/borderdrill/pkg/persona"
	"github.com/borderdrill/borderdrill/pkg/prompt"
	"github.com/borderdrill/borderdrill/pkg/tracker"
)

// Options tunes provider calls.
type Options struct {
	ReplyTemperature float64
	ScoreTemperature float64
}

// Meta identifies a call for logging and usage tracking.
type Meta struct {
	RequestID string
	SessionID string
}

// Reply is the outcome of one conversation turn.
type Reply struct {
	Text      string
	PersonaID string
	// Fallback is set when the persona was drawn at random because no known
	// profile id was supplied.
	Fallback bool
	CacheHit bool
}

// Service builds prompts, consults the cache and calls the gateway.
// Concurrent turns with the same key may both miss and both call the
// gateway; the later Put wins.
type Service struct {
	personas *persona.Registry
	gateway  gateway.Gateway
	cache    cache.Store
	tracker  tracker.Tracker
	source   persona.Source
	opts     Options
}

// New creates a Service. A nil cache disables caching, a nil tracker disables
// usage tracking and a nil source uses persona.DefaultSource.
func New(personas *persona.Registry, gw gateway.Gateway, c cache.Store, tr tracker.Tracker, src persona.Source, opts Options) *Service {
	if src == nil {
		src = persona.DefaultSource
	}
	return &Service{
		personas: personas,
		gateway:  gw,
		cache:    c,
		tracker:  tr,
		source:   src,
		opts:     opts,
	}
}

// Personas returns the registry the service draws from.
func (s *Service) Personas() *persona.Registry {
	return s.personas
}

// CacheStats reports the cache counters. ok is false when caching is
// disabled or the store keeps no counters.
func (s *Service) CacheStats() (stats models.CacheStats, ok bool) {
	r, isReporter := s.cache.(cache.StatsReporter)
	if !isReporter {
		return models.CacheStats{}, false
	}
	stats, err := r.Stats()
	if err != nil {
		log.Printf("cache stats error: %v", err)
		return models.CacheStats{}, false
	}
	return stats, true
}

// Reply answers the officer's new message in character. Invalid input is
// rejected before the cache or the gateway is touched. Gateway errors are
// returned as-is and never retried.
func (s *Service) Reply(ctx context.Context, req models.InterviewRequest, meta Meta) (*Reply, error) {
	if err := prompt.Validate(req.Conversation, req.NewMessage); err != nil {
		return nil, err
	}

	p, fallback := s.personas.Resolve(req.ProfileID, s.source)
	if fallback && req.ProfileID != "" {
		log.Printf("request %s: unknown profile %q, using %q", meta.RequestID, req.ProfileID, p.ID)
	}

	messages, err := prompt.Build(req.Conversation, req.NewMessage, &p)
	if err != nil {
		return nil, err
	}

	key := cache.Key(messages)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return &Reply{Text: cached, PersonaID: p.ID, Fallback: fallback, CacheHit: true}, nil
		}
	}

	start := time.Now()
	c, err := s.gateway.Complete(ctx, messages, s.opts.ReplyTemperature)
	if err != nil {
		return nil, fmt.Errorf("reply: %w", err)
	}
	s.record(ctx, meta, models.KindReply, p.ID, c, start)

	if s.cache != nil {
		if err := s.cache.Put(key, c.Text); err != nil {
			log.Printf("request %s: cache put error: %v", meta.RequestID, err)
		}
	}

	return &Reply{Text: c.Text, PersonaID: p.ID, Fallback: fallback}, nil
}

// Score evaluates a finished transcript with one uncached gateway call.
// Every transcript, empty included, reaches the gateway exactly once.
func (s *Service) Score(ctx context.Context, transcript []models.Message, meta Meta) (string, error) {
	messages := prompt.BuildScorePrompt(transcript)

	start := time.Now()
	c, err := s.gateway.Complete(ctx, messages, s.opts.ScoreTemperature)
	if err != nil {
		return "", fmt.Errorf("score: %w", err)
	}
	s.record(ctx, meta, models.KindScore, "", c, start)

	return c.Text, nil
}

func (s *Service) record(ctx context.Context, meta Meta, kind models.CompletionKind, personaID string, c *gateway.Completion, start time.Time) {
	if s.tracker == nil {
		return
	}
	rec := models.UsageRecord{
		RequestID: meta.RequestID,
		SessionID: meta.SessionID,
		Kind:      kind,
		PersonaID: personaID,
		Model:     c.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		CreatedAt: time.Now().UTC(),
	}
	if c.Usage != nil {
		rec.PromptTokens = c.Usage.PromptTokens
		rec.CompletionTokens = c.Usage.CompletionTokens
		rec.TotalTokens = c.Usage.TotalTokens
	}
	if err := s.tracker.Record(ctx, rec); err != nil {
		log.Printf("request %s: usage record error: %v", meta.RequestID, err)
	}
}
