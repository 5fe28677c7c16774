package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/borderdrill/borderdrill/pkg/interview"
	"github.com/borderdrill/borderdrill/pkg/models"
	"github.com/borderdrill/borderdrill/pkg/prompt"
)

const maxBodySize = 1 << 20

const (
	msgReplyFailed = "Something went wrong with the AI response."
	msgScoreFailed = "Failed to score the conversation."
)

// Server is the borderdrill HTTP API.
type Server struct {
	listen  string
	service *interview.Service
	mux     *http.ServeMux
}

// New creates a Server wired to the interview service.
func New(listen string, svc *interview.Service) *Server {
	s := &Server{
		listen:  listen,
		service: svc,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("/api/interview", s.handleInterview)
	s.mux.HandleFunc("/api/score", s.handleScore)
	s.mux.HandleFunc("/api/personas", s.handlePersonas)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the server with graceful shutdown support.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.listen,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("borderdrill listening on %s", s.listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleInterview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	meta := requestMeta(w, r)

	var req models.InterviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid input message.")
		return
	}

	start := time.Now()
	reply, err := s.service.Reply(r.Context(), req, meta)
	if err != nil {
		if errors.Is(err, prompt.ErrInvalidInput) {
			writeJSONError(w, http.StatusBadRequest, "Invalid input message.")
			return
		}
		log.Printf("request %s: interview error: %v", meta.RequestID, err)
		writeJSONError(w, http.StatusInternalServerError, msgReplyFailed)
		return
	}

	cacheStatus := "miss"
	if reply.CacheHit {
		cacheStatus = "hit"
	}
	w.Header().Set("X-Borderdrill-Cache", cacheStatus)
	log.Printf("request %s: reply persona=%s cache=%s latency=%s", meta.RequestID, reply.PersonaID, cacheStatus, time.Since(start).Round(time.Millisecond))
	writeJSON(w, http.StatusOK, models.InterviewResponse{Reply: reply.Text})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	meta := requestMeta(w, r)

	// Scoring answers only 200 or 500; an unreadable body is a failed score.
	var req models.ScoreRequest
	if err := decodeBody(r, &req); err != nil {
		log.Printf("request %s: scoring body error: %v", meta.RequestID, err)
		writeJSONError(w, http.StatusInternalServerError, msgScoreFailed)
		return
	}

	score, err := s.service.Score(r.Context(), req.Conversation, meta)
	if err != nil {
		log.Printf("request %s: scoring error: %v", meta.RequestID, err)
		writeJSONError(w, http.StatusInternalServerError, msgScoreFailed)
		return
	}

	log.Printf("request %s: scored %d messages", meta.RequestID, len(req.Conversation))
	writeJSON(w, http.StatusOK, models.ScoreResponse{Score: score})
}

func (s *Server) handlePersonas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.service.Personas().Summaries())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{Status: "ok"}
	if stats, ok := s.service.CacheStats(); ok {
		resp.Cache = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}

// requestMeta reads the request and session ids from headers, generating a
// request id when the client sent none.
func requestMeta(w http.ResponseWriter, r *http.Request) interview.Meta {
	id := r.Header.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", id)
	return interview.Meta{
		RequestID: id,
		SessionID: r.Header.Get("X-Borderdrill-Session"),
	}
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return err
	}
	r.Body.Close()
	return json.Unmarshal(body, v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, models.ErrorResponse{Error: message})
}
