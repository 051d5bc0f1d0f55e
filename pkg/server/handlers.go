package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"biscuit-hq/bakery/pkg/playground"
	"biscuit-hq/bakery/pkg/snippet"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// handleExecute runs one playground session and returns the
// reconciled result for every editor.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req playground.Request
	body := http.MaxBytesReader(w, r.Body, s.config.Server.MaxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	start := time.Now()
	result, err := s.opts.Playground.Execute(r.Context(), &req)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.recordExecution(result, time.Since(start))
	s.writeJSON(w, http.StatusOK, result)
}

// recordExecution reports execution metrics when a collector is wired.
func (s *Server) recordExecution(result *playground.Result, duration time.Duration) {
	if s.opts.Metrics == nil {
		return
	}
	s.opts.Metrics.RecordExecution(classifyResult(result), duration)

	var blockFailures int
	for _, editor := range result.TokenBlocks {
		blockFailures += len(editor.Errors)
	}
	s.opts.Metrics.RecordParseFailures("block", blockFailures)
	if result.VerifierEditor != nil {
		s.opts.Metrics.RecordParseFailures("verifier", len(result.VerifierEditor.Errors))
	}
}

// classifyResult maps a result to a metrics outcome label.
func classifyResult(result *playground.Result) string {
	switch {
	case result.VerifierResult == nil:
		return "no_verifier"
	case *result.VerifierResult == "Success":
		return "allowed"
	case strings.HasPrefix(*result.VerifierResult, "errors:"):
		return "parse_failed"
	default:
		return "rejected"
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListSamples(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.opts.Gallery.List())
}

func (s *Server) handleGetSample(w http.ResponseWriter, r *http.Request) {
	sample := s.opts.Gallery.Get(r.PathValue("name"))
	if sample == nil {
		s.writeError(w, http.StatusNotFound, "sample not found")
		return
	}
	s.writeJSON(w, http.StatusOK, sample)
}

func (s *Server) handleCreateSnippet(w http.ResponseWriter, r *http.Request) {
	var in snippet.Snippet
	body := http.MaxBytesReader(w, r.Body, s.config.Server.MaxRequestBytes)
	if err := json.NewDecoder(body).Decode(&in); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	created, err := s.opts.Snippets.Create(r.Context(), &in)
	if err != nil {
		s.snippetMetric("create", "error")
		s.logger.Error("creating snippet", "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not store snippet")
		return
	}

	s.snippetMetric("create", "ok")
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetSnippet(w http.ResponseWriter, r *http.Request) {
	got, err := s.opts.Snippets.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, snippet.ErrNotFound) {
		s.snippetMetric("get", "not_found")
		s.writeError(w, http.StatusNotFound, "snippet not found")
		return
	}
	if err != nil {
		s.snippetMetric("get", "error")
		s.logger.Error("loading snippet", "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not load snippet")
		return
	}

	s.snippetMetric("get", "ok")
	s.writeJSON(w, http.StatusOK, got)
}

func (s *Server) snippetMetric(op, status string) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.RecordSnippetOp(op, status)
	}
}
