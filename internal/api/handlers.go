package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"scenecache/internal/logging"
	"scenecache/internal/namecache"
)

const maxBodyBytes = 1 << 16

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Entries: s.cache.Count()})
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		s.writeError(w, http.StatusBadRequest, "name query parameter is required")
		return
	}
	match, found := s.cache.Lookup(name)
	resp := NewLookupResponse(name, s.cache.Sanitize(name), match, found)
	if !found && s.suggestLimit > 0 {
		resp.Suggestions = s.cache.Suggest(name, s.suggestLimit)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req AddNameRequest
	if !s.decode(w, r, &req, false) {
		return
	}
	match := namecache.Unresolved
	if req.IndexerID != 0 {
		match = namecache.Resolved(req.IndexerID)
	}
	if err := s.cache.Add(r.Context(), req.Name, match); err != nil {
		s.writeCacheError(w, r, "add scene name", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePurge(w http.ResponseWriter, r *http.Request) {
	if err := s.cache.PurgeUnresolved(r.Context()); err != nil {
		s.writeCacheError(w, r, "purge unresolved names", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	var req RebuildRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	// A rebuild purges before it reloads; a client hanging up must not stop it halfway.
	ctx := context.WithoutCancel(r.Context())

	if req.ShowID == 0 {
		if err := s.cache.Rebuild(ctx); err != nil {
			s.writeCacheError(w, r, "rebuild", err)
			return
		}
		s.writeJSON(w, http.StatusAccepted, RebuildResponse{Scope: "full", Entries: s.cache.Count()})
		return
	}

	if s.shows == nil {
		s.writeError(w, http.StatusNotFound, "show not found")
		return
	}
	show, ok, err := s.shows.Show(ctx, req.ShowID)
	if err != nil {
		s.writeCacheError(w, r, "load show catalog", err)
		return
	}
	if !ok {
		s.writeError(w, http.StatusNotFound, "show not found")
		return
	}
	if err := s.cache.RebuildShow(ctx, show); err != nil {
		s.writeCacheError(w, r, "rebuild show", err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, RebuildResponse{Scope: "show", ShowID: show.ID, Entries: s.cache.Count()})
}

func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	if err := s.cache.Flush(r.Context()); err != nil {
		s.writeCacheError(w, r, "flush", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEntries(w http.ResponseWriter, _ *http.Request) {
	entries := s.cache.Entries()
	s.writeJSON(w, http.StatusOK, EntriesResponse{Count: len(entries), Entries: entries})
}

// decode reads a JSON body into dst. An empty body is accepted only when
// optional is set.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) writeCacheError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, namecache.ErrEmptyName) || errors.Is(err, namecache.ErrInvalidID) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	logging.ErrorWithContext(logging.WithContext(r.Context(), s.logger), "request failed", "api_request_failed",
		logging.String("operation", op),
		logging.String("path", r.URL.Path),
		logging.Error(err))
	s.writeError(w, http.StatusInternalServerError, op+" failed")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}
