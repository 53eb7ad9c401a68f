package api

import "scenecache/internal/namecache"

// NameLookupResponse answers GET /api/v1/names.
type NameLookupResponse struct {
	Name        string                 `json:"name"`
	Sanitized   string                 `json:"sanitized"`
	Found       bool                   `json:"found"`
	Resolved    bool                   `json:"resolved"`
	IndexerID   *int64                 `json:"indexer_id"`
	Suggestions []namecache.Suggestion `json:"suggestions,omitempty"`
}

// AddNameRequest is the body of POST /api/v1/names. A zero or absent
// indexer_id records the name as unresolved.
type AddNameRequest struct {
	Name      string `json:"name"`
	IndexerID int64  `json:"indexer_id"`
}

// RebuildRequest is the optional body of POST /api/v1/rebuild. A zero show_id
// requests a full rebuild.
type RebuildRequest struct {
	ShowID int64 `json:"show_id"`
}

// RebuildResponse reports the outcome of a rebuild.
type RebuildResponse struct {
	Scope   string `json:"scope"`
	ShowID  int64  `json:"show_id,omitempty"`
	Entries int    `json:"entries"`
}

// EntriesResponse answers GET /api/v1/entries.
type EntriesResponse struct {
	Count   int               `json:"count"`
	Entries []namecache.Entry `json:"entries"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewLookupResponse builds the lookup payload for name.
func NewLookupResponse(name, sanitized string, match namecache.Match, found bool) NameLookupResponse {
	resp := NameLookupResponse{Name: name, Sanitized: sanitized, Found: found}
	if id, ok := match.ID(); found && ok {
		resp.Resolved = true
		resp.IndexerID = &id
	}
	return resp
}

// HealthResponse answers GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
}
