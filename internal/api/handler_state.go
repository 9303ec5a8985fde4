package api

import (
	"net/http"

	"github.com/alvinwquach/sculptql-sub000/internal/querystate"
	"github.com/alvinwquach/sculptql-sub000/internal/sqlgen"
	"github.com/alvinwquach/sculptql-sub000/internal/sqlparse"
)

// GetSchema returns the known-schema catalog the parser resolves
// against.
func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.editor.Catalog())
}

type renderResponse struct {
	SQL string `json:"sql"`
}

// RenderState is the stateless state-to-text endpoint. It never touches
// a tab; clients use it for previews.
func (h *Handler) RenderState(w http.ResponseWriter, r *http.Request) {
	var st querystate.QueryState
	if !h.decode(w, r, &st) {
		return
	}
	h.writeJSON(w, http.StatusOK, renderResponse{
		SQL: sqlgen.Render(st, h.editor.Dialect()),
	})
}

type parseRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	State   querystate.QueryState `json:"state"`
	Clauses []string              `json:"clauses"`
	Reset   bool                  `json:"reset"`
}

// ParseText is the stateless text-to-state endpoint.
func (h *Handler) ParseText(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !h.decode(w, r, &req) {
		return
	}
	res := sqlparse.Parse(req.Text, h.editor.Catalog(), h.editor.Dialect())
	h.writeJSON(w, http.StatusOK, parseResponse{
		State:   res.State,
		Clauses: res.Found.Names(),
		Reset:   res.Reset,
	})
}
