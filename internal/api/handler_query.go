package api

import (
	"net/http"
	"strconv"

	"github.com/alvinwquach/sculptql-sub000/internal/planstats"
)

type queryRequest struct {
	SQL string `json:"sql"`
}

func (h *Handler) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.query.Execute(r.Context(), req.SQL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

type explainResponse struct {
	Plan    *planstats.Node    `json:"plan"`
	Summary *planstats.Summary `json:"summary"`
}

func (h *Handler) ExplainQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !h.decode(w, r, &req) {
		return
	}
	node, summary, err := h.query.Explain(r.Context(), req.SQL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, explainResponse{Plan: node, Summary: summary})
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	entries, err := h.history.List(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}
