// Package api exposes the query builder over HTTP: editor tabs with
// structured and text edits, stateless render/parse endpoints, schema
// introspection, query execution, and history.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alvinwquach/sculptql-sub000/internal/service"
)

// Handler holds the services behind the HTTP surface.
type Handler struct {
	editor  *service.EditorService
	query   *service.QueryService
	history *service.HistoryService
	logger  *slog.Logger
}

func NewHandler(editor *service.EditorService, query *service.QueryService, hist *service.HistoryService, logger *slog.Logger) *Handler {
	return &Handler{editor: editor, query: query, history: hist, logger: logger}
}

// Routes mounts every endpoint on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/schema", h.GetSchema)
	r.Post("/render", h.RenderState)
	r.Post("/parse", h.ParseText)

	r.Route("/tabs", func(r chi.Router) {
		r.Get("/", h.ListTabs)
		r.Post("/", h.CreateTab)
		r.Route("/{tabID}", func(r chi.Router) {
			r.Get("/", h.GetTab)
			r.Delete("/", h.CloseTab)
			r.Put("/state", h.TabStructuredEdit)
			r.Put("/text", h.TabTextEdit)
		})
	})

	r.Post("/query", h.ExecuteQuery)
	r.Post("/explain", h.ExplainQuery)
	r.Get("/history", h.ListHistory)
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := httpStatusFromDomainError(err)
	h.writeJSON(w, code, errorResponse{Code: code, Message: err.Error()})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "invalid request body: " + err.Error(),
		})
		return false
	}
	return true
}
