package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alvinwquach/sculptql-sub000/internal/querystate"
)

func (h *Handler) ListTabs(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.editor.ListTabs())
}

func (h *Handler) CreateTab(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusCreated, h.editor.CreateTab())
}

func (h *Handler) GetTab(w http.ResponseWriter, r *http.Request) {
	tab, err := h.editor.GetTab(chi.URLParam(r, "tabID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tab)
}

func (h *Handler) CloseTab(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.CloseTab(chi.URLParam(r, "tabID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TabStructuredEdit replaces a tab's query state from the form side.
// The response carries the regenerated SQL text.
func (h *Handler) TabStructuredEdit(w http.ResponseWriter, r *http.Request) {
	var st querystate.QueryState
	if !h.decode(w, r, &st) {
		return
	}
	tab, err := h.editor.StructuredEdit(chi.URLParam(r, "tabID"), st)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tab)
}

type textEditRequest struct {
	Text string `json:"text"`
}

// TabTextEdit feeds raw SQL typed by the user into a tab. The response
// carries the merged state; the text comes back exactly as typed.
func (h *Handler) TabTextEdit(w http.ResponseWriter, r *http.Request) {
	var req textEditRequest
	if !h.decode(w, r, &req) {
		return
	}
	tab, err := h.editor.TextEdit(chi.URLParam(r, "tabID"), req.Text)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tab)
}
