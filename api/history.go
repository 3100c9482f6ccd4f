package api

import (
	"net/http"

	"github.com/openclaw/qrforge/store"
)

type historyResponse struct {
	History []store.Entry `json:"history"`
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	h := s.Service.History()
	if h == nil {
		writeJSON(w, http.StatusOK, historyResponse{History: []store.Entry{}})
		return
	}

	entries, err := h.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []store.Entry{}
	}
	writeJSON(w, http.StatusOK, historyResponse{History: entries})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if h := s.Service.History(); h != nil {
		if err := h.Clear(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
