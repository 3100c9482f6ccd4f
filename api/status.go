package api

import (
	"net/http"
	"time"
)

type statusResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	Version     string `json:"version"`
	HistorySize int    `json:"history_size"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:  "ok",
		Uptime:  time.Since(s.StartTime).Truncate(time.Second).String(),
		Version: s.Version,
	}
	if h := s.Service.History(); h != nil {
		entries, err := h.List(r.Context())
		if err != nil {
			s.Log.Warn("status: history unavailable", "error", err)
		}
		resp.HistorySize = len(entries)
	}

	writeJSON(w, http.StatusOK, resp)
}
