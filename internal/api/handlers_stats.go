package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleUpstreamStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "upstream stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"base_url": s.cfg.BaseURL,
		"window":   s.cfg.StatsWindow.String(),
		"stats":    s.stats.Snapshot(),
	})
}
