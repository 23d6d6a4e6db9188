package server

import (
	"net/http"

	"github.com/alfredjeanlab/confighelper/internal/buildinfo"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// handleHealth handles GET /api/health. It reads only in-memory build data.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Uptime:  buildinfo.Uptime().String(),
	})
}

// handleInit handles GET /api/init.
func (s *Server) handleInit(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}
