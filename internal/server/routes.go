package server

import (
	"net/http"

	"github.com/bobmcallan/copyforge/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Password grant token issuance. /login is the legacy alias the
	// frontend still posts to.
	mux.HandleFunc("/token", s.handleLogin)
	mux.HandleFunc("/login", s.handleLogin)

	// Authorization-code flow
	mux.HandleFunc("/oauth2/authorize", s.handleOAuthAuthorize)
	mux.HandleFunc("/oauth2/login", s.handleOAuthLogin)
	mux.HandleFunc("/oauth2/token", s.handleOAuthToken)

	// Text generation and storage (bearer-gated)
	mux.HandleFunc("/uploadfiles", s.requireUser(s.handleUploadFiles))
	mux.HandleFunc("/saveeditedtext", s.requireUser(s.handleSaveEditedText))
	mux.HandleFunc("/saveadditionaltext", s.requireUser(s.handleSaveAdditionalText))
	mux.HandleFunc("/gettexts", s.requireUser(s.handleGetTexts))

	// Login form assets
	if dir := s.app.Config.Server.StaticDir; dir != "" {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
