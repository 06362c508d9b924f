package server

import (
	"net/http"
)

// tokenResponse is the body returned by every token-issuing endpoint.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleLogin handles POST /token and POST /login. Both accept a
// form-encoded username/password pair and return a bearer token; unknown
// usernames and wrong passwords are indistinguishable in the response.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if err := r.ParseForm(); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" || password == "" {
		WriteError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.app.Authenticator.AuthenticateUser(r.Context(), username, password)
	if err != nil {
		s.logger.Info().Str("username", username).Msg("Login failed")
		writeBearerChallenge(w, "Incorrect username or password")
		return
	}

	token, err := s.app.Codec.Issue(user.Username, s.app.Config.Auth.GetTokenExpiry())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to issue token")
		WriteError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
