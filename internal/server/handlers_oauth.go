package server

import (
	"net/http"
	"net/url"
)

// --- Authorization Endpoint ---

// handleOAuthAuthorize handles GET /oauth2/authorize — the entry point of the
// authorization-code flow. The client_id and redirect_uri are validated
// before anything else; an unknown client or unregistered redirect_uri MUST
// NOT be redirected to, so those fail with a direct 400. On success the
// browser is sent to the hosted login form with the request parameters
// carried through.
func (s *Server) handleOAuthAuthorize(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	clientID := q.Get("client_id")
	redirectURI := q.Get("redirect_uri")
	responseType := q.Get("response_type")
	state := q.Get("state")

	if !s.verifyClientAndRedirect(w, r, clientID, redirectURI) {
		return
	}

	loginURL := url.URL{Path: "/static/login.html"}
	lq := loginURL.Query()
	lq.Set("client_id", clientID)
	lq.Set("redirect_uri", redirectURI)
	lq.Set("response_type", responseType)
	lq.Set("state", state)
	loginURL.RawQuery = lq.Encode()

	http.Redirect(w, r, loginURL.String(), http.StatusFound)
}

// --- Login Endpoint ---

// handleOAuthLogin handles POST /oauth2/login — the credential submission
// from the login form. The client_id/redirect_uri pair is re-validated here
// rather than trusted from the form, since the form fields are
// caller-controlled. A valid submission binds a fresh single-use code to
// (user, client, redirect_uri) and sends the browser back to the client.
func (s *Server) handleOAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if err := r.ParseForm(); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	clientID := r.FormValue("client_id")
	redirectURI := r.FormValue("redirect_uri")
	responseType := r.FormValue("response_type")
	state := r.FormValue("state")

	if !s.verifyClientAndRedirect(w, r, clientID, redirectURI) {
		return
	}

	if responseType != "code" {
		WriteError(w, http.StatusBadRequest, "Unsupported response type")
		return
	}

	user, err := s.app.Authenticator.AuthenticateUser(r.Context(), username, password)
	if err != nil {
		s.logger.Info().Str("username", username).Msg("Authorization login failed")
		writeBearerChallenge(w, "Incorrect username or password")
		return
	}

	code, err := s.app.Codes.Issue(r.Context(), user.Username, clientID, redirectURI)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to issue authorization code")
		WriteError(w, http.StatusInternalServerError, "failed to issue authorization code")
		return
	}

	u, err := url.Parse(redirectURI)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid redirect_uri")
		return
	}
	rq := u.Query()
	rq.Set("code", code)
	rq.Set("state", state)
	u.RawQuery = rq.Encode()

	http.Redirect(w, r, u.String(), http.StatusFound)
}

// verifyClientAndRedirect validates the client_id and redirect_uri against
// the registered client. Matching is exact string comparison against the
// registered URIs. Returns false with a 400 already written on failure.
func (s *Server) verifyClientAndRedirect(w http.ResponseWriter, r *http.Request, clientID, redirectURI string) bool {
	if clientID == "" || redirectURI == "" {
		WriteError(w, http.StatusBadRequest, "Invalid client or redirect URI")
		return false
	}
	client, err := s.app.Storage.OAuthStore().GetClient(r.Context(), clientID)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid client or redirect URI")
		return false
	}
	for _, uri := range client.RedirectURIs {
		if uri == redirectURI {
			return true
		}
	}
	WriteError(w, http.StatusBadRequest, "Invalid client or redirect URI")
	return false
}

// --- Token Endpoint ---

// handleOAuthToken handles POST /oauth2/token — exchange an authorization
// code for a bearer token. Every ledger failure (unknown code, expired code,
// client or redirect_uri mismatch) collapses to invalid_grant so a caller
// cannot probe which check failed.
func (s *Server) handleOAuthToken(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "invalid form data")
		return
	}

	if grantType := r.FormValue("grant_type"); grantType != "authorization_code" {
		writeOAuthError(w, http.StatusBadRequest, "unsupported_grant_type", "grant_type must be 'authorization_code'")
		return
	}

	code := r.FormValue("code")
	clientID := r.FormValue("client_id")
	clientSecret := r.FormValue("client_secret")
	redirectURI := r.FormValue("redirect_uri")

	if code == "" || clientID == "" || clientSecret == "" || redirectURI == "" {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "code, client_id, client_secret, and redirect_uri are all required")
		return
	}

	ctx := r.Context()

	if err := s.app.Authenticator.AuthenticateClient(ctx, clientID, clientSecret); err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_client", "invalid client credentials")
		return
	}

	subject, err := s.app.Codes.Redeem(ctx, code, clientID, redirectURI)
	if err != nil {
		s.logger.Info().Err(err).Str("client_id", clientID).Msg("Code redemption failed")
		writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "invalid authorization code")
		return
	}

	token, err := s.app.Codec.Issue(subject, s.app.Config.Auth.GetTokenExpiry())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign access token")
		writeOAuthError(w, http.StatusInternalServerError, "server_error", "failed to generate access token")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
