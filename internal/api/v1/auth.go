package v1

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const sessionCookieName = "session"

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if s.deps.Admin == nil {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Admin API not configured")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	if !s.credentialsMatch(req.Username, req.Password) {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Bad username or password")
		return
	}

	token, err := s.deps.Sessions.Create()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SESSION_ERROR", err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && s.deps.Sessions != nil {
		s.deps.Sessions.Destroy(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// credentialsMatch verifies the login against the configured admin
// credentials. The stored password is a bcrypt hash when it carries the
// bcrypt prefix, a plain value otherwise.
func (s *Server) credentialsMatch(username, password string) bool {
	admin := s.deps.Admin

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(admin.Username)) == 1

	var passOK bool
	if strings.HasPrefix(admin.Password, "$2a$") || strings.HasPrefix(admin.Password, "$2b$") || strings.HasPrefix(admin.Password, "$2y$") {
		passOK = bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(admin.Password)) == 1
	}

	return userOK && passOK
}
