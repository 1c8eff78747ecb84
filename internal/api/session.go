package api

import (
	"net/http"

	"github.com/cerditos-farm/cerditos/internal/app/session"
)

// handleLogin exchanges the farm password for a session token.
// POST /api/session {"password": "..."}
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	sess, err := s.sessions.Login(req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, sess)
}

// handleLogout revokes the caller's session.
// DELETE /api/session
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := session.FromContext(r.Context()); ok && !sess.Demo {
		s.sessions.Logout(sess.Token)
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}
