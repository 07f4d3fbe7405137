package web

import (
	"net/http"

	"github.com/google/uuid"

	"sitescope/storage"
)

// session returns the KV for the request's session, issuing a new session
// cookie when the request has none or carries a malformed id.
func (s *Server) session(w http.ResponseWriter, r *http.Request) storage.KV {
	if c, err := r.Cookie(s.cookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return s.sessions.Session(c.Value)
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	s.logger.Debug("[web] Issued new session %s", id)
	return s.sessions.Session(id)
}
