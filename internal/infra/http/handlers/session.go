package handlers

import (
	"net/http"

	"github.com/xavierca1/lead-pipeline/internal/pipeline"
)

// SessionCookie carries the viewer's pipeline session id.
const SessionCookie = "pipeline_session"

// resolveSession returns the caller's session, starting a new one when the
// cookie is missing or the session expired. The returned cookie is non-nil
// when it must be sent back.
func resolveSession(store *pipeline.Store, r *http.Request) (*pipeline.Session, *http.Cookie) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := store.Session(c.Value); ok {
			return sess, nil
		}
	}

	sess := store.NewSession()
	return sess, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func sessionFor(store *pipeline.Store, w http.ResponseWriter, r *http.Request) *pipeline.Session {
	sess, cookie := resolveSession(store, r)
	if cookie != nil {
		http.SetCookie(w, cookie)
	}
	return sess
}
