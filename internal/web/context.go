package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/autoimmunedb/internal/core"
	"github.com/JonMunkholm/autoimmunedb/internal/logging"
	"github.com/JonMunkholm/autoimmunedb/internal/session"
)

type ctxKey struct{}

// withSession attaches the browser's session to the request context,
// issuing a new session cookie when the client has none or it expired.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
			id = c.Value
		}

		sess, created := s.sessions.Ensure(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     s.cfg.Session.CookieName,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.cfg.Session.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, sess)
		ctx = core.ContextWithSessionID(ctx, sess.ID)
		logging.Annotate(ctx, "session_id", sess.ID, "session_new", created)
		if created {
			logging.FromContext(ctx).Debug("session created")
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session attached by withSession.
func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(ctxKey{}).(*session.Session)
	return sess
}
