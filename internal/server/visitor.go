package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/pagefx/pkg/pref"
)

type visitorKey struct{}

// visitor ensures every request carries a visitor id, issuing a cookie
// when the request has none or an unparseable one.
func (s *Server) visitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(s.cfg.Pref.CookieName); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, s.visitorCookie(r, id))
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), visitorKey{}, id)))
	})
}

func (s *Server) visitorCookie(r *http.Request, id string) *http.Cookie {
	c := &http.Cookie{
		Name:     s.cfg.Pref.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl := s.cfg.PrefTTL(); ttl > 0 {
		c.MaxAge = int(ttl / time.Second)
	}
	return c
}

// visitorID returns the id set by the visitor middleware.
func visitorID(ctx context.Context) string {
	id, _ := ctx.Value(visitorKey{}).(string)
	return id
}

// prefs returns the store scoped to the request's visitor.
func (s *Server) prefs(r *http.Request) pref.Store {
	return pref.Scope(s.store, visitorID(r.Context())+":")
}
