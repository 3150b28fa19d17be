package auth

import (
	"net/http"
	"time"
)

// SlidingSession re-issues the session cookie once the token is more than
// halfway through its duration, so active users are never signed out.
// Requests without a valid cookie pass through untouched; whether a session
// is required is the handlers' call.
func (h *AuthHandler) SlidingSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(cookieName); err == nil {
			if userID, expiresAt, err := h.parseToken(cookie.Value); err == nil {
				if time.Until(expiresAt) < TokenDuration/2 {
					if token, err := h.GenerateToken(userID); err == nil {
						refreshed := h.sessionCookie(token)
						http.SetCookie(w, &refreshed)
					}
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}
