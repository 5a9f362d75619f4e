package security

import (
	"net/http"
	"time"
)

// SessionCookies writes and reads the session token cookie.
type SessionCookies struct {
	name     string
	domain   string
	secure   bool
	lifetime time.Duration
}

func NewSessionCookies(name, domain string, secure bool, lifetime time.Duration) *SessionCookies {
	return &SessionCookies{
		name:     name,
		domain:   domain,
		secure:   secure,
		lifetime: lifetime,
	}
}

func (sc *SessionCookies) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sc.name,
		Value:    token,
		Path:     "/",
		Domain:   sc.domain,
		HttpOnly: true,
		MaxAge:   int(sc.lifetime.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   sc.secure,
	})
}

func (sc *SessionCookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sc.name,
		Value:    "",
		Path:     "/",
		Domain:   sc.domain,
		HttpOnly: true,
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		Secure:   sc.secure,
	})
}

// Token reads the session token from the request: Authorization bearer
// header first (for API and WebSocket clients), then the cookie.
func (sc *SessionCookies) Token(r *http.Request) string {
	const bearerPrefix = "Bearer "

	if auth := r.Header.Get("Authorization"); len(auth) > len(bearerPrefix) && auth[:len(bearerPrefix)] == bearerPrefix {
		return auth[len(bearerPrefix):]
	}

	cookie, err := r.Cookie(sc.name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
