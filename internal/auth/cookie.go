package auth

import (
	"net/http"
	"time"
)

const (
	// SessionCookie holds the signed session token.
	SessionCookie = "yatube_session"
	// StateCookie holds the OAuth state between redirect and callback.
	StateCookie = "yatube_oauth_state"
)

// SetSessionCookie stores token in an HttpOnly cookie that expires with it.
// JavaScript cannot read HttpOnly cookies, so XSS cannot steal the session.
func SetSessionCookie(w http.ResponseWriter, r *http.Request, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetStateCookie remembers the OAuth state for ten minutes, long enough to
// approve the app on GitHub.
func SetStateCookie(w http.ResponseWriter, r *http.Request, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookie,
		Value:    state,
		Path:     "/auth/github/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   StateCookie,
		Value:  "",
		Path:   "/auth/github/",
		MaxAge: -1,
	})
}
