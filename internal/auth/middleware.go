package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// contextKey is unexported so no other package can read or shadow the
// viewer id stored in the request context.
type contextKey string

const userIDKey contextKey = "userID"

// OptionalAuth identifies the viewer from the session cookie when it holds
// a valid token. Anonymous requests pass through untouched; an invalid or
// expired cookie is treated as anonymous.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil && userID != "" {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireLogin must run after OptionalAuth. Anonymous requests get a 302 to
// loginPath with ?next= set to the page they asked for; the wrapped handler
// never runs.
func RequireLogin(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserIDFromContext(r.Context()); !ok {
				http.Redirect(w, r, LoginURL(loginPath, r.URL.RequestURI()), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginURL builds "<loginPath>?next=<next>". Slashes in next stay readable:
// /auth/login/?next=/create/
func LoginURL(loginPath, next string) string {
	if next == "" {
		return loginPath
	}
	escaped := strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
	return loginPath + "?next=" + escaped
}

// SafeNext returns next when it is a local absolute path and fallback
// otherwise, so ?next= cannot bounce users to another site.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return fallback
	}
	// "//host" and "/\host" are scheme-relative in browsers.
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}

// WithUserID returns a copy of ctx carrying userID as the viewer.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns ("", false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
