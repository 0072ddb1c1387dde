package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoViewer writes the viewer id, or "anonymous".
var echoViewer = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if id, ok := UserIDFromContext(r.Context()); ok {
		w.Write([]byte(id))
		return
	}
	w.Write([]byte("anonymous"))
})

func TestOptionalAuth(t *testing.T) {
	ts := newTestTokenService(t)
	valid, err := ts.Generate("user-1")
	require.NoError(t, err)
	expired, err := ts.GenerateWithDuration("user-1", -time.Second)
	require.NoError(t, err)

	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{"no cookie", "", "anonymous"},
		{"valid token", valid, "user-1"},
		{"expired token", expired, "anonymous"},
		{"garbage", "garbage", "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			OptionalAuth(ts)(echoViewer).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestRequireLogin_RedirectsAnonymous(t *testing.T) {
	called := false
	h := RequireLogin("/auth/login/")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/create/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, called, "handler must not run for anonymous requests")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login/?next=/create/", rec.Header().Get("Location"))
}

func TestRequireLogin_KeepsQueryInNext(t *testing.T) {
	h := RequireLogin("/auth/login/")(echoViewer)

	req := httptest.NewRequest(http.MethodGet, "/follow/?page=2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "/auth/login/?next=/follow/%3Fpage%3D2", rec.Header().Get("Location"))
}

func TestRequireLogin_PassesAuthenticated(t *testing.T) {
	h := RequireLogin("/auth/login/")(echoViewer)

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	req = req.WithContext(WithUserID(req.Context(), "user-7"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-7", rec.Body.String())
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next, want string
	}{
		{"", "/"},
		{"/create/", "/create/"},
		{"/follow/?page=2", "/follow/?page=2"},
		{"https://evil.example/", "/"},
		{"//evil.example/", "/"},
		{`/\evil.example`, "/"},
		{"relative/path", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeNext(tt.next, "/"), "SafeNext(%q)", tt.next)
	}
}

func TestUserIDFromContext_EmptyIsAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserIDFromContext(WithUserID(req.Context(), ""))
	assert.False(t, ok)
}

func TestSessionCookies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	SetSessionCookie(rec, req, "tok", DefaultSessionTTL)
	set := rec.Result().Cookies()
	require.Len(t, set, 1)
	assert.Equal(t, SessionCookie, set[0].Name)
	assert.Equal(t, "tok", set[0].Value)
	assert.True(t, set[0].HttpOnly)
	assert.Equal(t, int(DefaultSessionTTL.Seconds()), set[0].MaxAge)

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "", cleared[0].Value)
	assert.True(t, cleared[0].MaxAge < 0)
}
