package middleware

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/sakif/yatube/internal/cache"
)

// CachedPage is a stored 200 response.
type CachedPage struct {
	Header http.Header
	Body   []byte
}

// PageCache is the store CachePage reads and writes.
type PageCache = cache.TTL[CachedPage]

// NewPageCache returns a page store; entries expire after the TTL given.
var NewPageCache = cache.New[CachedPage]

// CachePage serves repeated GETs of the same URL from store until the
// entry expires. The key includes the session cookie, so every viewer gets
// their own copy and nobody sees another user's header. Only 200 responses
// are stored.
func CachePage(store *PageCache, sessionCookie string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			key := r.URL.RequestURI()
			if c, err := r.Cookie(sessionCookie); err == nil {
				key += "|" + c.Value
			}

			if page, ok := store.Get(key); ok {
				for k, v := range page.Header {
					w.Header()[k] = v
				}
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				if r.Method == http.MethodGet {
					w.Write(page.Body)
				}
				return
			}

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK && r.Method == http.MethodGet {
				store.Set(key, CachedPage{
					Header: w.Header().Clone(),
					Body:   rec.body.Bytes(),
				})
				logger.Debug("page cached", slog.String("key", r.URL.RequestURI()))
			}
		})
	}
}

// recordingWriter passes the response through while keeping a copy.
type recordingWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}
