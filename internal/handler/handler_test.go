package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/yatube/internal/auth"
	"github.com/sakif/yatube/internal/model"
	"github.com/sakif/yatube/internal/repository"
	"github.com/sakif/yatube/internal/repository/sqlite"
	"github.com/sakif/yatube/internal/service"
	"github.com/sakif/yatube/internal/storage"
)

// smallGIF is a valid 1x1 GIF.
var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

// captureRenderer records the last page rendered instead of producing HTML.
// The body is just the page name.
type captureRenderer struct {
	page string
	data any
}

func (c *captureRenderer) Render(w io.Writer, page string, data any) error {
	c.page = page
	c.data = data
	_, err := io.WriteString(w, page)
	return err
}

// testEnv is a full handler stack on an in-memory database.
type testEnv struct {
	t        *testing.T
	db       *sqlite.DB
	renderer *captureRenderer
	mediaDir string

	accounts *service.AuthService
	groups   *service.GroupService
	posts    *service.PostService

	postHandler   *PostHandler
	followHandler *FollowHandler
	aboutHandler  *AboutHandler
	authHandler   *AuthHandler
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithGitHub(t, nil)
}

func newTestEnvWithGitHub(t *testing.T, github GitHubLogin) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mediaDir := t.TempDir()
	images, err := storage.NewLocalStore(mediaDir, "/media/")
	require.NoError(t, err)

	tokens, err := auth.NewTokenService("test-secret-that-is-long-enough-for-hmac", 0)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	feed := service.NewFeedService(db, db, db, db, 10, logger)
	posts := service.NewPostService(db, db, db, images, logger)
	groups := service.NewGroupService(db, logger)
	follows := service.NewFollowService(db, db, logger)
	accounts := service.NewAuthService(db, tokens, auth.NewPasswordServiceForTest(bcrypt.MinCost), logger)

	renderer := &captureRenderer{}
	pages := NewPages(renderer, accounts, github != nil, logger)

	return &testEnv{
		t:             t,
		db:            db,
		renderer:      renderer,
		mediaDir:      mediaDir,
		accounts:      accounts,
		groups:        groups,
		posts:         posts,
		postHandler:   NewPostHandler(feed, posts, groups, pages, 0),
		followHandler: NewFollowHandler(feed, follows, pages),
		aboutHandler:  NewAboutHandler(pages),
		authHandler:   NewAuthHandler(accounts, github, pages, logger),
	}
}

func (e *testEnv) user(username string) *model.User {
	e.t.Helper()
	u, err := e.accounts.CreateUser(context.Background(), username, "password-123")
	require.NoError(e.t, err)
	return u
}

func (e *testEnv) group(slug string) *model.Group {
	e.t.Helper()
	g, err := e.groups.Create(context.Background(), "Group "+slug, slug, "")
	require.NoError(e.t, err)
	return g
}

func (e *testEnv) post(author *model.User, text, groupID string) *model.Post {
	e.t.Helper()
	p, err := e.posts.Create(context.Background(), author.ID, service.PostInput{Text: text, GroupID: groupID})
	require.NoError(e.t, err)
	return p
}

func (e *testEnv) postCount() int {
	e.t.Helper()
	n, err := e.db.CountPosts(context.Background(), repository.PostFilter{})
	require.NoError(e.t, err)
	return n
}

func (e *testEnv) commentCount(postID string) int {
	e.t.Helper()
	comments, err := e.db.ListCommentsByPost(context.Background(), postID)
	require.NoError(e.t, err)
	return len(comments)
}

// req describes one request to a handler.
type req struct {
	method string
	target string
	viewer *model.User
	params map[string]string // chi URL params
	form   url.Values
	body   io.Reader // overrides form
	ctype  string

	cookies []*http.Cookie
}

// serve runs h for rq the way the router would: URL params in the chi
// route context and the viewer id from the session middleware.
func serve(h http.HandlerFunc, rq req) *httptest.ResponseRecorder {
	method := rq.method
	if method == "" {
		method = http.MethodGet
	}

	body := rq.body
	ctype := rq.ctype
	if body == nil && rq.form != nil {
		body = strings.NewReader(rq.form.Encode())
		ctype = "application/x-www-form-urlencoded"
	}

	r := httptest.NewRequest(method, rq.target, body)
	if ctype != "" {
		r.Header.Set("Content-Type", ctype)
	}
	for _, c := range rq.cookies {
		r.AddCookie(c)
	}

	rctx := chi.NewRouteContext()
	for k, v := range rq.params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	if rq.viewer != nil {
		ctx = auth.WithUserID(ctx, rq.viewer.ID)
	}

	rec := httptest.NewRecorder()
	h(rec, r.WithContext(ctx))
	return rec
}

// multipartBody builds a post form with an optional image file.
func multipartBody(t *testing.T, fields map[string]string, filename string, file []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			return c
		}
	}
	return nil
}
