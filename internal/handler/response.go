package handler

// RESPONSE HELPERS:
// Every page goes through Pages so handlers stay short:
//
//   h.pages.render(w, r, http.StatusOK, "index.html", data)
//   h.pages.fail(w, r, err)
//
// fail is the one place where domain errors become HTTP behaviour:
//
//   apperror.ErrNotFound         → 404 page
//   apperror.ErrUnauthenticated  → 302 to the login page with ?next=
//   apperror.ErrForbidden        → 302 to the index
//   anything else                → 500 page, error logged
//
// Validation errors never reach fail; handlers put them on the form and
// render the form again with 200.

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sakif/yatube/internal/apperror"
	"github.com/sakif/yatube/internal/auth"
	"github.com/sakif/yatube/internal/form"
	"github.com/sakif/yatube/internal/model"
)

// LoginPath is where RequireLogin and fail send anonymous visitors.
const LoginPath = "/auth/login/"

// UserLookup loads the logged-in user for the page header.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// Pages renders full HTML pages and the error pages.
type Pages struct {
	renderer      Renderer
	users         UserLookup
	githubEnabled bool
	logger        *slog.Logger
}

func NewPages(renderer Renderer, users UserLookup, githubEnabled bool, logger *slog.Logger) *Pages {
	return &Pages{
		renderer:      renderer,
		users:         users,
		githubEnabled: githubEnabled,
		logger:        logger,
	}
}

// layout fills the data every page shares. A session for a user that no
// longer exists renders as anonymous.
func (p *Pages) layout(r *http.Request) Layout {
	l := Layout{GitHubEnabled: p.githubEnabled, Path: r.URL.Path}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return l
	}
	user, err := p.users.GetUserByID(r.Context(), userID)
	if err != nil {
		p.logger.Warn("session user not loaded",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return l
	}
	l.Viewer = user
	return l
}

// render executes the page into a buffer first, so a template error still
// produces a clean 500 instead of half a page.
func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, page, data); err != nil {
		p.logger.Error("failed to render template",
			slog.String("template", page),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (p *Pages) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		p.NotFound(w, r)
	case errors.Is(err, apperror.ErrUnauthenticated):
		http.Redirect(w, r, auth.LoginURL(LoginPath, r.URL.RequestURI()), http.StatusFound)
	case errors.Is(err, apperror.ErrForbidden):
		http.Redirect(w, r, "/", http.StatusFound)
	default:
		// The raw error can carry SQL or file paths; it goes to the log only.
		p.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		p.render(w, r, http.StatusInternalServerError, "500.html", ErrorPage{Layout: p.layout(r)})
	}
}

// NotFound renders the 404 page. The router uses it for unknown paths.
func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusNotFound, "404.html", ErrorPage{Layout: p.layout(r)})
}

func (p *Pages) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Warn("unreadable form",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	if errors.Is(err, form.ErrTooLarge) {
		http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, "Bad Request", http.StatusBadRequest)
}

// addFieldError copies a validation AppError onto form errors. It reports
// false for any other error, which the caller must handle.
func addFieldError(errs form.Errors, err error) bool {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrValidation) {
		return false
	}
	field := appErr.Field
	if field == "" {
		field = form.NonField
	}
	errs.Add(field, appErr.Message)
	return true
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id string) string {
	return "/posts/" + url.PathEscape(id) + "/"
}

func groupURL(slug string) string {
	return "/group/" + url.PathEscape(slug) + "/"
}
