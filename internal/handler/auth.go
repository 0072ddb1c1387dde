package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/yatube/internal/auth"
	"github.com/sakif/yatube/internal/form"
	"github.com/sakif/yatube/internal/service"
)

// GitHubLogin is the part of auth.GitHubProvider the handler uses.
type GitHubLogin interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GitHubUser, error)
}

// AuthHandler serves signup, login, logout and the optional GitHub login.
type AuthHandler struct {
	accounts *service.AuthService
	github   GitHubLogin // nil when GitHub login is not configured
	pages    *Pages
	logger   *slog.Logger
}

func NewAuthHandler(
	accounts *service.AuthService,
	github GitHubLogin,
	pages *Pages,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		github:   github,
		pages:    pages,
		logger:   logger,
	}
}

// HandleSignup serves GET and POST /auth/signup/. A new account is logged
// in straight away and sent to the index.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.renderSignup(w, r, &form.SignupForm{Errors: form.Errors{}})
		return
	}

	f, err := form.BindSignup(r)
	if err != nil {
		h.pages.badRequest(w, r, err)
		return
	}
	if !f.Valid() {
		h.renderSignup(w, r, f)
		return
	}

	res, err := h.accounts.Register(r.Context(), f.Username, f.Password)
	if err != nil {
		if addFieldError(f.Errors, err) {
			h.renderSignup(w, r, f)
			return
		}
		h.pages.fail(w, r, err)
		return
	}

	auth.SetSessionCookie(w, r, res.Token, h.accounts.SessionTTL())
	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleLogin serves GET and POST /auth/login/. After a successful login
// the visitor goes to ?next= when it is a local path, otherwise to /.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.renderLogin(w, r, &form.LoginForm{
			Next:   r.URL.Query().Get("next"),
			Errors: form.Errors{},
		})
		return
	}

	f, err := form.BindLogin(r)
	if err != nil {
		h.pages.badRequest(w, r, err)
		return
	}
	if !f.Valid() {
		h.renderLogin(w, r, f)
		return
	}

	res, err := h.accounts.Login(r.Context(), f.Username, f.Password)
	if err != nil {
		if addFieldError(f.Errors, err) {
			f.Password = ""
			h.renderLogin(w, r, f)
			return
		}
		h.pages.fail(w, r, err)
		return
	}

	auth.SetSessionCookie(w, r, res.Token, h.accounts.SessionTTL())
	http.Redirect(w, r, auth.SafeNext(f.Next, "/"), http.StatusFound)
}

// HandleLogout serves /auth/logout/. The cookie is cleared and the
// logged-out page is rendered as an anonymous visitor.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)

	layout := h.pages.layout(r)
	layout.Viewer = nil
	h.pages.render(w, r, http.StatusOK, "logged_out.html", StaticPage{Layout: layout})
}

// HandleGitHubLogin starts the OAuth flow. The state value goes into a
// short-lived cookie and comes back as a query parameter on the callback.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		h.pages.NotFound(w, r)
		return
	}

	state := auth.NewState()
	auth.SetStateCookie(w, r, state)
	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback finishes the OAuth flow:
//  1. check the state against the cookie (login CSRF)
//  2. exchange the code for the GitHub profile
//  3. find or create the local account and set the session cookie
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		h.pages.NotFound(w, r)
		return
	}

	query := r.URL.Query()

	stateCookie, err := r.Cookie(auth.StateCookie)
	if err != nil || stateCookie.Value == "" || query.Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: invalid state")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}
	auth.ClearStateCookie(w)

	if errParam := query.Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}

	code := query.Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusBadGateway)
		return
	}

	res, err := h.accounts.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		h.pages.fail(w, r, err)
		return
	}

	auth.SetSessionCookie(w, r, res.Token, h.accounts.SessionTTL())
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) renderSignup(w http.ResponseWriter, r *http.Request, f *form.SignupForm) {
	h.pages.render(w, r, http.StatusOK, "signup.html", SignupPage{Layout: h.pages.layout(r), Form: f})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, f *form.LoginForm) {
	h.pages.render(w, r, http.StatusOK, "login.html", LoginPage{Layout: h.pages.layout(r), Form: f})
}
