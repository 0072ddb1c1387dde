package form

import (
	"fmt"
	"net/http"
	"strings"
)

// SignupForm creates a password account. The username rules match what
// the login form and profile URLs accept.
type SignupForm struct {
	Username        string `form:"username" validate:"required,max=150,username"`
	Password        string `form:"password1" validate:"required,min=8,max=72"`
	PasswordConfirm string `form:"password2" validate:"required,eqfield=Password"`
	Errors          Errors `form:"-"`
}

func BindSignup(r *http.Request) (*SignupForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("form: parsing signup form: %w", err)
	}
	// Passwords are taken verbatim; leading spaces are part of the secret.
	f := &SignupForm{
		Username:        value(r, "username"),
		Password:        r.PostFormValue("password1"),
		PasswordConfirm: r.PostFormValue("password2"),
	}
	f.Errors = check(f)
	return f, nil
}

func (f *SignupForm) Valid() bool {
	return !f.Errors.Any()
}

// Validate checks a form filled from somewhere other than a request, such
// as CLI flags.
func (f *SignupForm) Validate() bool {
	f.Username = strings.TrimSpace(f.Username)
	f.Errors = check(f)
	return f.Valid()
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
	Errors   Errors `form:"-"`
}

func BindLogin(r *http.Request) (*LoginForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("form: parsing login form: %w", err)
	}
	f := &LoginForm{
		Username: value(r, "username"),
		Password: r.PostFormValue("password"),
		Next:     r.FormValue("next"),
	}
	f.Errors = check(f)
	return f, nil
}

func (f *LoginForm) Valid() bool {
	return !f.Errors.Any()
}
