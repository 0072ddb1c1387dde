package form

import (
	"fmt"
	"net/http"
)

type CommentForm struct {
	Text   string `form:"text" validate:"required"`
	Errors Errors `form:"-"`
}

func BindComment(r *http.Request) (*CommentForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("form: parsing comment form: %w", err)
	}
	f := &CommentForm{Text: value(r, "text")}
	f.Errors = check(f)
	return f, nil
}

func (f *CommentForm) Valid() bool {
	return !f.Errors.Any()
}
