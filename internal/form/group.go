package form

// GroupForm validates a new group. It is filled from CLI flags, not from
// an HTTP request.
type GroupForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Slug        string `form:"slug" validate:"required,max=50,slug"`
	Description string `form:"description"`
	Errors      Errors `form:"-"`
}

// Validate fills f.Errors and reports whether the form is valid.
func (f *GroupForm) Validate() bool {
	f.Errors = check(f)
	return !f.Errors.Any()
}
