// Package service holds the business rules of the blog.
//
// Handlers parse HTTP and render pages; repositories run SQL; services sit
// between the two and decide what is allowed:
//
//	Handler (HTTP) → Service (rules) → Repository (storage)
//
// Every service depends on repository interfaces, never on *sqlite.DB, so
// unit tests run against in-memory fakes and the admin CLI reuses the same
// rules as the web server.
//
// The viewer is passed explicitly as a user id on every call that needs
// one. An empty viewer id means an anonymous request; operations that need
// a logged-in user return apperror.ErrUnauthenticated for it.
package service

import (
	"github.com/sakif/yatube/internal/apperror"
)

const (
	MaxGroupTitleLength = 200
	MaxGroupSlugLength  = 50
)

// Messages shown next to form fields.
const (
	msgRequired      = "This field is required."
	msgInvalidGroup  = "Select a valid choice. That choice is not one of the available choices."
	msgUsernameTaken = "A user with that username already exists."
	msgBadLogin      = "Please enter a correct username and password. Note that both fields may be case-sensitive."
)

func requireViewer(viewerID, action string) error {
	if viewerID == "" {
		return apperror.Unauthenticated(action)
	}
	return nil
}
