package model

import "time"

// Group is a named community posts can be published into.
// Groups are created by an administrator and are addressed by Slug in URLs.
type Group struct {
	ID          string    `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"`
	Slug        string    `json:"slug"        db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}

func (g *Group) String() string {
	return g.Title
}
