package model

import "time"

// Follow is a directed subscription: UserID receives AuthorID's posts in
// their follow feed.
type Follow struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	AuthorID  string    `json:"authorId"  db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
