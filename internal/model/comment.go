package model

import "time"

// Comment is a reader's reply attached to a post. Comments are never edited.
type Comment struct {
	ID        string    `json:"id"        db:"id"`
	PostID    string    `json:"postId"    db:"post_id"`
	AuthorID  string    `json:"authorId"  db:"author_id"`
	Text      string    `json:"text"      db:"text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Author *User `json:"author,omitempty"`
}
