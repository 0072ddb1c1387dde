package model

import "time"

// postPreviewLength is how many characters of the text String() shows.
const postPreviewLength = 15

// Post is a user-authored text entry, optionally grouped and illustrated.
//
// Author and Group are populated by the repository when a post is read;
// writes only look at AuthorID and GroupID. GroupID is empty when the post
// belongs to no group. Image holds a storage key, not a URL.
type Post struct {
	ID       string    `json:"id"       db:"id"`
	Text     string    `json:"text"     db:"text"`
	PubDate  time.Time `json:"pubDate"  db:"pub_date"`
	AuthorID string    `json:"authorId" db:"author_id"`
	GroupID  string    `json:"groupId"  db:"group_id"`
	Image    string    `json:"image"    db:"image"`

	Author *User  `json:"author,omitempty"`
	Group  *Group `json:"group,omitempty"`
}

// String returns the first characters of the post text.
func (p *Post) String() string {
	runes := []rune(p.Text)
	if len(runes) <= postPreviewLength {
		return p.Text
	}
	return string(runes[:postPreviewLength])
}

// HasGroup reports whether the post was published into a group.
func (p *Post) HasGroup() bool {
	return p.GroupID != ""
}
