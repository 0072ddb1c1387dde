package handler

import (
	"github.com/sakif/yatube/internal/form"
	"github.com/sakif/yatube/internal/model"
	"github.com/sakif/yatube/internal/service"
)

// Layout is the data base.html needs on every page.
type Layout struct {
	Viewer        *model.User // nil for anonymous visitors
	GitHubEnabled bool
	Path          string
}

func (l Layout) LoggedIn() bool {
	return l.Viewer != nil
}

type IndexPage struct {
	Layout
	Page service.Feed
}

type GroupPage struct {
	Layout
	Group *model.Group
	Page  service.Feed
}

type ProfilePage struct {
	Layout
	Profile *service.Profile
	Page    service.Feed
}

type PostDetailPage struct {
	Layout
	Post            *model.Post
	Comments        []model.Comment
	AuthorPostCount int
	CommentForm     *form.CommentForm
	CanEdit         bool
}

// PostFormPage serves both create and edit. Post is nil on create.
type PostFormPage struct {
	Layout
	Form   *form.PostForm
	Groups []model.Group
	IsEdit bool
	Post   *model.Post
}

type FollowPage struct {
	Layout
	Page service.Feed
}

type LoginPage struct {
	Layout
	Form *form.LoginForm
}

type SignupPage struct {
	Layout
	Form *form.SignupForm
}

type StaticPage struct {
	Layout
}

type ErrorPage struct {
	Layout
}
