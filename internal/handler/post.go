package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/yatube/internal/apperror"
	"github.com/sakif/yatube/internal/auth"
	"github.com/sakif/yatube/internal/form"
	"github.com/sakif/yatube/internal/model"
	"github.com/sakif/yatube/internal/service"
)

// PostHandler serves the public feeds, the post page and the post forms.
type PostHandler struct {
	feed      *service.FeedService
	posts     *service.PostService
	groups    *service.GroupService
	pages     *Pages
	maxUpload int64
}

func NewPostHandler(
	feed *service.FeedService,
	posts *service.PostService,
	groups *service.GroupService,
	pages *Pages,
	maxUpload int64,
) *PostHandler {
	return &PostHandler{
		feed:      feed,
		posts:     posts,
		groups:    groups,
		pages:     pages,
		maxUpload: maxUpload,
	}
}

// HandleIndex serves GET /: every post, newest first.
func (h *PostHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	feed, err := h.feed.Index(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		h.pages.fail(w, r, err)
		return
	}
	h.pages.render(w, r, http.StatusOK, "index.html", IndexPage{
		Layout: h.pages.layout(r),
		Page:   feed,
	})
}

// HandleGroup serves GET /group/{slug}/.
func (h *PostHandler) HandleGroup(w http.ResponseWriter, r *http.Request) {
	group, feed, err := h.feed.Group(r.Context(), chi.URLParam(r, "slug"), r.URL.Query().Get("page"))
	if err != nil {
		h.pages.fail(w, r, err)
		return
	}
	h.pages.render(w, r, http.StatusOK, "group_list.html", GroupPage{
		Layout: h.pages.layout(r),
		Group:  group,
		Page:   feed,
	})
}

// HandleProfile serves GET /profile/{username}/.
func (h *PostHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	profile, err := h.feed.Profile(r.Context(), viewerID, chi.URLParam(r, "username"), r.URL.Query().Get("page"))
	if err != nil {
		h.pages.fail(w, r, err)
		return
	}
	h.pages.render(w, r, http.StatusOK, "profile.html", ProfilePage{
		Layout:  h.pages.layout(r),
		Profile: profile,
		Page:    profile.Posts,
	})
}

// HandleDetail serves GET /posts/{postID}/.
func (h *PostHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.posts.Detail(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		h.pages.fail(w, r, err)
		return
	}

	viewerID, _ := auth.UserIDFromContext(r.Context())
	h.pages.render(w, r, http.StatusOK, "post_detail.html", PostDetailPage{
		Layout:          h.pages.layout(r),
		Post:            detail.Post,
		Comments:        detail.Comments,
		AuthorPostCount: detail.AuthorPostCount,
		CommentForm:     &form.CommentForm{Errors: form.Errors{}},
		CanEdit:         viewerID != "" && viewerID == detail.Post.AuthorID,
	})
}

// HandleCreate serves GET and POST /create/. The route requires login.
//
// A valid submission redirects to the author's profile. Invalid input
// renders the form again with 200 and the submitted values kept.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	if r.Method != http.MethodPost {
		h.renderPostForm(w, r, &form.PostForm{Errors: form.Errors{}}, nil)
		return
	}

	f, err := form.BindPost(w, r, h.maxUpload)
	if err != nil {
		h.pages.badRequest(w, r, err)
		return
	}
	if !f.Valid() {
		h.renderPostForm(w, r, f, nil)
		return
	}

	post, err := h.posts.Create(r.Context(), viewerID, postInput(f))
	if err != nil {
		if addFieldError(f.Errors, err) {
			h.renderPostForm(w, r, f, nil)
			return
		}
		h.pages.fail(w, r, err)
		return
	}

	layout := h.pages.layout(r)
	if layout.Viewer == nil {
		http.Redirect(w, r, postURL(post.ID), http.StatusFound)
		return
	}
	http.Redirect(w, r, profileURL(layout.Viewer.Username), http.StatusFound)
}

// HandleEdit serves GET and POST /posts/{postID}/edit/. Only the author
// gets the form; anyone else is sent back to the post page.
func (h *PostHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())
	postID := chi.URLParam(r, "postID")

	post, err := h.posts.GetForEdit(r.Context(), viewerID, postID)
	if err != nil {
		h.editFailed(w, r, postID, err)
		return
	}

	if r.Method != http.MethodPost {
		h.renderPostForm(w, r, &form.PostForm{
			Text:   post.Text,
			Group:  post.GroupID,
			Errors: form.Errors{},
		}, post)
		return
	}

	f, err := form.BindPost(w, r, h.maxUpload)
	if err != nil {
		h.pages.badRequest(w, r, err)
		return
	}
	if !f.Valid() {
		h.renderPostForm(w, r, f, post)
		return
	}

	if _, err := h.posts.Update(r.Context(), viewerID, postID, postInput(f)); err != nil {
		if addFieldError(f.Errors, err) {
			h.renderPostForm(w, r, f, post)
			return
		}
		h.editFailed(w, r, postID, err)
		return
	}

	http.Redirect(w, r, postURL(postID), http.StatusFound)
}

func (h *PostHandler) editFailed(w http.ResponseWriter, r *http.Request, postID string, err error) {
	if errors.Is(err, apperror.ErrForbidden) {
		http.Redirect(w, r, postURL(postID), http.StatusFound)
		return
	}
	h.pages.fail(w, r, err)
}

// HandleComment serves POST /posts/{postID}/comment/. An unknown post is a
// 404 whatever was sent. Otherwise the visitor lands on the post page, and
// a GET only redirects.
func (h *PostHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	if err := h.posts.Exists(r.Context(), postID); err != nil {
		h.pages.fail(w, r, err)
		return
	}

	if r.Method == http.MethodPost {
		f, err := form.BindComment(r)
		if err != nil {
			h.pages.badRequest(w, r, err)
			return
		}
		if f.Valid() {
			viewerID, _ := auth.UserIDFromContext(r.Context())
			if _, err := h.posts.AddComment(r.Context(), viewerID, postID, f.Text); err != nil && !errors.Is(err, apperror.ErrValidation) {
				h.pages.fail(w, r, err)
				return
			}
		}
	}

	http.Redirect(w, r, postURL(postID), http.StatusFound)
}

func (h *PostHandler) renderPostForm(w http.ResponseWriter, r *http.Request, f *form.PostForm, post *model.Post) {
	groups, err := h.groups.List(r.Context())
	if err != nil {
		h.pages.fail(w, r, err)
		return
	}
	h.pages.render(w, r, http.StatusOK, "create_post.html", PostFormPage{
		Layout: h.pages.layout(r),
		Form:   f,
		Groups: groups,
		IsEdit: post != nil,
		Post:   post,
	})
}

func postInput(f *form.PostForm) service.PostInput {
	return service.PostInput{
		Text:       f.Text,
		GroupID:    f.Group,
		Image:      f.Image,
		ClearImage: f.ClearImage,
	}
}
