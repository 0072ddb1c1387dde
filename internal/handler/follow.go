package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/yatube/internal/auth"
	"github.com/sakif/yatube/internal/service"
)

// FollowHandler serves the follow feed and the follow/unfollow links.
// Every route requires login.
type FollowHandler struct {
	feed    *service.FeedService
	follows *service.FollowService
	pages   *Pages
}

func NewFollowHandler(feed *service.FeedService, follows *service.FollowService, pages *Pages) *FollowHandler {
	return &FollowHandler{feed: feed, follows: follows, pages: pages}
}

// HandleFeed serves GET /follow/.
func (h *FollowHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	feed, err := h.feed.Follow(r.Context(), viewerID, r.URL.Query().Get("page"))
	if err != nil {
		h.pages.fail(w, r, err)
		return
	}
	h.pages.render(w, r, http.StatusOK, "follow.html", FollowPage{
		Layout: h.pages.layout(r),
		Page:   feed,
	})
}

// HandleFollow serves GET /profile/{username}/follow/.
func (h *FollowHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	author, err := h.follows.Follow(r.Context(), viewerID, chi.URLParam(r, "username"))
	if err != nil {
		h.pages.fail(w, r, err)
		return
	}
	http.Redirect(w, r, profileURL(author.Username), http.StatusFound)
}

// HandleUnfollow serves GET /profile/{username}/unfollow/.
func (h *FollowHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	author, err := h.follows.Unfollow(r.Context(), viewerID, chi.URLParam(r, "username"))
	if err != nil {
		h.pages.fail(w, r, err)
		return
	}
	http.Redirect(w, r, profileURL(author.Username), http.StatusFound)
}
