package handler

import "net/http"

// AboutHandler serves the two static pages.
type AboutHandler struct {
	pages *Pages
}

func NewAboutHandler(pages *Pages) *AboutHandler {
	return &AboutHandler{pages: pages}
}

func (h *AboutHandler) HandleAuthor(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, http.StatusOK, "about_author.html", StaticPage{Layout: h.pages.layout(r)})
}

func (h *AboutHandler) HandleTech(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, http.StatusOK, "about_tech.html", StaticPage{Layout: h.pages.layout(r)})
}
