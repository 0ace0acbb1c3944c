package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ag3-team/ag3-api/internal/middleware"
	"github.com/ag3-team/ag3-api/internal/service"
)

type BookmarkHandler struct {
	svc *service.BookmarkService
}

func NewBookmarkHandler(svc *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{svc: svc}
}

func (h *BookmarkHandler) Add(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]
	count, err := h.svc.Add(r.Context(), middleware.GetUserID(r), postID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusCreated, "bookmark added", BookmarkCountResponse{PostID: postID, BookmarkCount: count})
}

func (h *BookmarkHandler) Remove(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]
	count, err := h.svc.Remove(r.Context(), middleware.GetUserID(r), postID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, "bookmark removed", BookmarkCountResponse{PostID: postID, BookmarkCount: count})
}

func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context(), middleware.GetUserID(r), r.URL.Query().Get("category"), pageFromQuery(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, "bookmarks", nonNilPosts(posts))
}
