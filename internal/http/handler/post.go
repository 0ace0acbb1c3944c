package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ag3-team/ag3-api/internal/middleware"
	"github.com/ag3-team/ag3-api/internal/service"
)

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

type regionRequest struct {
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address string   `json:"address"`
	Sido    string   `json:"sido"`
}

type postRequest struct {
	Category         string         `json:"category"`
	Title            string         `json:"title"`
	Content          string         `json:"content"`
	Stacks           []string       `json:"stacks"`
	Capacity         int            `json:"capacity"`
	Region           *regionRequest `json:"region,omitempty"`
	ExecutionPeriod  []string       `json:"executionPeriod"`
	RegisterDeadline string         `json:"registerDeadline"`
}

func (req postRequest) input() service.PostInput {
	in := service.PostInput{
		Category:         req.Category,
		Title:            req.Title,
		Content:          req.Content,
		Stacks:           req.Stacks,
		Capacity:         req.Capacity,
		ExecutionPeriod:  req.ExecutionPeriod,
		RegisterDeadline: req.RegisterDeadline,
	}
	if req.Region != nil {
		in.Region = &service.RegionInput{
			Lat:     req.Region.Lat,
			Lng:     req.Region.Lng,
			Address: req.Region.Address,
			Sido:    req.Region.Sido,
		}
	}
	return in
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context(), r.URL.Query().Get("category"), pageFromQuery(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, "posts", nonNilPosts(posts))
}

func (h *PostHandler) Detail(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.Detail(r.Context(), mux.Vars(r)["postId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, "post", post)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.svc.Create(r.Context(), middleware.GetUserID(r), req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusCreated, "post created", post)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.svc.Update(r.Context(), middleware.GetUserID(r), mux.Vars(r)["postId"], req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, "post updated", post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]
	if err := h.svc.Delete(r.Context(), middleware.GetUserID(r), postID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, "post deleted", map[string]string{"id": postID})
}
