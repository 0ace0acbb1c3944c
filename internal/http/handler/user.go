package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ag3-team/ag3-api/internal/middleware"
	"github.com/ag3-team/ag3-api/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type profileRequest struct {
	Nickname string   `json:"nickname"`
	Position string   `json:"position"`
	Stacks   []string `json:"stacks"`
	Region   struct {
		Sido    string `json:"sido"`
		Sigungu string `json:"sigungu"`
	} `json:"region"`
	ImageURL string `json:"imageURL"`
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context(), middleware.GetUserID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, "profile", ProfileResponse{
		User:      newUserResponse(profile.User),
		Bookmarks: nonNilPosts(profile.Bookmarks),
	})
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), middleware.GetUserID(r), service.ProfileInput{
		Nickname: req.Nickname,
		Position: req.Position,
		Stacks:   req.Stacks,
		Sido:     req.Region.Sido,
		Sigungu:  req.Region.Sigungu,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, "profile updated", newUserResponse(user))
}

// CheckNickname answers 200 when the nickname is free and 409 when taken.
func (h *UserHandler) CheckNickname(w http.ResponseWriter, r *http.Request) {
	nickname := mux.Vars(r)["nickname"]
	available, err := h.svc.NicknameAvailable(r.Context(), nickname)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !available {
		writeServiceError(w, r, fmt.Errorf("%w: %q", service.ErrDuplicateNickname, nickname))
		return
	}
	WriteData(w, http.StatusOK, "nickname available", NicknameResponse{Nickname: nickname, Available: true})
}
