package handler

import "github.com/ag3-team/ag3-api/internal/model"

type RegionResponse struct {
	Sido    string `json:"sido"`
	Sigungu string `json:"sigungu"`
}

type UserResponse struct {
	ID       string         `json:"id"`
	SNSType  model.SNSType  `json:"snsType"`
	Nickname string         `json:"nickname"`
	Position string         `json:"position"`
	Stacks   []string       `json:"stacks"`
	Region   RegionResponse `json:"region"`
	ImageURL string         `json:"imageURL"`
}

func newUserResponse(u model.User) UserResponse {
	stacks := u.Stacks
	if stacks == nil {
		stacks = []string{}
	}
	return UserResponse{
		ID:       u.ID,
		SNSType:  u.SNSType,
		Nickname: u.Nickname,
		Position: u.Position,
		Stacks:   stacks,
		Region:   RegionResponse{Sido: u.Sido, Sigungu: u.Sigungu},
		ImageURL: u.ImageURL,
	}
}

type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expires"`
	IsNew     bool         `json:"isNew"`
}

type ProfileResponse struct {
	User      UserResponse `json:"user"`
	Bookmarks []model.Post `json:"bookmarks"`
}

type BookmarkCountResponse struct {
	PostID        string `json:"postId"`
	BookmarkCount int64  `json:"bookmarkCount"`
}

type NicknameResponse struct {
	Nickname  string `json:"nickname"`
	Available bool   `json:"available"`
}

func nonNilPosts(posts []model.Post) []model.Post {
	if posts == nil {
		return []model.Post{}
	}
	return posts
}
