package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ag3-team/ag3-api/internal/http/handler"
	"github.com/ag3-team/ag3-api/internal/model"
	"github.com/ag3-team/ag3-api/internal/repository"
	"github.com/ag3-team/ag3-api/internal/service"
)

func newBookmarkHandler(repo *mockBookmarkRepo) *handler.BookmarkHandler {
	return handler.NewBookmarkHandler(service.NewBookmarkService(repo))
}

func TestBookmarkHandler_Add(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		wantStatus int
		wantCode   string
	}{
		{"added", nil, http.StatusCreated, ""},
		{"already bookmarked", repository.ErrDuplicateBookmark, http.StatusConflict, "ALREADY_BOOKMARKED"},
		{"missing post", repository.ErrNotFound, http.StatusNotFound, "POST_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookmarkRepo{
				addFn: func(ctx context.Context, userID, postID string) (int64, error) {
					if userID != "user-1" || postID != "post-1" {
						t.Errorf("unexpected pair %s/%s", userID, postID)
					}
					return 3, tt.repoErr
				},
			}
			req := withVars(withUser(newRequest(http.MethodPost, "/users/bookmarks/post-1", ""), "user-1"),
				map[string]string{"postId": "post-1"})
			w := httptest.NewRecorder()

			newBookmarkHandler(repo).Add(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			env := decodeEnvelope(t, w.Body)
			if tt.wantCode != "" {
				if env.Error.Code != tt.wantCode {
					t.Errorf("expected code %s, got %s", tt.wantCode, env.Error.Code)
				}
				return
			}
			var count handler.BookmarkCountResponse
			if err := json.Unmarshal(env.Data, &count); err != nil {
				t.Fatalf("failed to decode data: %v", err)
			}
			if count.BookmarkCount != 3 || count.PostID != "post-1" {
				t.Errorf("unexpected count response: %+v", count)
			}
		})
	}
}

func TestBookmarkHandler_Remove(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		wantStatus int
	}{
		{"removed", nil, http.StatusOK},
		{"not bookmarked", repository.ErrNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookmarkRepo{
				removeFn: func(ctx context.Context, userID, postID string) (int64, error) {
					return 0, tt.repoErr
				},
			}
			req := withVars(withUser(newRequest(http.MethodDelete, "/users/bookmarks/post-1", ""), "user-1"),
				map[string]string{"postId": "post-1"})
			w := httptest.NewRecorder()

			newBookmarkHandler(repo).Remove(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestBookmarkHandler_List(t *testing.T) {
	var got model.BookmarkListParams
	repo := &mockBookmarkRepo{
		listFn: func(ctx context.Context, params model.BookmarkListParams) ([]model.Post, error) {
			got = params
			return []model.Post{samplePost()}, nil
		},
	}
	req := withUser(newRequest(http.MethodGet, "/users/bookmarks?category=project&page=2", ""), "user-1")
	w := httptest.NewRecorder()

	newBookmarkHandler(repo).List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got.UserID != "user-1" || got.Category != model.CategoryProject || got.Page.Page != 2 {
		t.Errorf("unexpected params: %+v", got)
	}
	var posts []model.Post
	if err := json.Unmarshal(decodeEnvelope(t, w.Body).Data, &posts); err != nil {
		t.Fatalf("failed to decode posts: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("expected 1 post, got %d", len(posts))
	}
}
