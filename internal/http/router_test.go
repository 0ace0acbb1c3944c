package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ag3http "github.com/ag3-team/ag3-api/internal/http"
	"github.com/ag3-team/ag3-api/internal/http/handler"
	"github.com/ag3-team/ag3-api/internal/middleware"
	"github.com/ag3-team/ag3-api/internal/model"
	"github.com/ag3-team/ag3-api/internal/oauth"
	"github.com/ag3-team/ag3-api/internal/repository"
	"github.com/ag3-team/ag3-api/internal/service"
	"github.com/ag3-team/ag3-api/internal/session"
)

// stubPosts knows no posts.
type stubPosts struct{}

func (stubPosts) Create(ctx context.Context, post model.Post) (model.Post, error) {
	post.ID = "post-1"
	return post, nil
}
func (stubPosts) GetByID(ctx context.Context, postID string) (model.Post, error) {
	return model.Post{}, repository.ErrNotFound
}
func (stubPosts) IncrementViews(ctx context.Context, postID string) (model.Post, error) {
	return model.Post{}, repository.ErrNotFound
}
func (stubPosts) Update(ctx context.Context, post model.Post) (model.Post, error) {
	return model.Post{}, repository.ErrNotFound
}
func (stubPosts) Delete(ctx context.Context, authorID, postID string) error {
	return repository.ErrNotFound
}
func (stubPosts) List(ctx context.Context, params model.PostListParams) ([]model.Post, error) {
	return []model.Post{}, nil
}

type stubUsers struct{}

func (stubUsers) Create(ctx context.Context, user model.User) (model.User, error) {
	user.ID = "user-1"
	return user, nil
}
func (stubUsers) GetByID(ctx context.Context, userID string) (model.User, error) {
	return model.User{ID: userID, Nickname: "CalmFox0007"}, nil
}
func (stubUsers) GetBySNS(ctx context.Context, snsType model.SNSType, snsID string) (model.User, error) {
	return model.User{}, repository.ErrNotFound
}
func (stubUsers) GetByNickname(ctx context.Context, nickname string) (model.User, error) {
	return model.User{}, repository.ErrNotFound
}
func (stubUsers) Update(ctx context.Context, user model.User) (model.User, error) {
	return user, nil
}

type stubBookmarks struct{}

func (stubBookmarks) Add(ctx context.Context, userID, postID string) (int64, error) {
	return 1, nil
}
func (stubBookmarks) Remove(ctx context.Context, userID, postID string) (int64, error) {
	return 0, repository.ErrNotFound
}
func (stubBookmarks) List(ctx context.Context, params model.BookmarkListParams) ([]model.Post, error) {
	return []model.Post{}, nil
}

type staticNickname struct{}

func (staticNickname) Generate() string { return "CalmFox0007" }

const testSecret = "router-test-secret"

func newTestHandlers() ag3http.Handlers {
	issuer := session.NewIssuer(testSecret, "ag3-api", time.Hour)
	identity := service.NewIdentityService(stubUsers{}, issuer, staticNickname{}, "https://img.example/default.png")
	return ag3http.Handlers{
		Posts:     handler.NewPostHandler(service.NewPostService(stubPosts{})),
		Users:     handler.NewUserHandler(service.NewUserService(stubUsers{}, stubBookmarks{}, "")),
		Bookmarks: handler.NewBookmarkHandler(service.NewBookmarkService(stubBookmarks{})),
		Auth: handler.NewAuthHandler(oauth.NewRegistry(), identity, handler.AuthConfig{
			CookieName: "AG3_JWT",
			ClientURL:  "http://localhost:3000",
		}),
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	auth, err := middleware.NewAuth(middleware.AuthConfig{DevMode: true})
	if err != nil {
		t.Fatalf("NewAuth: %v", err)
	}
	return ag3http.NewRouter(newTestHandlers(), auth, middleware.NewRateLimiter(100, 100))
}

func TestRouter_HealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", result["status"])
	}
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		userID     string
		wantStatus int
	}{
		{"list posts", http.MethodGet, "/posts?category=project", "", "", http.StatusOK},
		{"post detail", http.MethodGet, "/posts/abc", "", "", http.StatusNotFound},
		{"create post needs auth", http.MethodPost, "/posts", `{}`, "", http.StatusUnauthorized},
		{"create post", http.MethodPost, "/posts", `{}`, "user-1", http.StatusBadRequest},
		{"delete post needs auth", http.MethodDelete, "/posts/abc", "", "", http.StatusUnauthorized},
		{"delete missing post", http.MethodDelete, "/posts/abc", "", "user-1", http.StatusNotFound},
		{"unsupported provider", http.MethodGet, "/auth/naver", "", "", http.StatusNotFound},
		{"callback for unknown provider", http.MethodGet, "/auth/naver/callback", "", "", http.StatusNotFound},
		{"logout", http.MethodPost, "/auth/logout", "", "", http.StatusOK},
		{"sign up", http.MethodPost, "/users", `{"snsType":"kakao","snsId":"k-1"}`, "", http.StatusCreated},
		{"profile needs auth", http.MethodGet, "/users/me", "", "", http.StatusUnauthorized},
		{"profile", http.MethodGet, "/users/me", "", "user-1", http.StatusOK},
		{"nickname available", http.MethodGet, "/users/nickname/neo", "", "", http.StatusOK},
		{"bookmarks", http.MethodGet, "/users/bookmarks?category=study", "", "user-1", http.StatusOK},
		{"add bookmark", http.MethodPost, "/users/bookmarks/post-1", "", "user-1", http.StatusCreated},
		{"remove bookmark", http.MethodDelete, "/users/bookmarks/post-1", "", "user-1", http.StatusNotFound},
		{"method not allowed", http.MethodPatch, "/posts", "", "", http.StatusMethodNotAllowed},
		{"unknown route", http.MethodGet, "/unknown", "", "", http.StatusNotFound},
	}
	router := newTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.userID != "" {
				req.Header.Set("X-User-ID", tt.userID)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", ct)
			}
		})
	}
}
