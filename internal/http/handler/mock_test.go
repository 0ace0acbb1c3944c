package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/ag3-team/ag3-api/internal/middleware"
	"github.com/ag3-team/ag3-api/internal/model"
	"github.com/ag3-team/ag3-api/internal/oauth"
	"github.com/ag3-team/ag3-api/internal/session"
)

type mockPostRepo struct {
	createFn         func(ctx context.Context, post model.Post) (model.Post, error)
	getByIDFn        func(ctx context.Context, postID string) (model.Post, error)
	incrementViewsFn func(ctx context.Context, postID string) (model.Post, error)
	updateFn         func(ctx context.Context, post model.Post) (model.Post, error)
	deleteFn         func(ctx context.Context, authorID, postID string) error
	listFn           func(ctx context.Context, params model.PostListParams) ([]model.Post, error)
}

func (m *mockPostRepo) Create(ctx context.Context, post model.Post) (model.Post, error) {
	return m.createFn(ctx, post)
}
func (m *mockPostRepo) GetByID(ctx context.Context, postID string) (model.Post, error) {
	return m.getByIDFn(ctx, postID)
}
func (m *mockPostRepo) IncrementViews(ctx context.Context, postID string) (model.Post, error) {
	return m.incrementViewsFn(ctx, postID)
}
func (m *mockPostRepo) Update(ctx context.Context, post model.Post) (model.Post, error) {
	return m.updateFn(ctx, post)
}
func (m *mockPostRepo) Delete(ctx context.Context, authorID, postID string) error {
	return m.deleteFn(ctx, authorID, postID)
}
func (m *mockPostRepo) List(ctx context.Context, params model.PostListParams) ([]model.Post, error) {
	return m.listFn(ctx, params)
}

type mockUserRepo struct {
	createFn        func(ctx context.Context, user model.User) (model.User, error)
	getByIDFn       func(ctx context.Context, userID string) (model.User, error)
	getBySNSFn      func(ctx context.Context, snsType model.SNSType, snsID string) (model.User, error)
	getByNicknameFn func(ctx context.Context, nickname string) (model.User, error)
	updateFn        func(ctx context.Context, user model.User) (model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user model.User) (model.User, error) {
	return m.createFn(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, userID string) (model.User, error) {
	return m.getByIDFn(ctx, userID)
}
func (m *mockUserRepo) GetBySNS(ctx context.Context, snsType model.SNSType, snsID string) (model.User, error) {
	return m.getBySNSFn(ctx, snsType, snsID)
}
func (m *mockUserRepo) GetByNickname(ctx context.Context, nickname string) (model.User, error) {
	return m.getByNicknameFn(ctx, nickname)
}
func (m *mockUserRepo) Update(ctx context.Context, user model.User) (model.User, error) {
	return m.updateFn(ctx, user)
}

type mockBookmarkRepo struct {
	addFn    func(ctx context.Context, userID, postID string) (int64, error)
	removeFn func(ctx context.Context, userID, postID string) (int64, error)
	listFn   func(ctx context.Context, params model.BookmarkListParams) ([]model.Post, error)
}

func (m *mockBookmarkRepo) Add(ctx context.Context, userID, postID string) (int64, error) {
	return m.addFn(ctx, userID, postID)
}
func (m *mockBookmarkRepo) Remove(ctx context.Context, userID, postID string) (int64, error) {
	return m.removeFn(ctx, userID, postID)
}
func (m *mockBookmarkRepo) List(ctx context.Context, params model.BookmarkListParams) ([]model.Post, error) {
	return m.listFn(ctx, params)
}

type stubIssuer struct{}

func (stubIssuer) Issue(userID string) (session.Credential, error) {
	return session.Credential{Token: "token-" + userID, ExpiresAt: 4102444800}, nil
}

type fixedNickname string

func (f fixedNickname) Generate() string { return string(f) }

type fakeProvider struct {
	name       model.SNSType
	exchangeFn func(ctx context.Context, code string) (oauth.Profile, error)
}

func (p *fakeProvider) Name() model.SNSType { return p.name }
func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}
func (p *fakeProvider) Exchange(ctx context.Context, code string) (oauth.Profile, error) {
	return p.exchangeFn(ctx, code)
}

var now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func samplePost() model.Post {
	return model.Post{
		ID:        "post-1",
		Author:    model.PostAuthor{ID: "user-1", Nickname: "BraveOtter0001"},
		Category:  model.CategoryProject,
		Title:     "Go study",
		Content:   "Weekly Go study group",
		Stacks:    []string{"go"},
		Capacity:  4,
		StartDate: now,
		EndDate:   now.Add(30 * 24 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sampleUser() model.User {
	return model.User{
		ID:        "user-1",
		SNSType:   model.SNSTypeKakao,
		SNSID:     "kakao-1",
		Nickname:  "BraveOtter0001",
		Stacks:    []string{"go"},
		Sido:      "Seoul",
		Sigungu:   "Mapo-gu",
		ImageURL:  "https://img.example/1.png",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, target, r)
	req.RemoteAddr = "192.0.2.1:1234"
	return req
}

func withUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.SetUserID(req.Context(), userID))
}

func withVars(req *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(req, vars)
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, body io.Reader) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}
