package service_test

import (
	"context"
	"strings"
	"time"

	"github.com/ag3-team/ag3-api/internal/model"
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

type stubIssuer struct {
	err error
}

func (s stubIssuer) Issue(userID string) (session.Credential, error) {
	if s.err != nil {
		return session.Credential{}, s.err
	}
	return session.Credential{Token: "token-" + userID, ExpiresAt: 1700000000}, nil
}

type sequenceNicknames struct {
	names []string
	calls int
}

func (s *sequenceNicknames) Generate() string {
	name := s.names[s.calls%len(s.names)]
	s.calls++
	return name
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

func containsStr(s, sub string) bool {
	return strings.Contains(s, sub)
}
