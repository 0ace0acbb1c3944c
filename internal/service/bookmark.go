package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ag3-team/ag3-api/internal/model"
	"github.com/ag3-team/ag3-api/internal/repository"
)

type BookmarkService struct {
	repo repository.BookmarkRepository
}

func NewBookmarkService(repo repository.BookmarkRepository) *BookmarkService {
	return &BookmarkService{repo: repo}
}

// Add bookmarks the post for the user and returns the post's new bookmark count.
func (s *BookmarkService) Add(ctx context.Context, userID, postID string) (int64, error) {
	count, err := s.repo.Add(ctx, userID, postID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateBookmark):
			return 0, ErrAlreadyBookmarked
		case errors.Is(err, repository.ErrNotFound):
			return 0, ErrPostNotFound
		}
		return 0, fmt.Errorf("failed to add bookmark: %w", err)
	}
	return count, nil
}

func (s *BookmarkService) Remove(ctx context.Context, userID, postID string) (int64, error) {
	count, err := s.repo.Remove(ctx, userID, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrNoSuchBookmark
		}
		return 0, fmt.Errorf("failed to remove bookmark: %w", err)
	}
	return count, nil
}

func (s *BookmarkService) List(ctx context.Context, userID, category string, page model.PageRequest) ([]model.Post, error) {
	c, err := parseCategory(category)
	if err != nil {
		return nil, err
	}

	posts, err := s.repo.List(ctx, model.BookmarkListParams{UserID: userID, Category: c, Page: page})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return posts, nil
}
