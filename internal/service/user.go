package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ag3-team/ag3-api/internal/model"
	"github.com/ag3-team/ag3-api/internal/repository"
)

type ProfileInput struct {
	Nickname string
	Position string
	Stacks   []string
	Sido     string
	Sigungu  string
	ImageURL string
}

type Profile struct {
	User      model.User
	Bookmarks []model.Post
}

type UserService struct {
	users           repository.UserRepository
	bookmarks       repository.BookmarkRepository
	defaultImageURL string
}

func NewUserService(users repository.UserRepository, bookmarks repository.BookmarkRepository, defaultImageURL string) *UserService {
	return &UserService{users: users, bookmarks: bookmarks, defaultImageURL: defaultImageURL}
}

// Profile returns the user together with the first page of their bookmarks
// across all categories.
func (s *UserService) Profile(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		user, err := s.users.GetByID(gctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}
		p.User = user
		return nil
	})
	g.Go(func() error {
		posts, err := s.bookmarks.List(gctx, model.BookmarkListParams{
			UserID: userID,
			Page:   model.NewPageRequest(model.DefaultPage, model.DefaultPerPage),
		})
		if err != nil {
			return fmt.Errorf("failed to list bookmarks: %w", err)
		}
		p.Bookmarks = posts
		return nil
	})

	if err := g.Wait(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (model.User, error) {
	nickname := strings.TrimSpace(input.Nickname)
	if nickname == "" {
		return model.User{}, fmt.Errorf("%w: nickname is required", ErrValidation)
	}
	for _, stack := range input.Stacks {
		if !model.IsLowercaseStack(stack) {
			return model.User{}, fmt.Errorf("%w: %q", ErrStackFormat, stack)
		}
	}

	stacks := input.Stacks
	if stacks == nil {
		stacks = []string{}
	}
	imageURL := input.ImageURL
	if imageURL == "" {
		imageURL = s.defaultImageURL
	}

	updated, err := s.users.Update(ctx, model.User{
		ID:       userID,
		Nickname: nickname,
		Position: input.Position,
		Stacks:   stacks,
		Sido:     input.Sido,
		Sigungu:  input.Sigungu,
		ImageURL: imageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return model.User{}, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicateNickname):
			return model.User{}, fmt.Errorf("%w: %q", ErrDuplicateNickname, nickname)
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}

// NicknameAvailable reports whether no user holds nickname.
func (s *UserService) NicknameAvailable(ctx context.Context, nickname string) (bool, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return false, fmt.Errorf("%w: nickname is required", ErrValidation)
	}

	_, err := s.users.GetByNickname(ctx, nickname)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, repository.ErrNotFound):
		return true, nil
	default:
		return false, fmt.Errorf("failed to look up nickname: %w", err)
	}
}
