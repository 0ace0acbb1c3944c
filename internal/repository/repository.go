package repository

import (
	"context"
	"errors"

	"github.com/ag3-team/ag3-api/internal/model"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateSNS      = errors.New("duplicate sns identity")
	ErrDuplicateNickname = errors.New("duplicate nickname")
	ErrDuplicateBookmark = errors.New("duplicate bookmark")
)

type PostRepository interface {
	Create(ctx context.Context, post model.Post) (model.Post, error)
	GetByID(ctx context.Context, postID string) (model.Post, error)
	// IncrementViews atomically adds one to the view counter and returns the
	// post as stored after the increment.
	IncrementViews(ctx context.Context, postID string) (model.Post, error)
	// Update replaces the mutable fields of the post identified by post.ID.
	// It returns ErrNotFound unless post.Author.ID still owns the post.
	Update(ctx context.Context, post model.Post) (model.Post, error)
	Delete(ctx context.Context, authorID, postID string) error
	List(ctx context.Context, params model.PostListParams) ([]model.Post, error)
}

type UserRepository interface {
	// Create fails with ErrDuplicateSNS or ErrDuplicateNickname when a unique
	// constraint rejects the insert.
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByID(ctx context.Context, userID string) (model.User, error)
	GetBySNS(ctx context.Context, snsType model.SNSType, snsID string) (model.User, error)
	GetByNickname(ctx context.Context, nickname string) (model.User, error)
	Update(ctx context.Context, user model.User) (model.User, error)
}

type BookmarkRepository interface {
	// Add inserts the (user, post) pair and returns the post's bookmark count.
	// It fails with ErrDuplicateBookmark if the pair exists and ErrNotFound if
	// the post does not.
	Add(ctx context.Context, userID, postID string) (int64, error)
	// Remove deletes the pair and returns the post's bookmark count, or
	// ErrNotFound if there was nothing to delete.
	Remove(ctx context.Context, userID, postID string) (int64, error)
	List(ctx context.Context, params model.BookmarkListParams) ([]model.Post, error)
}
