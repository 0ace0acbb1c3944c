package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ag3-team/ag3-api/internal/model"
	"github.com/ag3-team/ag3-api/internal/repository"
)

// RegionInput is the optional meeting place of a post.
type RegionInput struct {
	Lat     *float64
	Lng     *float64
	Address string
	Sido    string
}

type PostInput struct {
	Category string
	Title    string
	Content  string
	Stacks   []string
	Capacity int
	Region   *RegionInput
	// ExecutionPeriod is [startDate, endDate], each RFC3339 or YYYY-MM-DD.
	ExecutionPeriod  []string
	RegisterDeadline string
}

type PostService struct {
	repo    repository.PostRepository
	content *bluemonday.Policy
	text    *bluemonday.Policy
}

func NewPostService(repo repository.PostRepository) *PostService {
	return &PostService{
		repo:    repo,
		content: bluemonday.UGCPolicy(),
		text:    bluemonday.StrictPolicy(),
	}
}

func (s *PostService) List(ctx context.Context, category string, page model.PageRequest) ([]model.Post, error) {
	c, err := parseCategory(category)
	if err != nil {
		return nil, err
	}

	posts, err := s.repo.List(ctx, model.PostListParams{Category: c, Page: page})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Detail returns the post after counting the view.
func (s *PostService) Detail(ctx context.Context, postID string) (model.Post, error) {
	post, err := s.repo.IncrementViews(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Post{}, ErrPostNotFound
		}
		return model.Post{}, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

func (s *PostService) Create(ctx context.Context, authorID string, input PostInput) (model.Post, error) {
	post, err := s.buildPost(input)
	if err != nil {
		return model.Post{}, err
	}
	post.Author = model.PostAuthor{ID: authorID}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}
	return created, nil
}

func (s *PostService) Update(ctx context.Context, authorID, postID string, input PostInput) (model.Post, error) {
	post, err := s.buildPost(input)
	if err != nil {
		return model.Post{}, err
	}

	if err := s.checkOwner(ctx, authorID, postID); err != nil {
		return model.Post{}, err
	}

	post.ID = postID
	post.Author = model.PostAuthor{ID: authorID}
	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Post{}, ErrPostNotFound
		}
		return model.Post{}, fmt.Errorf("failed to update post: %w", err)
	}
	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, authorID, postID string) error {
	if err := s.checkOwner(ctx, authorID, postID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, authorID, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// checkOwner tells a missing post apart from somebody else's. The write
// itself is still filtered by author, so a post changing hands between the
// check and the write cannot be modified.
func (s *PostService) checkOwner(ctx context.Context, authorID, postID string) error {
	existing, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to get post: %w", err)
	}
	if existing.Author.ID != authorID {
		return ErrForbidden
	}
	return nil
}

func (s *PostService) buildPost(input PostInput) (model.Post, error) {
	if input.Category == "" || strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" ||
		input.Capacity == 0 || len(input.ExecutionPeriod) == 0 || input.RegisterDeadline == "" {
		return model.Post{}, fmt.Errorf("%w: category, title, content, capacity, executionPeriod and registerDeadline are required", ErrValidation)
	}

	category, err := parseCategory(input.Category)
	if err != nil {
		return model.Post{}, err
	}

	stacks, err := normalizeStacks(input.Stacks)
	if err != nil {
		return model.Post{}, err
	}

	if len(input.ExecutionPeriod) != 2 || input.ExecutionPeriod[0] == "" || input.ExecutionPeriod[1] == "" {
		return model.Post{}, fmt.Errorf("%w: executionPeriod needs a start and an end date", ErrValidation)
	}
	start, err := parseDate("executionPeriod start", input.ExecutionPeriod[0])
	if err != nil {
		return model.Post{}, err
	}
	end, err := parseDate("executionPeriod end", input.ExecutionPeriod[1])
	if err != nil {
		return model.Post{}, err
	}
	deadline, err := parseDate("registerDeadline", input.RegisterDeadline)
	if err != nil {
		return model.Post{}, err
	}
	if end.Before(start) {
		return model.Post{}, fmt.Errorf("%w: executionPeriod ends before it starts", ErrValidation)
	}
	if input.Capacity < 0 {
		return model.Post{}, fmt.Errorf("%w: capacity must be positive", ErrValidation)
	}
	if input.Capacity > model.MaxCapacity {
		return model.Post{}, fmt.Errorf("%w: capacity must be at most %d", ErrValidation, model.MaxCapacity)
	}

	post := model.Post{
		Category:         category,
		Title:            strings.TrimSpace(s.plainText(input.Title)),
		Content:          s.content.Sanitize(input.Content),
		Stacks:           stacks,
		Capacity:         input.Capacity,
		StartDate:        start,
		EndDate:          end,
		RegisterDeadline: deadline,
	}
	if post.Title == "" {
		return model.Post{}, fmt.Errorf("%w: title is empty after removing markup", ErrValidation)
	}

	if r := input.Region; r != nil {
		if (r.Lat == nil) != (r.Lng == nil) {
			return model.Post{}, fmt.Errorf("%w: region needs both lat and lng", ErrValidation)
		}
		if r.Lat != nil {
			if *r.Lat < -90 || *r.Lat > 90 || *r.Lng < -180 || *r.Lng > 180 {
				return model.Post{}, fmt.Errorf("%w: region coordinates out of range", ErrValidation)
			}
			post.Location = model.NewLocation(*r.Lat, *r.Lng)
		}
		post.Address = s.plainText(r.Address)
		post.Sido = s.plainText(r.Sido)
	}
	return post, nil
}

// plainText strips all markup from a plain-text field. The strict policy
// HTML-escapes what it keeps, so entities are decoded back to the literal text.
func (s *PostService) plainText(v string) string {
	return html.UnescapeString(s.text.Sanitize(v))
}

func parseCategory(category string) (model.Category, error) {
	c := model.Category(category)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	return c, nil
}

// normalizeStacks rejects tokens that are not lowercase letters and drops
// repeats, keeping the first occurrence.
func normalizeStacks(stacks []string) ([]string, error) {
	seen := make(map[string]bool, len(stacks))
	out := make([]string, 0, len(stacks))
	for _, s := range stacks {
		if !model.IsLowercaseStack(s) {
			return nil, fmt.Errorf("%w: %q", ErrStackFormat, s)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

func parseDate(field, s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid %s %q, expected RFC3339 or YYYY-MM-DD", ErrValidation, field, s)
}
