package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ag3-team/ag3-api/internal/model"
)

const postColumns = `
	p.id, p.author_id, u.nickname AS author_nickname, u.image_url AS author_image_url,
	p.category, p.title, p.content, p.stacks, p.capacity, p.latitude, p.longitude,
	p.address, p.sido, p.start_date, p.end_date, p.register_deadline, p.views,
	p.created_at, p.updated_at`

type postRow struct {
	ID               string          `db:"id"`
	AuthorID         string          `db:"author_id"`
	AuthorNickname   string          `db:"author_nickname"`
	AuthorImageURL   string          `db:"author_image_url"`
	Category         string          `db:"category"`
	Title            string          `db:"title"`
	Content          string          `db:"content"`
	Stacks           pq.StringArray  `db:"stacks"`
	Capacity         int             `db:"capacity"`
	Latitude         sql.NullFloat64 `db:"latitude"`
	Longitude        sql.NullFloat64 `db:"longitude"`
	Address          string          `db:"address"`
	Sido             string          `db:"sido"`
	StartDate        time.Time       `db:"start_date"`
	EndDate          time.Time       `db:"end_date"`
	RegisterDeadline time.Time       `db:"register_deadline"`
	Views            int64           `db:"views"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

func (r postRow) toModel() model.Post {
	p := model.Post{
		ID: r.ID,
		Author: model.PostAuthor{
			ID:       r.AuthorID,
			Nickname: r.AuthorNickname,
			ImageURL: r.AuthorImageURL,
		},
		Category:         model.Category(r.Category),
		Title:            r.Title,
		Content:          r.Content,
		Stacks:           []string(r.Stacks),
		Capacity:         r.Capacity,
		Address:          r.Address,
		Sido:             r.Sido,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		RegisterDeadline: r.RegisterDeadline,
		Views:            r.Views,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if p.Stacks == nil {
		p.Stacks = []string{}
	}
	if r.Latitude.Valid && r.Longitude.Valid {
		p.Location = model.NewLocation(r.Latitude.Float64, r.Longitude.Float64)
	}
	return p
}

func toPosts(rows []postRow) []model.Post {
	posts := make([]model.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toModel())
	}
	return posts
}

func locationArgs(loc *model.Location) (sql.NullFloat64, sql.NullFloat64) {
	if loc == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: loc.Lat(), Valid: true}, sql.NullFloat64{Float64: loc.Lng(), Valid: true}
}

type PostgresPostRepository struct {
	db *sqlx.DB
}

func NewPostgresPost(db *sqlx.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	authorID, err := parseID(post.Author.ID)
	if err != nil {
		return model.Post{}, fmt.Errorf("invalid author id: %w", err)
	}
	lat, lng := locationArgs(post.Location)

	query := `
		WITH p AS (
			INSERT INTO posts (id, author_id, category, title, content, stacks, capacity,
				latitude, longitude, address, sido, start_date, end_date, register_deadline)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING *
		)
		SELECT ` + postColumns + `
		FROM p JOIN users u ON u.id = p.author_id`

	var row postRow
	err = r.db.GetContext(ctx, &row, query,
		uuid.NewString(), authorID, post.Category, post.Title, post.Content, pq.StringArray(post.Stacks),
		post.Capacity, lat, lng, post.Address, post.Sido, post.StartDate, post.EndDate, post.RegisterDeadline,
	)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to create post: %w", translatePQError(err))
	}
	return row.toModel(), nil
}

func (r *PostgresPostRepository) GetByID(ctx context.Context, postID string) (model.Post, error) {
	id, err := parseID(postID)
	if err != nil {
		return model.Post{}, err
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.id = $1`

	var row postRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return model.Post{}, fmt.Errorf("failed to get post: %w", translatePQError(err))
	}
	return row.toModel(), nil
}

func (r *PostgresPostRepository) IncrementViews(ctx context.Context, postID string) (model.Post, error) {
	id, err := parseID(postID)
	if err != nil {
		return model.Post{}, err
	}

	query := `
		WITH p AS (
			UPDATE posts SET views = views + 1
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + postColumns + `
		FROM p JOIN users u ON u.id = p.author_id`

	var row postRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return model.Post{}, fmt.Errorf("failed to increment post views: %w", translatePQError(err))
	}
	return row.toModel(), nil
}

func (r *PostgresPostRepository) Update(ctx context.Context, post model.Post) (model.Post, error) {
	id, err := parseID(post.ID)
	if err != nil {
		return model.Post{}, err
	}
	authorID, err := parseID(post.Author.ID)
	if err != nil {
		return model.Post{}, err
	}
	lat, lng := locationArgs(post.Location)

	query := `
		WITH p AS (
			UPDATE posts
			SET category = $1, title = $2, content = $3, stacks = $4, capacity = $5,
				latitude = $6, longitude = $7, address = $8, sido = $9,
				start_date = $10, end_date = $11, register_deadline = $12, updated_at = now()
			WHERE id = $13 AND author_id = $14
			RETURNING *
		)
		SELECT ` + postColumns + `
		FROM p JOIN users u ON u.id = p.author_id`

	var row postRow
	err = r.db.GetContext(ctx, &row, query,
		post.Category, post.Title, post.Content, pq.StringArray(post.Stacks), post.Capacity,
		lat, lng, post.Address, post.Sido,
		post.StartDate, post.EndDate, post.RegisterDeadline,
		id, authorID,
	)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to update post: %w", translatePQError(err))
	}
	return row.toModel(), nil
}

func (r *PostgresPostRepository) Delete(ctx context.Context, authorID, postID string) error {
	id, err := parseID(postID)
	if err != nil {
		return err
	}
	author, err := parseID(authorID)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, author)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", translatePQError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresPostRepository) List(ctx context.Context, params model.PostListParams) ([]model.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.category = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3`

	var rows []postRow
	err := r.db.SelectContext(ctx, &rows, query, params.Category, params.Page.Limit(), params.Page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return toPosts(rows), nil
}

var _ PostRepository = (*PostgresPostRepository)(nil)
