package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ag3-team/ag3-api/internal/model"
)

const userColumns = `id, sns_type, sns_id, nickname, position, stacks, sido, sigungu, image_url, created_at, updated_at`

type userRow struct {
	ID        string         `db:"id"`
	SNSType   string         `db:"sns_type"`
	SNSID     string         `db:"sns_id"`
	Nickname  string         `db:"nickname"`
	Position  string         `db:"position"`
	Stacks    pq.StringArray `db:"stacks"`
	Sido      string         `db:"sido"`
	Sigungu   string         `db:"sigungu"`
	ImageURL  string         `db:"image_url"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r userRow) toModel() model.User {
	u := model.User{
		ID:        r.ID,
		SNSType:   model.SNSType(r.SNSType),
		SNSID:     r.SNSID,
		Nickname:  r.Nickname,
		Position:  r.Position,
		Stacks:    []string(r.Stacks),
		Sido:      r.Sido,
		Sigungu:   r.Sigungu,
		ImageURL:  r.ImageURL,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if u.Stacks == nil {
		u.Stacks = []string{}
	}
	return u
}

type PostgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUser(db *sqlx.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `
		INSERT INTO users (id, sns_type, sns_id, nickname, position, stacks, sido, sigungu, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns

	var row userRow
	err := r.db.GetContext(ctx, &row, query,
		uuid.NewString(), user.SNSType, user.SNSID, user.Nickname, user.Position,
		pq.StringArray(user.Stacks), user.Sido, user.Sigungu, user.ImageURL,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", translatePQError(err))
	}
	return row.toModel(), nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, userID string) (model.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return model.User{}, err
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresUserRepository) GetBySNS(ctx context.Context, snsType model.SNSType, snsID string) (model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE sns_type = $1 AND sns_id = $2`, snsType, snsID)
}

func (r *PostgresUserRepository) GetByNickname(ctx context.Context, nickname string) (model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE nickname = $1`, nickname)
}

func (r *PostgresUserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	id, err := parseID(user.ID)
	if err != nil {
		return model.User{}, err
	}

	query := `
		UPDATE users
		SET nickname = $1, position = $2, stacks = $3, sido = $4, sigungu = $5, image_url = $6, updated_at = now()
		WHERE id = $7
		RETURNING ` + userColumns

	var row userRow
	err = r.db.GetContext(ctx, &row, query,
		user.Nickname, user.Position, pq.StringArray(user.Stacks), user.Sido, user.Sigungu, user.ImageURL, id,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", translatePQError(err))
	}
	return row.toModel(), nil
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query string, args ...any) (model.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", translatePQError(err))
	}
	return row.toModel(), nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
