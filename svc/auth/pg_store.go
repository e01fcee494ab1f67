package auth

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cybergaz/Hashira/pkg/pg"
)

// Migrations holds the schema for the durable user store.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// PostgresUserStore implements UserStore on a pgx connection pool. The
// unique index on email arbitrates concurrent first-login races.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

const userColumns = "id, email, name, image, email_verified_at, created_at, updated_at"

func (s *PostgresUserStore) FindUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

func (s *PostgresUserStore) FindUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

func (s *PostgresUserStore) CreateUser(ctx context.Context, user User) (User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()

	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, name, image, email_verified_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING `+userColumns,
		user.ID, user.Email, user.Name, user.Image, user.EmailVerifiedAt, now)

	created, err := scanUser(row)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return created, nil
}

func (s *PostgresUserStore) UpdateUser(ctx context.Context, user User) (User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $2, image = $3, email_verified_at = $4, updated_at = $5
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.Name, user.Image, user.EmailVerifiedAt, time.Now())
	return scanUser(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Image,
		&user.EmailVerifiedAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return User{}, ErrUserNotFound
		}
		return User{}, errors.Join(ErrStoreFailure, err)
	}
	return user, nil
}
