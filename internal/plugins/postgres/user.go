package postgres

import (
	"context"
	"database/sql"
	"errors"

	"groupchat/internal/core/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u.ID == "" {
		return nil, domain.ErrInvalidUserID
	}
	query := `
        INSERT INTO users (id, email, username, password_hash, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		u.ID, u.Email, u.Username, u.PasswordHash, u.Status,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique violation on email or username
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrInvalidUserID
	}
	user := &domain.User{ID: id}
	query := `SELECT email, username, password_hash, status, created_at FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.Email, &user.Username, &user.PasswordHash, &user.Status, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, domain.ErrInvalidUserID
	}
	user := &domain.User{Email: email}
	query := `SELECT id, username, password_hash, status, created_at FROM users WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Status, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// SetStatus writes the online/offline presence transition through the
// identity store.
func (r *UserRepo) SetStatus(ctx context.Context, id string, status string) error {
	if id == "" {
		return domain.ErrInvalidUserID
	}
	result, err := r.db.ExecContext(ctx, `UPDATE users SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
