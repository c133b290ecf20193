package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/utils"
	"github.com/google/uuid"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, excludeID uuid.UUID, p models.Pagination) ([]*models.User, int, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	SetForgetKey(ctx context.Context, id uuid.UUID, key string, expiresAt time.Time) error
	// UpdatePassword stores the new hash and clears any pending reset key.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	CountUsers(ctx context.Context) (int, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `id, avatar_url, name, email, password, acl, gender, melli_code, address, postal_code,
	forget_key, expire_forget_key, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}

	var expireForgetKey sql.NullTime

	err := row.Scan(&user.ID, &user.AvatarURL, &user.Name, &user.Email, &user.Password, &user.ACL, &user.Gender,
		&user.MelliCode, &user.Address, &user.PostalCode, &user.ForgetKey, &expireForgetKey, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if expireForgetKey.Valid {
		user.ExpireForgetKey = expireForgetKey.Time
	}

	return user, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users (id, avatar_url, name, email, password, acl, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, user.ID, user.AvatarURL, user.Name, user.Email, user.Password, user.ACL).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}

		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user, err := scanUser(r.DB.QueryRowContext(dbCtx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		return nil, notFound(err)
	}

	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user, err := scanUser(r.DB.QueryRowContext(dbCtx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}

	return user, nil
}

func (r *userRepository) ListUsers(ctx context.Context, excludeID uuid.UUID, p models.Pagination) ([]*models.User, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM users WHERE id <> $1`, excludeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + userColumns + `
		FROM users
		WHERE id <> $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, excludeID, p.Limit, p.Skip())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, total, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE users
		SET avatar_url = $1, gender = $2, melli_code = $3, address = $4, postal_code = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, user.AvatarURL, user.Gender, user.MelliCode, user.Address, user.PostalCode, user.ID).
		Scan(&user.UpdatedAt)
	if err != nil {
		return notFound(err)
	}

	return nil
}

func (r *userRepository) SetForgetKey(ctx context.Context, id uuid.UUID, key string, expiresAt time.Time) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `UPDATE users SET forget_key = $1, expire_forget_key = $2, updated_at = NOW() WHERE id = $3`, key, expiresAt, id)
	if err != nil {
		return fmt.Errorf("failed to store reset key: %w", err)
	}

	return expectAffected(result)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE users SET password = $1, forget_key = '', expire_forget_key = NULL, updated_at = NOW()
		WHERE id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return expectAffected(result)
}

func (r *userRepository) CountUsers(ctx context.Context) (int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return total, nil
}
