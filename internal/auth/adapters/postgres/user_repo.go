// Package postgres содержит репозитории сервиса аутентификации поверх Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"taskflow/internal/auth/domain/entities"
	"taskflow/internal/auth/domain/services"
	"taskflow/internal/auth/ports/repositories"
	"taskflow/pkg/logger"
)

const (
	queryFindByUsername = `
        SELECT id, username, COALESCE(email, ''), password_hash, created_at, updated_at
        FROM users
        WHERE username = $1
    `

	queryExistsByUsernameOrEmail = `
        SELECT EXISTS (
            SELECT 1 FROM users
            WHERE username = $1 OR (NULLIF($2, '') IS NOT NULL AND email = $2)
        )
    `

	queryCreateUser = `
        INSERT INTO users (username, email, password_hash)
        VALUES ($1, NULLIF($2, ''), $3)
        RETURNING id
    `

	uniqueViolationCode = "23505"

	logUserNotFound        = "user not found"
	logErrFindingUser      = "error finding user by username"
	logErrCheckingExisting = "error checking existing user"
	logErrCreatingUser     = "error creating user"
	logDuplicateUser       = "user with same username or email already exists"
	logUserCreated         = "user created"
)

// PgxPoolInterface - минимальный набор методов пула, используемый репозиториями.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// UserRepository реализует интерфейс repositories.UserRepository для работы с Postgres.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

// FindByUsername находит пользователя по имени.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, bool, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByUsername"))

	var user entities.User
	err := r.pool.QueryRow(ctx, queryFindByUsername, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, logUserNotFound, zap.String("username", username))
			return nil, false, nil
		}
		log.Error(ctx, logErrFindingUser, zap.Error(err))
		return nil, false, fmt.Errorf("error querying user by username: %w", err)
	}

	return &user, true, nil
}

// ExistsByUsernameOrEmail проверяет, занято ли имя пользователя или email.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "ExistsByUsernameOrEmail"))

	var exists bool
	if err := r.pool.QueryRow(ctx, queryExistsByUsernameOrEmail, username, email).Scan(&exists); err != nil {
		log.Error(ctx, logErrCheckingExisting, zap.Error(err))
		return false, fmt.Errorf("error checking existing user: %w", err)
	}

	return exists, nil
}

// Create создает нового пользователя. Нарушение уникальности возвращается как ErrUserAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	var id int64
	err := r.pool.QueryRow(ctx, queryCreateUser, user.Username, user.Email, user.PasswordHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			log.Info(ctx, logDuplicateUser, zap.String("constraint", pgErr.ConstraintName))
			return 0, fmt.Errorf("error creating user: %w", services.ErrUserAlreadyExists)
		}
		log.Error(ctx, logErrCreatingUser, zap.Error(err))
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	log.Debug(ctx, logUserCreated, zap.Int64("userID", id))
	return id, nil
}
