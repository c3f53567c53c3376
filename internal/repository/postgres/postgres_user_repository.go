package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/honeynil/kapitalist/internal/models"
	pkgerrors "github.com/honeynil/kapitalist/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const userTracer = "user-repository"

type PostgresUserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresUserRepository(db *sql.DB, logger *zap.Logger) *PostgresUserRepository {
	return &PostgresUserRepository{db: db, logger: logger.Named("user-repository")}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, span, done := instrument(ctx, userTracer, "CreateUser")
	defer done(&err)

	if user == nil {
		err = pkgerrors.ErrNilUser
		return err
	}
	span.SetAttributes(attribute.String("username", user.Username))

	query := `INSERT INTO users (email, username, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at`
	err = r.db.QueryRowContext(ctx, query, user.Email, user.Username, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if dupErr := duplicateUserError(err); dupErr != nil {
			err = dupErr
			r.logger.Info("user already exists", zap.String("username", user.Username), zap.Error(err))
			return err
		}
		r.logger.Error("failed to create user", zap.String("username", user.Username), zap.Error(err))
		err = fmt.Errorf("failed to create user: %w", err)
		return err
	}

	r.logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (user *models.User, err error) {
	ctx, span, done := instrument(ctx, userTracer, "GetUserByID")
	defer done(&err)
	span.SetAttributes(attribute.Int64("user_id", id))

	query := `SELECT id, email, username, password_hash, created_at FROM users WHERE id = $1`
	user, err = scanUser(r.db.QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrUserNotFound
		return nil, err
	}
	if err != nil {
		r.logger.Error("failed to get user by id", zap.Int64("user_id", id), zap.Error(err))
		err = fmt.Errorf("failed to get user by id: %w", err)
		return nil, err
	}
	return user, nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user *models.User, err error) {
	ctx, _, done := instrument(ctx, userTracer, "GetUserByEmail")
	defer done(&err)

	if email == "" {
		err = pkgerrors.ErrInvalidInput
		return nil, err
	}

	query := `SELECT id, email, username, password_hash, created_at FROM users WHERE email = $1`
	user, err = scanUser(r.db.QueryRowContext(ctx, query, email))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrUserNotFound
		return nil, err
	}
	if err != nil {
		r.logger.Error("failed to get user by email", zap.Error(err))
		err = fmt.Errorf("failed to get user by email: %w", err)
		return nil, err
	}
	return user, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, id int64, patch models.UserPatch) (user *models.User, err error) {
	ctx, span, done := instrument(ctx, userTracer, "UpdateUser")
	defer done(&err)
	span.SetAttributes(attribute.Int64("user_id", id))

	var set setList
	if patch.Email != nil {
		set.add("email", *patch.Email)
	}
	if patch.Username != nil {
		set.add("username", *patch.Username)
	}
	if patch.Password != nil {
		set.add("password_hash", *patch.Password)
	}
	if set.empty() {
		err = pkgerrors.ErrEmptyUpdate
		return nil, err
	}

	clause, next := set.clause()
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING id, email, username, password_hash, created_at`, clause, next)
	user, err = scanUser(r.db.QueryRowContext(ctx, query, append(set.args, id)...))
	switch {
	case stderrors.Is(err, sql.ErrNoRows):
		err = pkgerrors.ErrUserNotFound
		return nil, err
	case err != nil:
		if dupErr := duplicateUserError(err); dupErr != nil {
			err = dupErr
			return nil, err
		}
		r.logger.Error("failed to update user", zap.Int64("user_id", id), zap.Error(err))
		err = fmt.Errorf("failed to update user: %w", err)
		return nil, err
	}

	r.logger.Info("user updated", zap.Int64("user_id", id))
	return user, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func duplicateUserError(err error) error {
	switch uniqueConstraint(err) {
	case "":
		return nil
	case "users_username_key":
		return pkgerrors.ErrUsernameExists
	default:
		return pkgerrors.ErrEmailExists
	}
}
