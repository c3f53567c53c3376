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

const categoryTracer = "category-repository"

const categoryColumns = `id, user_id, name, color, created_at`

type PostgresCategoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresCategoryRepository(db *sql.DB, logger *zap.Logger) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db, logger: logger.Named("category-repository")}
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, category *models.Category) (err error) {
	ctx, span, done := instrument(ctx, categoryTracer, "CreateCategory")
	defer done(&err)

	if category == nil {
		err = pkgerrors.ErrNilCategory
		return err
	}
	span.SetAttributes(attribute.Int64("user_id", category.UserID))

	query := `INSERT INTO categories (user_id, name, color) VALUES ($1, $2, $3) RETURNING id, created_at`
	err = r.db.QueryRowContext(ctx, query, category.UserID, category.Name, category.Color).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		r.logger.Error("failed to create category", zap.Int64("user_id", category.UserID), zap.Error(err))
		err = fmt.Errorf("failed to create category: %w", err)
		return err
	}

	r.logger.Info("category created", zap.Int64("category_id", category.ID), zap.Int64("user_id", category.UserID))
	return nil
}

// CreateDefaults inserts names for userID in a single transaction. Names the
// user already has are skipped, so replaying the same event is harmless.
func (r *PostgresCategoryRepository) CreateDefaults(ctx context.Context, userID int64, names []string) (err error) {
	ctx, span, done := instrument(ctx, categoryTracer, "CreateDefaultCategories")
	defer done(&err)
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.Int("count", len(names)))

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err = fmt.Errorf("failed to begin transaction: %w", err)
		return err
	}

	query := `INSERT INTO categories (user_id, name)
		SELECT $1, $2 WHERE NOT EXISTS (SELECT 1 FROM categories WHERE user_id = $1 AND name = $2)`
	for _, name := range names {
		if _, err = dbTx.ExecContext(ctx, query, userID, name); err != nil {
			if rbErr := dbTx.Rollback(); rbErr != nil {
				r.logger.Error("rollback failed", zap.Error(rbErr))
				err = fmt.Errorf("rollback failed: %v; original error: %w", rbErr, err)
			}
			r.logger.Error("failed to create default category", zap.Int64("user_id", userID), zap.String("name", name), zap.Error(err))
			err = fmt.Errorf("failed to create default category: %w", err)
			return err
		}
	}

	if err = dbTx.Commit(); err != nil {
		err = fmt.Errorf("failed to commit transaction: %w", err)
		return err
	}
	return nil
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id, userID int64) (category *models.Category, err error) {
	ctx, span, done := instrument(ctx, categoryTracer, "GetCategoryByID")
	defer done(&err)
	span.SetAttributes(attribute.Int64("category_id", id), attribute.Int64("user_id", userID))

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`
	category, err = scanCategory(r.db.QueryRowContext(ctx, query, id, userID))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrCategoryNotFound
		return nil, err
	}
	if err != nil {
		r.logger.Error("failed to get category", zap.Int64("category_id", id), zap.Error(err))
		err = fmt.Errorf("failed to get category: %w", err)
		return nil, err
	}
	return category, nil
}

func (r *PostgresCategoryRepository) ListByUser(ctx context.Context, userID int64) (categories []models.Category, err error) {
	ctx, span, done := instrument(ctx, categoryTracer, "ListCategories")
	defer done(&err)
	span.SetAttributes(attribute.Int64("user_id", userID))

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to list categories", zap.Int64("user_id", userID), zap.Error(err))
		err = fmt.Errorf("failed to list categories: %w", err)
		return nil, err
	}
	defer rows.Close()

	categories = make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err = rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt); err != nil {
			err = fmt.Errorf("failed to scan category: %w", err)
			return nil, err
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("failed to iterate categories: %w", err)
		return nil, err
	}
	return categories, nil
}

func (r *PostgresCategoryRepository) Update(ctx context.Context, id, userID int64, patch models.CategoryPatch) (category *models.Category, err error) {
	ctx, span, done := instrument(ctx, categoryTracer, "UpdateCategory")
	defer done(&err)
	span.SetAttributes(attribute.Int64("category_id", id), attribute.Int64("user_id", userID))

	var set setList
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Color != nil {
		set.add("color", *patch.Color)
	}
	if set.empty() {
		err = pkgerrors.ErrEmptyUpdate
		return nil, err
	}

	clause, next := set.clause()
	query := fmt.Sprintf(`UPDATE categories SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`, clause, next, next+1, categoryColumns)
	category, err = scanCategory(r.db.QueryRowContext(ctx, query, append(set.args, id, userID)...))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrCategoryNotFound
		return nil, err
	}
	if err != nil {
		r.logger.Error("failed to update category", zap.Int64("category_id", id), zap.Error(err))
		err = fmt.Errorf("failed to update category: %w", err)
		return nil, err
	}
	return category, nil
}

func (r *PostgresCategoryRepository) Delete(ctx context.Context, id, userID int64) (err error) {
	ctx, span, done := instrument(ctx, categoryTracer, "DeleteCategory")
	defer done(&err)
	span.SetAttributes(attribute.Int64("category_id", id), attribute.Int64("user_id", userID))

	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if isForeignKeyViolation(err) {
		err = pkgerrors.ErrCategoryInUse
		return err
	}
	if err != nil {
		r.logger.Error("failed to delete category", zap.Int64("category_id", id), zap.Error(err))
		err = fmt.Errorf("failed to delete category: %w", err)
		return err
	}
	return expectAffected(res, pkgerrors.ErrCategoryNotFound)
}

func scanCategory(row *sql.Row) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
