package service

import (
	"context"

	"github.com/honeynil/kapitalist/internal/models"
	"github.com/honeynil/kapitalist/internal/repository"
	pkgerrors "github.com/honeynil/kapitalist/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type CategoryService interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	Get(ctx context.Context, id, userID int64) (*models.Category, error)
	List(ctx context.Context, userID int64) ([]models.Category, error)
	Update(ctx context.Context, id, userID int64, patch models.CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, id, userID int64) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

func NewCategoryService(categoryRepo repository.CategoryRepository, logger *zap.Logger) *categoryService {
	return &categoryService{categoryRepo: categoryRepo, logger: logger.Named("category-service")}
}

func (s *categoryService) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	ctx, span := otel.Tracer("category-service").Start(ctx, "CreateCategory")
	defer span.End()

	if category == nil || category.Name == "" {
		return nil, pkgerrors.ErrInvalidInput
	}
	span.SetAttributes(attribute.Int64("user_id", category.UserID))

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		span.RecordError(err)
		return nil, translate(err)
	}
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, id, userID int64) (*models.Category, error) {
	ctx, span := otel.Tracer("category-service").Start(ctx, "GetCategory")
	defer span.End()
	span.SetAttributes(attribute.Int64("category_id", id), attribute.Int64("user_id", userID))

	return result(s.categoryRepo.GetByID(ctx, id, userID))
}

func (s *categoryService) List(ctx context.Context, userID int64) ([]models.Category, error) {
	ctx, span := otel.Tracer("category-service").Start(ctx, "ListCategories")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", userID))

	return result(s.categoryRepo.ListByUser(ctx, userID))
}

func (s *categoryService) Update(ctx context.Context, id, userID int64, patch models.CategoryPatch) (*models.Category, error) {
	ctx, span := otel.Tracer("category-service").Start(ctx, "UpdateCategory")
	defer span.End()
	span.SetAttributes(attribute.Int64("category_id", id), attribute.Int64("user_id", userID))

	if patch.IsEmpty() {
		return nil, pkgerrors.ErrEmptyUpdate
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, pkgerrors.ErrInvalidInput
	}
	return result(s.categoryRepo.Update(ctx, id, userID, patch))
}

func (s *categoryService) Delete(ctx context.Context, id, userID int64) error {
	ctx, span := otel.Tracer("category-service").Start(ctx, "DeleteCategory")
	defer span.End()
	span.SetAttributes(attribute.Int64("category_id", id), attribute.Int64("user_id", userID))

	if err := s.categoryRepo.Delete(ctx, id, userID); err != nil {
		return translate(err)
	}
	s.logger.Info("category deleted", zap.Int64("category_id", id), zap.Int64("user_id", userID))
	return nil
}
