package service

import (
	"context"
	"testing"

	"github.com/honeynil/kapitalist/internal/models"
	repositorymocks "github.com/honeynil/kapitalist/internal/repository/mocks"
	pkgerrors "github.com/honeynil/kapitalist/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCategoryService(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		repo := &repositorymocks.CategoryRepository{}
		svc := NewCategoryService(repo, zap.NewNop())
		repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Category).ID = 11
		}).Return(nil).Once()

		category, err := svc.Create(ctx, &models.Category{UserID: 1, Name: "Books"})
		require.NoError(t, err)
		assert.Equal(t, int64(11), category.ID)
	})

	t.Run("create without name", func(t *testing.T) {
		svc := NewCategoryService(&repositorymocks.CategoryRepository{}, zap.NewNop())
		_, err := svc.Create(ctx, &models.Category{UserID: 1})
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})

	t.Run("list", func(t *testing.T) {
		repo := &repositorymocks.CategoryRepository{}
		svc := NewCategoryService(repo, zap.NewNop())
		repo.On("ListByUser", mock.Anything, int64(1)).Return([]models.Category{{ID: 1}, {ID: 2}}, nil).Once()

		categories, err := svc.List(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, categories, 2)
	})

	t.Run("update empty", func(t *testing.T) {
		svc := NewCategoryService(&repositorymocks.CategoryRepository{}, zap.NewNop())
		_, err := svc.Update(ctx, 11, 1, models.CategoryPatch{})
		assert.ErrorIs(t, err, pkgerrors.ErrEmptyUpdate)
	})

	t.Run("delete in use", func(t *testing.T) {
		repo := &repositorymocks.CategoryRepository{}
		svc := NewCategoryService(repo, zap.NewNop())
		repo.On("Delete", mock.Anything, int64(11), int64(1)).Return(pkgerrors.ErrCategoryInUse).Once()

		assert.ErrorIs(t, svc.Delete(ctx, 11, 1), pkgerrors.ErrCategoryInUse)
	})

	t.Run("get of another user", func(t *testing.T) {
		repo := &repositorymocks.CategoryRepository{}
		svc := NewCategoryService(repo, zap.NewNop())
		repo.On("GetByID", mock.Anything, int64(11), int64(2)).Return(nil, pkgerrors.ErrCategoryNotFound).Once()

		_, err := svc.Get(ctx, 11, 2)
		assert.ErrorIs(t, err, pkgerrors.ErrCategoryNotFound)
	})
}
