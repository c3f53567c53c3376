// Package mocks holds testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/honeynil/kapitalist/internal/models"
	"github.com/honeynil/kapitalist/internal/repository"
	"github.com/stretchr/testify/mock"
)

var (
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ repository.WalletRepository      = (*WalletRepository)(nil)
	_ repository.CategoryRepository    = (*CategoryRepository)(nil)
	_ repository.TransactionRepository = (*TransactionRepository)(nil)
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	args := m.Called(ctx, id, patch)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type WalletRepository struct {
	mock.Mock
}

func (m *WalletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	return m.Called(ctx, wallet).Error(0)
}

func (m *WalletRepository) GetByID(ctx context.Context, id, userID int64) (*models.Wallet, error) {
	args := m.Called(ctx, id, userID)
	wallet, _ := args.Get(0).(*models.Wallet)
	return wallet, args.Error(1)
}

func (m *WalletRepository) ListByUser(ctx context.Context, userID int64) ([]models.Wallet, error) {
	args := m.Called(ctx, userID)
	wallets, _ := args.Get(0).([]models.Wallet)
	return wallets, args.Error(1)
}

func (m *WalletRepository) Update(ctx context.Context, id, userID int64, patch models.WalletPatch) (*models.Wallet, error) {
	args := m.Called(ctx, id, userID, patch)
	wallet, _ := args.Get(0).(*models.Wallet)
	return wallet, args.Error(1)
}

func (m *WalletRepository) Delete(ctx context.Context, id, userID int64) error {
	return m.Called(ctx, id, userID).Error(0)
}

type CategoryRepository struct {
	mock.Mock
}

func (m *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *CategoryRepository) CreateDefaults(ctx context.Context, userID int64, names []string) error {
	return m.Called(ctx, userID, names).Error(0)
}

func (m *CategoryRepository) GetByID(ctx context.Context, id, userID int64) (*models.Category, error) {
	args := m.Called(ctx, id, userID)
	category, _ := args.Get(0).(*models.Category)
	return category, args.Error(1)
}

func (m *CategoryRepository) ListByUser(ctx context.Context, userID int64) ([]models.Category, error) {
	args := m.Called(ctx, userID)
	categories, _ := args.Get(0).([]models.Category)
	return categories, args.Error(1)
}

func (m *CategoryRepository) Update(ctx context.Context, id, userID int64, patch models.CategoryPatch) (*models.Category, error) {
	args := m.Called(ctx, id, userID, patch)
	category, _ := args.Get(0).(*models.Category)
	return category, args.Error(1)
}

func (m *CategoryRepository) Delete(ctx context.Context, id, userID int64) error {
	return m.Called(ctx, id, userID).Error(0)
}

type TransactionRepository struct {
	mock.Mock
}

func (m *TransactionRepository) Create(ctx context.Context, userID int64, tx *models.Transaction) error {
	return m.Called(ctx, userID, tx).Error(0)
}

func (m *TransactionRepository) GetByID(ctx context.Context, id, userID int64) (*models.Transaction, error) {
	args := m.Called(ctx, id, userID)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *TransactionRepository) ListByWallet(ctx context.Context, walletID, userID int64, period models.TimeRange) ([]models.Transaction, error) {
	args := m.Called(ctx, walletID, userID, period)
	txs, _ := args.Get(0).([]models.Transaction)
	return txs, args.Error(1)
}

func (m *TransactionRepository) Update(ctx context.Context, id, userID int64, patch models.TransactionPatch) (*models.Transaction, error) {
	args := m.Called(ctx, id, userID, patch)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *TransactionRepository) Delete(ctx context.Context, id, userID int64) error {
	return m.Called(ctx, id, userID).Error(0)
}
