package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/honeynil/kapitalist/internal/infrastructure/redis"
	"github.com/honeynil/kapitalist/internal/models"
	"github.com/honeynil/kapitalist/internal/repository"
	pkgerrors "github.com/honeynil/kapitalist/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type WalletService interface {
	Create(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error)
	Get(ctx context.Context, id, userID int64) (*models.Wallet, error)
	List(ctx context.Context, userID int64) ([]models.Wallet, error)
	Update(ctx context.Context, id, userID int64, patch models.WalletPatch) (*models.Wallet, error)
	Delete(ctx context.Context, id, userID int64) error
}

type walletService struct {
	walletRepo repository.WalletRepository
	cache      redis.RedisClient
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewWalletService caches single wallet reads in Redis for cacheTTL. A nil
// cache disables caching.
func NewWalletService(walletRepo repository.WalletRepository, cache redis.RedisClient, cacheTTL time.Duration, logger *zap.Logger) *walletService {
	return &walletService{
		walletRepo: walletRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger.Named("wallet-service"),
	}
}

func walletKey(id int64) string {
	return fmt.Sprintf("wallet:%d", id)
}

func (s *walletService) Create(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	ctx, span := otel.Tracer("wallet-service").Start(ctx, "CreateWallet")
	defer span.End()

	if wallet == nil || wallet.Name == "" {
		return nil, pkgerrors.ErrInvalidInput
	}
	span.SetAttributes(attribute.Int64("user_id", wallet.UserID))

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		span.RecordError(err)
		return nil, translate(err)
	}
	return wallet, nil
}

func (s *walletService) Get(ctx context.Context, id, userID int64) (*models.Wallet, error) {
	ctx, span := otel.Tracer("wallet-service").Start(ctx, "GetWallet")
	defer span.End()
	span.SetAttributes(attribute.Int64("wallet_id", id), attribute.Int64("user_id", userID))

	if wallet, ok := s.cached(ctx, id); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		if wallet.UserID != userID {
			return nil, pkgerrors.ErrWalletNotFound
		}
		return wallet, nil
	}

	wallet, err := s.walletRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, translate(err)
	}
	s.store(ctx, wallet)
	return wallet, nil
}

func (s *walletService) List(ctx context.Context, userID int64) ([]models.Wallet, error) {
	ctx, span := otel.Tracer("wallet-service").Start(ctx, "ListWallets")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", userID))

	return result(s.walletRepo.ListByUser(ctx, userID))
}

func (s *walletService) Update(ctx context.Context, id, userID int64, patch models.WalletPatch) (*models.Wallet, error) {
	ctx, span := otel.Tracer("wallet-service").Start(ctx, "UpdateWallet")
	defer span.End()
	span.SetAttributes(attribute.Int64("wallet_id", id), attribute.Int64("user_id", userID))

	if patch.IsEmpty() {
		return nil, pkgerrors.ErrEmptyUpdate
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, pkgerrors.ErrInvalidInput
	}

	wallet, err := s.walletRepo.Update(ctx, id, userID, patch)
	if err != nil {
		return nil, translate(err)
	}
	s.invalidate(ctx, id)
	return wallet, nil
}

func (s *walletService) Delete(ctx context.Context, id, userID int64) error {
	ctx, span := otel.Tracer("wallet-service").Start(ctx, "DeleteWallet")
	defer span.End()
	span.SetAttributes(attribute.Int64("wallet_id", id), attribute.Int64("user_id", userID))

	if err := s.walletRepo.Delete(ctx, id, userID); err != nil {
		return translate(err)
	}
	s.invalidate(ctx, id)
	return nil
}

// Cache failures are logged and otherwise ignored; Postgres stays the source
// of truth.

func (s *walletService) cached(ctx context.Context, id int64) (*models.Wallet, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, walletKey(id))
	if err != nil {
		if !stderrors.Is(err, redis.ErrKeyNotFound) {
			s.logger.Warn("failed to read wallet cache", zap.Int64("wallet_id", id), zap.Error(err))
		}
		return nil, false
	}

	var wallet models.Wallet
	if err := json.Unmarshal([]byte(raw), &wallet); err != nil {
		s.logger.Warn("corrupt wallet cache entry", zap.Int64("wallet_id", id), zap.Error(err))
		return nil, false
	}
	return &wallet, true
}

func (s *walletService) store(ctx context.Context, wallet *models.Wallet) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(wallet)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, walletKey(wallet.ID), string(raw), s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache wallet", zap.Int64("wallet_id", wallet.ID), zap.Error(err))
	}
}

func (s *walletService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, walletKey(id)); err != nil {
		s.logger.Warn("failed to invalidate wallet cache", zap.Int64("wallet_id", id), zap.Error(err))
	}
}
