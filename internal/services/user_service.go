package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/honeynil/kapitalist/internal/infrastructure/auth"
	"github.com/honeynil/kapitalist/internal/models"
	"github.com/honeynil/kapitalist/internal/repository"
	pkgerrors "github.com/honeynil/kapitalist/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(ctx context.Context, email, username, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
	UpdateMe(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error)
}

// TokenIssuer signs login tokens.
type TokenIssuer interface {
	Issue(subject string, userID int64) (string, error)
}

type userService struct {
	userRepo  repository.UserRepository
	tokens    TokenIssuer
	publisher *EventPublisher
	logger    *zap.Logger
	hashCost  int
}

func NewUserService(userRepo repository.UserRepository, tokens TokenIssuer, publisher *EventPublisher, logger *zap.Logger) *userService {
	return &userService{
		userRepo:  userRepo,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger.Named("user-service"),
		hashCost:  bcrypt.DefaultCost,
	}
}

func (s *userService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	ctx, span := otel.Tracer("user-service").Start(ctx, "Register")
	defer span.End()

	if email == "" || username == "" || password == "" {
		span.SetStatus(codes.Error, "empty email, username or password")
		return nil, pkgerrors.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "password hashing failed")
		s.logger.Error("failed to hash password", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("%w: failed to hash password", pkgerrors.ErrInternal)
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if stderrors.Is(err, pkgerrors.ErrEmailExists) || stderrors.Is(err, pkgerrors.ErrUsernameExists) {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "user creation failed")
		s.logger.Error("failed to create user", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("%w: failed to create user", pkgerrors.ErrInternal)
	}
	span.SetAttributes(attribute.Int64("user_id", user.ID))

	s.publisher.Publish(models.TopicUsers, models.Event{
		Type:     models.EventUserRegistered,
		UserID:   user.ID,
		Username: user.Username,
	})

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", username))
	return user, nil
}

// Login never tells an unknown email apart from a wrong password.
func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	ctx, span := otel.Tracer("user-service").Start(ctx, "Login")
	defer span.End()

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !stderrors.Is(err, pkgerrors.ErrUserNotFound) && !stderrors.Is(err, pkgerrors.ErrInvalidInput) {
			span.RecordError(err)
			s.logger.Error("failed to load user for login", zap.Error(err))
			return "", fmt.Errorf("%w: failed to load user", pkgerrors.ErrInternal)
		}
		s.logger.Info("login failed, unknown email")
		return "", pkgerrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed, wrong password", zap.Int64("user_id", user.ID))
		return "", pkgerrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.SubjectAuth, user.ID)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("failed to issue token", zap.Int64("user_id", user.ID), zap.Error(err))
		return "", fmt.Errorf("%w: failed to issue token", pkgerrors.ErrInternal)
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	return token, nil
}

func (s *userService) Me(ctx context.Context, userID int64) (*models.User, error) {
	ctx, span := otel.Tracer("user-service").Start(ctx, "Me")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", userID))

	return result(s.userRepo.GetByID(ctx, userID))
}

func (s *userService) UpdateMe(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error) {
	ctx, span := otel.Tracer("user-service").Start(ctx, "UpdateMe")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", userID))

	if patch.IsEmpty() {
		return nil, pkgerrors.ErrEmptyUpdate
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), s.hashCost)
		if err != nil {
			span.RecordError(err)
			s.logger.Error("failed to hash password", zap.Int64("user_id", userID), zap.Error(err))
			return nil, fmt.Errorf("%w: failed to hash password", pkgerrors.ErrInternal)
		}
		hashed := string(hash)
		patch.Password = &hashed
	}

	user, err := s.userRepo.Update(ctx, userID, patch)
	if err != nil {
		return nil, translate(err)
	}

	s.logger.Info("user updated", zap.Int64("user_id", userID))
	return user, nil
}
