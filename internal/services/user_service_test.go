package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/honeynil/kapitalist/internal/config"
	"github.com/honeynil/kapitalist/internal/infrastructure/auth"
	kafkamocks "github.com/honeynil/kapitalist/internal/infrastructure/kafka/mocks"
	"github.com/honeynil/kapitalist/internal/models"
	repositorymocks "github.com/honeynil/kapitalist/internal/repository/mocks"
	pkgerrors "github.com/honeynil/kapitalist/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type userServiceFixture struct {
	svc      *userService
	repo     *repositorymocks.UserRepository
	producer *kafkamocks.KafkaProducer
	jwt      *auth.JWTService
}

func newUserServiceFixture(t *testing.T) *userServiceFixture {
	t.Helper()
	jwtService, err := auth.NewJWTService(config.JWTConfig{
		Secret:   "test-secret",
		Issuer:   "kapitalist",
		TokenTTL: time.Hour,
		Leeway:   time.Minute,
	}, zap.NewNop())
	require.NoError(t, err)

	repo := &repositorymocks.UserRepository{}
	producer := &kafkamocks.KafkaProducer{}
	svc := NewUserService(repo, jwtService, newTestPublisher(producer), zap.NewNop())
	svc.hashCost = bcrypt.MinCost
	return &userServiceFixture{svc: svc, repo: repo, producer: producer, jwt: jwtService}
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("successful registration", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "alice@example.com" &&
				u.Username == "alice" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret!!")) == nil
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = 42
		}).Return(nil).Once()
		f.producer.On("Send", mock.Anything, models.TopicUsers, int64(42), mock.Anything).Return(nil).Once()

		user, err := f.svc.Register(ctx, "alice@example.com", "alice", "s3cret!!")
		require.NoError(t, err)
		assert.Equal(t, int64(42), user.ID)

		f.svc.publisher.Wait()
		f.repo.AssertExpectations(t)
		f.producer.AssertExpectations(t)
	})

	t.Run("empty input", func(t *testing.T) {
		f := newUserServiceFixture(t)
		_, err := f.svc.Register(ctx, "", "alice", "pw")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.repo.On("Create", mock.Anything, mock.Anything).Return(pkgerrors.ErrEmailExists).Once()

		_, err := f.svc.Register(ctx, "alice@example.com", "alice", "pw")
		assert.ErrorIs(t, err, pkgerrors.ErrEmailExists)
		f.producer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate username", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.repo.On("Create", mock.Anything, mock.Anything).Return(pkgerrors.ErrUsernameExists).Once()

		_, err := f.svc.Register(ctx, "bob@example.com", "alice", "pw")
		assert.ErrorIs(t, err, pkgerrors.ErrUsernameExists)
	})

	t.Run("database failure", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

		_, err := f.svc.Register(ctx, "alice@example.com", "alice", "pw")
		assert.ErrorIs(t, err, pkgerrors.ErrInternal)
		assert.NotContains(t, err.Error(), "connection reset")
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login issues a verifiable token", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.repo.On("GetByEmail", mock.Anything, "alice@example.com").
			Return(&models.User{ID: 7, Email: "alice@example.com", PasswordHash: hashed(t, "pw")}, nil).Once()

		token, err := f.svc.Login(ctx, "alice@example.com", "pw")
		require.NoError(t, err)

		identity, err := f.jwt.Verify("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), identity.UserID)

		claims, err := f.jwt.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, auth.SubjectAuth, claims.Subject)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, pkgerrors.ErrUserNotFound).Once()

		token, err := f.svc.Login(ctx, "nobody@example.com", "pw")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.repo.On("GetByEmail", mock.Anything, "alice@example.com").
			Return(&models.User{ID: 7, PasswordHash: hashed(t, "pw")}, nil).Once()

		token, err := f.svc.Login(ctx, "alice@example.com", "wrong")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("database failure", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, errors.New("timeout")).Once()

		_, err := f.svc.Login(ctx, "alice@example.com", "pw")
		assert.ErrorIs(t, err, pkgerrors.ErrInternal)
	})
}

func TestUserService_MeAndUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("me", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.repo.On("GetByID", mock.Anything, int64(7)).Return(&models.User{ID: 7, Username: "alice"}, nil).Once()

		user, err := f.svc.Me(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("me not found", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.repo.On("GetByID", mock.Anything, int64(8)).Return(nil, pkgerrors.ErrUserNotFound).Once()

		_, err := f.svc.Me(ctx, 8)
		assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
	})

	t.Run("empty update", func(t *testing.T) {
		f := newUserServiceFixture(t)
		_, err := f.svc.UpdateMe(ctx, 7, models.UserPatch{})
		assert.ErrorIs(t, err, pkgerrors.ErrEmptyUpdate)
	})

	t.Run("password is hashed before storage", func(t *testing.T) {
		f := newUserServiceFixture(t)
		plain := "n3w-password"
		f.repo.On("Update", mock.Anything, int64(7), mock.MatchedBy(func(p models.UserPatch) bool {
			return p.Password != nil && *p.Password != plain &&
				bcrypt.CompareHashAndPassword([]byte(*p.Password), []byte(plain)) == nil
		})).Return(&models.User{ID: 7}, nil).Once()

		_, err := f.svc.UpdateMe(ctx, 7, models.UserPatch{Password: &plain})
		require.NoError(t, err)
		f.repo.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		f := newUserServiceFixture(t)
		name := "bob"
		f.repo.On("Update", mock.Anything, int64(7), mock.Anything).Return(nil, pkgerrors.ErrUsernameExists).Once()

		_, err := f.svc.UpdateMe(ctx, 7, models.UserPatch{Username: &name})
		assert.ErrorIs(t, err, pkgerrors.ErrUsernameExists)
	})
}
