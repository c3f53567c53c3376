package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/honeynil/kapitalist/internal/config"
	"github.com/honeynil/kapitalist/internal/infrastructure/observability"
	pkgerrors "github.com/honeynil/kapitalist/pkg/errors"
	"go.uber.org/zap"
)

const bearerScheme = "Bearer"

// Tokens are signed and verified with HS256 only.
var signingMethod = jwt.SigningMethodHS256

// Identity is the result of a successful verification.
type Identity struct {
	UserID int64
}

// JWTService issues and verifies bearer tokens. It is immutable after
// construction and safe for concurrent use.
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
	parser *jwt.Parser
	logger *zap.Logger
}

type Option func(*JWTService)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		s.now = now
	}
}

func NewJWTService(cfg config.JWTConfig, logger *zap.Logger, opts ...Option) (*JWTService, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("JWT secret not set")
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("JWT issuer not set")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", cfg.TokenTTL)
	}
	if cfg.Leeway < 0 {
		return nil, fmt.Errorf("token leeway must not be negative, got %s", cfg.Leeway)
	}

	s := &JWTService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL,
		leeway: cfg.Leeway,
		now:    time.Now,
		logger: logger.Named("auth"),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Time bounds, issuer and audience are checked by checkClaims so that the
	// expiry boundary is inclusive of the leeway.
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	return s, nil
}

// NewClaims builds a fresh claim set for userID.
func (s *JWTService) NewClaims(subject string, userID int64) *TokenClaims {
	return NewTokenClaims(s.issuer, subject, userID, s.now(), s.ttl)
}

// Issue signs a new token for userID.
func (s *JWTService) Issue(subject string, userID int64) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("token subject is empty")
	}
	token, err := jwt.NewWithClaims(signingMethod, s.NewClaims(subject, userID)).SignedString(s.secret)
	if err != nil {
		s.logger.Error("failed to sign token", zap.Int64("user_id", userID), zap.Error(err))
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Verify authenticates a single Authorization header value.
func (s *JWTService) Verify(headerValue string) (Identity, error) {
	return s.Authenticate([]string{headerValue})
}

// Authenticate tries every Authorization header value in order and returns
// the identity of the first one that verifies. Any failure is reported as
// ErrUnauthorized; the cause is only logged.
func (s *JWTService) Authenticate(headerValues []string) (Identity, error) {
	if len(headerValues) == 0 {
		s.reject(ErrMissingCredential)
		return Identity{}, pkgerrors.ErrUnauthorized
	}

	var lastErr error
	for i, value := range headerValues {
		identity, err := s.verifyCandidate(value)
		if err == nil {
			return identity, nil
		}
		s.logger.Debug("bearer candidate rejected", zap.Int("candidate", i), zap.Error(err))
		lastErr = err
	}

	s.reject(lastErr)
	return Identity{}, pkgerrors.ErrUnauthorized
}

func (s *JWTService) verifyCandidate(value string) (Identity, error) {
	if value == "" {
		return Identity{}, ErrMissingCredential
	}

	parts := strings.Split(value, " ")
	if len(parts) != 2 || parts[0] != bearerScheme || parts[1] == "" {
		return Identity{}, ErrMalformedCredential
	}

	claims, err := s.ParseToken(parts[1])
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: claims.UserID}, nil
}

// ParseToken verifies the signature, time bounds, issuer and audience of a
// raw token. Unlike Authenticate it returns the specific cause of failure.
func (s *JWTService) ParseToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if err := s.checkClaims(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *JWTService) checkClaims(c *TokenClaims) error {
	now := s.now()

	if c.ExpiresAt == nil {
		return fmt.Errorf("%w: exp claim is missing", ErrTokenExpired)
	}
	if now.After(c.ExpiresAt.Add(s.leeway)) {
		return fmt.Errorf("%w: expired at %s", ErrTokenExpired, c.ExpiresAt.UTC().Format(time.RFC3339))
	}
	if c.IssuedAt == nil {
		return fmt.Errorf("%w: iat claim is missing", ErrInvalidToken)
	}
	if c.IssuedAt.After(now.Add(s.leeway)) {
		return fmt.Errorf("%w: issued at %s", ErrTokenNotYetValid, c.IssuedAt.UTC().Format(time.RFC3339))
	}

	if c.Issuer != s.issuer {
		return fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, c.Issuer)
	}
	if c.Audience != s.issuer {
		return fmt.Errorf("%w: unexpected audience %q", ErrInvalidToken, c.Audience)
	}
	if c.Subject == "" {
		return fmt.Errorf("%w: sub claim is empty", ErrInvalidToken)
	}
	return nil
}

func (s *JWTService) reject(cause error) {
	r := reason(cause)
	observability.AuthFailures.WithLabelValues(r).Inc()
	s.logger.Info("request unauthorized", zap.String("reason", r), zap.Error(cause))
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
}
