package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SubjectAuth is the subject of tokens handed out on login.
const SubjectAuth = "auth"

// TokenClaims is the payload of every token issued by the service.
// Audience is a plain string on the wire, not an array.
type TokenClaims struct {
	Issuer    string           `json:"iss"`
	Subject   string           `json:"sub"`
	Audience  string           `json:"aud"`
	IssuedAt  *jwt.NumericDate `json:"iat"`
	ExpiresAt *jwt.NumericDate `json:"exp"`
	UserID    int64            `json:"uid"`
}

var _ jwt.Claims = (*TokenClaims)(nil)

// NewTokenClaims builds a claim set issued at issuedAt and valid for ttl.
// issuer doubles as the audience.
func NewTokenClaims(issuer, subject string, userID int64, issuedAt time.Time, ttl time.Duration) *TokenClaims {
	iat := jwt.NewNumericDate(issuedAt)
	return &TokenClaims{
		Issuer:    issuer,
		Subject:   subject,
		Audience:  issuer,
		IssuedAt:  iat,
		ExpiresAt: jwt.NewNumericDate(iat.Add(ttl)),
		UserID:    userID,
	}
}

func (c *TokenClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return c.ExpiresAt, nil
}

func (c *TokenClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return c.IssuedAt, nil
}

func (c *TokenClaims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

func (c *TokenClaims) GetIssuer() (string, error) {
	return c.Issuer, nil
}

func (c *TokenClaims) GetSubject() (string, error) {
	return c.Subject, nil
}

func (c *TokenClaims) GetAudience() (jwt.ClaimStrings, error) {
	if c.Audience == "" {
		return nil, nil
	}
	return jwt.ClaimStrings{c.Audience}, nil
}
