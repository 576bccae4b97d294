package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed, tampered and expired tokens.
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptySecret  = errors.New("token secret is required")
)

// TokenCodec issues and verifies HS256 session tokens bound to a user id.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec constructs a codec. A zero ttl issues tokens without expiry.
func NewTokenCodec(secret string, ttl time.Duration) (*TokenCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	if ttl < 0 {
		ttl = 0
	}
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL returns the configured token lifetime, zero when tokens never expire.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for userID.
func (c *TokenCodec) Issue(userID int) (string, error) {
	if userID < 1 {
		return "", fmt.Errorf("issue token: invalid user id %d", userID)
	}
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:  strconv.Itoa(userID),
		IssuedAt: jwt.NewNumericDate(now),
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks the token signature and expiry and returns the bound user id.
// Every failure wraps ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (int, error) {
	if strings.TrimSpace(tokenString) == "" {
		return 0, ErrInvalidToken
	}

	claims := jwt.RegisteredClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	}
	if c.ttl > 0 {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return c.secret, nil
	}, opts...)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.Atoi(strings.TrimSpace(claims.Subject))
	if err != nil || userID < 1 {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return userID, nil
}
