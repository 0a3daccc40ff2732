// Package token issues and verifies the HS256 bearer tokens used by the API.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"

	"github.com/fiscalbr/classtrib/internal/auth/domain"
	"github.com/fiscalbr/classtrib/internal/clock"
	"github.com/fiscalbr/classtrib/internal/config"
)

const defaultTokenTTL = 12 * time.Hour

var ErrInvalidToken = errors.New("invalid_token")

// Claims carries the user identity embedded in issued tokens. Name and
// TaxID travel in the token so report stamping does not need a user lookup.
type Claims struct {
	Name  string      `json:"name"`
	TaxID string      `json:"cpfCnpj,omitempty"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (snowflake.ID, error) {
	return snowflake.ParseString(c.Subject)
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewManager(cfg config.Config, clk clock.Clock) (*Manager, error) {
	if cfg.AuthJWTSecret == "" {
		return nil, errors.New("auth: jwt secret is required")
	}
	return &Manager{
		secret: []byte(cfg.AuthJWTSecret),
		ttl:    defaultTokenTTL,
		clock:  clk,
	}, nil
}

func (m *Manager) Issue(user *domain.User) (string, error) {
	now := m.clock.Now()
	claims := Claims{
		Name:  user.Name,
		TaxID: user.TaxID,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.clock.Now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
