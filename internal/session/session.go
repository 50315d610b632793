// Package session issues and resolves signed session tokens bound to a
// Discord identity.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guildapply/internal/cache"
	"guildapply/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrInvalidSession is returned for missing, malformed, expired or revoked tokens.
var ErrInvalidSession = errors.New("invalid session")

const issuer = "guildapply"

// Claims is the JWT payload. The subject is the Discord id.
type Claims struct {
	Username string  `json:"username"`
	Avatar   *string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs session tokens and checks them against the Redis revocation list.
type Manager struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client
	now    func() time.Time
}

// NewManager returns a Manager. rdb may be nil, in which case logout cannot revoke tokens.
func NewManager(secret string, ttl time.Duration, rdb *redis.Client) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, rdb: rdb, now: time.Now}
}

// TTL is the lifetime of newly issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a new token for identity.
func (m *Manager) Issue(identity models.Identity) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		Username: identity.DisplayName,
		Avatar:   identity.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ExternalID,
			Issuer:    issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session: %w", err)
	}
	return token, claims, nil
}

func (m *Manager) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Resolve validates token and returns the identity and token id it carries.
func (m *Manager) Resolve(ctx context.Context, token string) (*models.Identity, string, error) {
	claims, err := m.parse(token)
	if err != nil {
		return nil, "", err
	}
	if m.rdb != nil {
		revoked, err := m.rdb.Exists(ctx, cache.SessionRevokedKey(claims.ID)).Result()
		if err != nil {
			return nil, "", fmt.Errorf("check session revocation: %w", err)
		}
		if revoked > 0 {
			return nil, "", ErrInvalidSession
		}
	}
	return &models.Identity{
		ExternalID:  claims.Subject,
		DisplayName: claims.Username,
		AvatarURL:   claims.Avatar,
	}, claims.ID, nil
}

// Revoke blocks token until it would have expired anyway.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return err
	}
	if m.rdb == nil {
		return nil
	}
	remaining := claims.ExpiresAt.Sub(m.now())
	if remaining <= 0 {
		return nil
	}
	return m.rdb.Set(ctx, cache.SessionRevokedKey(claims.ID), "1", remaining).Err()
}
