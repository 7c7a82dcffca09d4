package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hieuleminh03/vgov/internal/apperr"
	"github.com/hieuleminh03/vgov/internal/model"
	jwtpkg "github.com/hieuleminh03/vgov/pkg/jwt"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenRevoker remembers revoked token IDs until they would have expired
// anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisTokenStore backs TokenRevoker with redis; keys carry a TTL equal to
// the remaining token lifetime, so the set cleans itself up.
type RedisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func (s *RedisTokenStore) key(jti string) string { return "revoked_token:" + jti }

func (s *RedisTokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, s.key(jti), 1, ttl).Err()
}

func (s *RedisTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type AuthService struct {
	db        *gorm.DB
	tokens    TokenRevoker
	jwtSecret string
	jwtExpire int
}

func NewAuthService(db *gorm.DB, tokens TokenRevoker, jwtSecret string, jwtExpire int) *AuthService {
	return &AuthService{
		db:        db,
		tokens:    tokens,
		jwtSecret: jwtSecret,
		jwtExpire: jwtExpire,
	}
}

// Login verifies credentials and issues a token. Wrong email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*model.User, string, time.Time, error) {
	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", time.Time{}, apperr.Authorization("invalid email or password")
		}
		return nil, "", time.Time{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, apperr.Authorization("invalid email or password")
	}
	if !user.IsActive {
		return nil, "", time.Time{}, apperr.Authorization("account is deactivated")
	}

	token, expireAt, err := jwtpkg.GenerateToken(s.jwtSecret, user.ID, string(user.Role), user.Email, s.jwtExpire)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("generate token: %w", err)
	}
	return &user, token, expireAt, nil
}

// Logout revokes the presented token for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *jwtpkg.Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	return s.tokens.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

// Refresh issues a fresh token for an authenticated user and revokes the
// one being traded in.
func (s *AuthService) Refresh(ctx context.Context, claims *jwtpkg.Claims) (string, time.Time, error) {
	var user model.User
	if err := s.db.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", time.Time{}, apperr.NotFound(apperr.CodeUserNotFound, "user not found: id=%d", claims.UserID)
		}
		return "", time.Time{}, err
	}
	if !user.IsActive {
		return "", time.Time{}, apperr.Authorization("account is deactivated")
	}

	token, expireAt, err := jwtpkg.GenerateToken(s.jwtSecret, user.ID, string(user.Role), user.Email, s.jwtExpire)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate token: %w", err)
	}
	if claims.ExpiresAt != nil {
		// Best effort: a refresh that fails to revoke the old token still
		// succeeds, the old token simply ages out.
		_ = s.tokens.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	}
	return token, expireAt, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(apperr.CodeUserNotFound, "user not found: id=%d", id)
		}
		return nil, err
	}
	return &user, nil
}

// IsTokenRevoked is consulted by the auth middleware on every request.
func (s *AuthService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return s.tokens.IsRevoked(ctx, jti)
}
