package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hieuleminh03/vgov/internal/apperr"
	"github.com/hieuleminh03/vgov/internal/model"
	jwtpkg "github.com/hieuleminh03/vgov/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// memoryTokenStore is an in-process TokenRevoker for tests.
type memoryTokenStore struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{revoked: make(map[string]bool)}
}

func (s *memoryTokenStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = true
	return nil
}

func (s *memoryTokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[jti], nil
}

func newAuthFixture(t *testing.T) (*AuthService, *memoryTokenStore, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	store := newMemoryTokenStore()
	return NewAuthService(db, store, "test-secret", 24), store, db
}

func seedCredentialedUser(t *testing.T, db *gorm.DB, password string, active bool) *model.User {
	t.Helper()
	user := seedUser(t, db, model.RoleDev, active)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Model(user).Update("password_hash", string(hash)).Error; err != nil {
		t.Fatalf("set password: %v", err)
	}
	user.PasswordHash = string(hash)
	return user
}

func TestLogin(t *testing.T) {
	svc, _, db := newAuthFixture(t)
	user := seedCredentialedUser(t, db, "secret123", true)

	loggedIn, token, expireAt, err := svc.Login(user.Email, "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("want user %d, got %d", user.ID, loggedIn.ID)
	}
	if token == "" || expireAt.Before(time.Now()) {
		t.Fatal("token missing or already expired")
	}

	claims, err := jwtpkg.ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("claims wrong: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("token must carry a JTI")
	}
}

func TestLoginFailures(t *testing.T) {
	svc, _, db := newAuthFixture(t)
	seedCredentialedUser(t, db, "secret123", true)
	inactive := seedCredentialedUser(t, db, "secret123", false)

	tests := []struct {
		name     string
		email    string
		password string
		wantMsg  string
	}{
		{"unknown email", "nobody@vgov.vn", "secret123", "invalid email or password"},
		{"wrong password", inactive.Email, "wrong", "invalid email or password"},
		{"deactivated account", inactive.Email, "secret123", "account is deactivated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := svc.Login(tt.email, tt.password)
			if !apperr.IsAuthorization(err) {
				t.Fatalf("want authorization error, got %v", err)
			}
			if appErr, _ := apperr.From(err); appErr.Message != tt.wantMsg {
				t.Fatalf("want message %q, got %q", tt.wantMsg, appErr.Message)
			}
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, db := newAuthFixture(t)
	user := seedCredentialedUser(t, db, "secret123", true)

	_, token, _, err := svc.Login(user.Email, "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := jwtpkg.ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ctx := context.Background()
	revoked, err := svc.IsTokenRevoked(ctx, claims.ID)
	if err != nil || revoked {
		t.Fatalf("token revoked before logout: %v %v", revoked, err)
	}
	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}
	revoked, err = svc.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !revoked {
		t.Fatal("token must be revoked after logout")
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, db := newAuthFixture(t)
	user := seedCredentialedUser(t, db, "secret123", true)

	_, token, _, err := svc.Login(user.Email, "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	oldClaims, err := jwtpkg.ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ctx := context.Background()
	newToken, _, err := svc.Refresh(ctx, oldClaims)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	newClaims, err := jwtpkg.ParseToken("test-secret", newToken)
	if err != nil {
		t.Fatalf("parse new token: %v", err)
	}
	if newClaims.ID == oldClaims.ID {
		t.Fatal("refresh must mint a fresh JTI")
	}

	revoked, err := svc.IsTokenRevoked(ctx, oldClaims.ID)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !revoked {
		t.Fatal("old token must be revoked after refresh")
	}
}

func TestRefreshDeactivatedAccount(t *testing.T) {
	svc, _, db := newAuthFixture(t)
	user := seedCredentialedUser(t, db, "secret123", true)

	_, token, _, err := svc.Login(user.Email, "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := jwtpkg.ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if err := db.Model(user).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, _, err := svc.Refresh(context.Background(), claims); !apperr.IsAuthorization(err) {
		t.Fatalf("want authorization error, got %v", err)
	}
}
