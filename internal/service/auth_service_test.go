package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ruda-paints/internal/config"
	"github.com/ruda-paints/internal/constants"
	"github.com/ruda-paints/internal/repository"
)

func newAuthServiceForTest(t *testing.T) *AuthService {
	t.Helper()
	repo := repository.NewAdminRepository(openServiceTestDB(t))
	return NewAuthService(
		config.JWTConfig{SecretKey: "test-secret", ExpireHours: 2},
		config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true},
		repo,
	)
}

func TestCreateAdminAndLogin(t *testing.T) {
	svc := newAuthServiceForTest(t)
	admin, err := svc.CreateAdmin(CreateAdminInput{Username: "manager", Email: "Manager@Ruda.co.ke", Password: "paint2024"})
	if err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	if admin.Role != constants.AdminRoleAdmin || admin.Email != "manager@ruda.co.ke" {
		t.Fatalf("unexpected admin %+v", admin)
	}

	if _, _, _, err := svc.Login("manager", "wrong-pass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password should fail, got %v", err)
	}
	logged, token, expiresAt, err := svc.Login("manager@ruda.co.ke", "paint2024")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.LastLoginAt == nil || time.Until(expiresAt) > 2*time.Hour {
		t.Fatalf("unexpected login result %+v %s", logged, expiresAt)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Role != constants.AdminRoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if _, err := svc.ResolveAuthState(context.Background(), claims); err != nil {
		t.Fatalf("fresh token should resolve, got %v", err)
	}
}

func TestCreateAdminRejectsDuplicatesAndWeakPasswords(t *testing.T) {
	svc := newAuthServiceForTest(t)
	if _, err := svc.CreateAdmin(CreateAdminInput{Username: "owner", Email: "owner@ruda.co.ke", Password: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("short password should be weak, got %v", err)
	}
	if _, err := svc.CreateAdmin(CreateAdminInput{Username: "owner", Email: "owner@ruda.co.ke", Password: "longbutnodigits"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("password without digits should be weak, got %v", err)
	}
	if _, err := svc.CreateAdmin(CreateAdminInput{Username: "owner", Email: "owner@ruda.co.ke", Password: "paint2024", Role: "root"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown role should fail validation, got %v", err)
	}
	if _, err := svc.CreateAdmin(CreateAdminInput{Username: "owner", Email: "owner@ruda.co.ke", Password: "paint2024"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.CreateAdmin(CreateAdminInput{Username: "owner", Email: "other@ruda.co.ke", Password: "paint2024"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate username should conflict, got %v", err)
	}
}

func TestChangePasswordRevokesOldTokens(t *testing.T) {
	svc := newAuthServiceForTest(t)
	admin, _ := svc.CreateAdmin(CreateAdminInput{Username: "owner", Email: "owner@ruda.co.ke", Password: "paint2024"})
	_, token, _, err := svc.Login("owner", "paint2024")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.ChangePassword(admin.ID, "bad-old-1", "newpaint2025"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("wrong old password should fail, got %v", err)
	}
	if err := svc.ChangePassword(admin.ID, "paint2024", "newpaint2025"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("token still parses: %v", err)
	}
	if _, err := svc.ResolveAuthState(context.Background(), claims); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old token should be revoked, got %v", err)
	}
	if _, _, _, err := svc.Login("owner", "newpaint2025"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestParseJWTRejectsForeignSecret(t *testing.T) {
	svc := newAuthServiceForTest(t)
	admin, _ := svc.CreateAdmin(CreateAdminInput{Username: "owner", Email: "owner@ruda.co.ke", Password: "paint2024"})
	other := NewAuthService(config.JWTConfig{SecretKey: "another"}, config.PasswordPolicyConfig{}, nil)
	token, _, err := other.GenerateJWT(admin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := svc.ParseJWT(token); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}
