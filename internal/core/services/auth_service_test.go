package services

import (
	"context"
	"errors"
	"testing"

	"formafusion-partners/internal/adapters/persistence/models"
	"formafusion-partners/internal/adapters/persistence/repositories"
)

func TestLoginSuccess(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		testConfig(),
	)
	createTestAdmin(t, db, "admin@example.com")

	result, err := svc.Login(context.Background(), &LoginInput{
		Email:    "admin@example.com",
		Password: "admin-password",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("tokens missing")
	}
	if result.User.Role != "admin" {
		t.Errorf("role = %s", result.User.Role)
	}

	// Refresh token persisted hashed
	var count int64
	db.Model(&models.RefreshToken{}).Count(&count)
	if count != 1 {
		t.Errorf("stored refresh tokens = %d, want 1", count)
	}
	var stored models.RefreshToken
	db.First(&stored)
	if stored.TokenHash == result.RefreshToken {
		t.Error("refresh token stored in plaintext")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		testConfig(),
	)
	createTestAdmin(t, db, "admin@example.com")

	_, err := svc.Login(context.Background(), &LoginInput{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		testConfig(),
	)

	_, err := svc.Login(context.Background(), &LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		testConfig(),
	)
	createTestAdmin(t, db, "admin@example.com")

	login, err := svc.Login(context.Background(), &LoginInput{
		Email:    "admin@example.com",
		Password: "admin-password",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("no new access token")
	}

	// The old refresh token is revoked after rotation
	if _, err := svc.RefreshToken(context.Background(), login.RefreshToken); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("reuse err = %v, want ErrTokenRevoked", err)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		testConfig(),
	)
	createTestAdmin(t, db, "admin@example.com")

	login, err := svc.Login(context.Background(), &LoginInput{
		Email:    "admin@example.com",
		Password: "admin-password",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(context.Background(), login.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := svc.RefreshToken(context.Background(), login.RefreshToken); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("err after logout = %v, want ErrTokenRevoked", err)
	}
}
