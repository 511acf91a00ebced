package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"formafusion-partners/internal/config"
	"formafusion-partners/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

func testApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Get("/protected", AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/admin", AuthMiddleware(cfg), AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/revendeur", AuthMiddleware(cfg), RevendeurOnly(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func middlewareTestConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:          "middleware-test-secret",
			AccessTokenMins: 60,
		},
	}
}

func token(t *testing.T, cfg *config.Config, role string) string {
	t.Helper()
	tok, err := jwt.GenerateAccessToken(1, "user@example.com", role, cfg.JWT.Secret, cfg.JWT.AccessTokenMins)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

func TestAuthMiddlewareNoToken(t *testing.T) {
	cfg := middlewareTestConfig()
	app := testApp(cfg)

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAuthMiddlewareBearerToken(t *testing.T) {
	cfg := middlewareTestConfig()
	app := testApp(cfg)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, cfg, "revendeur"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAuthMiddlewareCookieToken(t *testing.T) {
	cfg := middlewareTestConfig()
	app := testApp(cfg)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token(t, cfg, "admin")})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	cfg := middlewareTestConfig()
	app := testApp(cfg)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestRoleMiddlewareForbidsWrongRole(t *testing.T) {
	cfg := middlewareTestConfig()
	app := testApp(cfg)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, cfg, "revendeur"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestRoleMiddlewareAllowsMatchingRole(t *testing.T) {
	cfg := middlewareTestConfig()
	app := testApp(cfg)

	for path, role := range map[string]string{
		"/admin":     "admin",
		"/revendeur": "revendeur",
	} {
		req := httptest.NewRequest("GET", path, nil)
		req.Header.Set("Authorization", "Bearer "+token(t, cfg, role))
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("%s as %s: status = %d, want 200", path, role, resp.StatusCode)
		}
	}
}
