package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	for _, h := range handlers {
		app.Use(h)
	}
	app.Get("/ping", func(c *fiber.Ctx) error {
		id, _ := c.Locals(LocalUserID).(string)
		return c.SendString("pong:" + id)
	})
	return app
}

func TestGatewayAuthMiddleware(t *testing.T) {
	app := newApp(GatewayAuthMiddleware("s3cret", zerolog.Nop()))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong", "Bearer nope", fiber.StatusUnauthorized},
		{"bearer", "Bearer s3cret", fiber.StatusOK},
		{"raw", "s3cret", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestGatewayAuthMiddleware_EmptyTokenRejectsAll(t *testing.T) {
	app := newApp(GatewayAuthMiddleware("", zerolog.Nop()))
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Authorization", "Bearer ")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestUserContextMiddleware(t *testing.T) {
	app := newApp(UserContextMiddleware(zerolog.Nop()))

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 without user, got %d", resp.StatusCode)
	}

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-User-ID", "u-1")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 with user, got %d", resp.StatusCode)
	}
}

func TestRequireRoles(t *testing.T) {
	app := newApp(UserContextMiddleware(zerolog.Nop()), RequireRoles("admin"))

	tests := map[string]int{
		"":              fiber.StatusForbidden,
		"player":        fiber.StatusForbidden,
		"player, ADMIN": fiber.StatusOK,
	}
	for roles, want := range tests {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("X-User-ID", "u-1")
		req.Header.Set("X-User-Roles", roles)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		if resp.StatusCode != want {
			t.Errorf("roles %q: expected %d, got %d", roles, want, resp.StatusCode)
		}
	}
}

func TestOptionalUserContext(t *testing.T) {
	app := fiber.New()
	app.Use(OptionalUserContext(zerolog.Nop()))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		id, _ := c.Locals(LocalUserID).(string)
		if HasRole(c, "admin") {
			return c.SendString(id + ":admin")
		}
		return c.SendString(id + ":viewer")
	})

	tests := []struct {
		userID, roles, want string
	}{
		{"", "", ":viewer"},
		{"", "admin", ":viewer"},
		{"u-1", "player", "u-1:viewer"},
		{"u-1", "Admin", "u-1:admin"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("X-User-ID", tt.userID)
		req.Header.Set("X-User-Roles", tt.roles)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != fiber.StatusOK || string(body) != tt.want {
			t.Errorf("user %q roles %q: got %d %q, want %q", tt.userID, tt.roles, resp.StatusCode, body, tt.want)
		}
	}
}
