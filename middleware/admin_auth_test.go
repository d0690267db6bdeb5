package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"safeblues-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth map[string]string

func (s stubAuth) Authenticate(_ context.Context, token string) (*models.AdminSession, error) {
	if id, ok := s[token]; ok {
		return &models.AdminSession{Token: token, AdminID: id}, nil
	}
	return nil, errors.New("session not found")
}

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/admin/ping", AdminAuthMiddleware(stubAuth{"good-token": "admin-1"}), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("admin_id").(string))
	})
	return app
}

func TestAdminAuthMiddleware(t *testing.T) {
	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid bearer", "Bearer good-token", fiber.StatusOK, "admin-1"},
		{"raw token", "good-token", fiber.StatusOK, "admin-1"},
		{"missing", "", fiber.StatusUnauthorized, "admin session token missing"},
		{"unknown", "Bearer nope", fiber.StatusUnauthorized, "invalid or expired admin session"},
	}
	app := newTestApp()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tc.body)
		})
	}
}
