package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newAuthApp(secret string) *fiber.App {
	app := fiber.New()
	app.Use(Auth(secret))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("username").(string))
	})
	return app
}

func TestAuthRejectsMissingToken(t *testing.T) {
	app := newAuthApp("secret")

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	app := newAuthApp("secret")

	token, err := SignHS256(map[string]any{"sub": "alice"}, []byte("other"))
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRejectsTokenWithoutSubject(t *testing.T) {
	app := newAuthApp("secret")

	token, err := SignHS256(map[string]any{"aud": "bank"}, []byte("secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthExposesSubject(t *testing.T) {
	app := newAuthApp("secret")

	token, err := SignHS256(map[string]any{"sub": "alice"}, []byte("secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
