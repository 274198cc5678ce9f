package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientauth/client-auth/internal/domain"
	apperrors "github.com/clientauth/client-auth/pkg/util/errorutil"
)

func newTestApp(t *testing.T, svc *TokenService, guards ...fiber.Handler) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	handlers := []fiber.Handler{NewAuthMiddleware(svc).Handle}
	handlers = append(handlers, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.JSON(fiber.Map{
			"client_id":   principal.ClientID,
			"principal":   principal.Authentication.Principal,
			"authorities": principal.Authentication.Authorities,
		})
	})
	app.Get("/protected", handlers...)
	return app
}

func doRequest(t *testing.T, app *fiber.App, header string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func issue(t *testing.T, svc *TokenService, authority string) string {
	t.Helper()
	var extra map[string]any
	if authority != "" {
		extra = map[string]any{ClaimAuthority: authority}
	}
	token, _, err := svc.IssueToken(identity("client-42"), domain.TokenCategoryAccess, extra)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestService(t, nil)
	app := newTestApp(t, svc)
	withoutAuthority := issue(t, svc, "")

	cases := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "basic scheme", header: "Basic abc"},
		{name: "bearer without token", header: "Bearer"},
		{name: "bearer without space", header: "Bearertoken"},
		{name: "garbage token", header: "Bearer not.a.token"},
		{name: "no authority claim", header: "Bearer " + withoutAuthority},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doRequest(t, app, tc.header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "UNAUTHORIZED", body)
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	clock := newFakeClock()
	svc := newTestService(t, clock)
	app := newTestApp(t, svc)
	token := issue(t, svc, RoleUser)

	status, _ := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)

	clock.Advance(24*time.Hour + time.Second)
	status, _ = doRequest(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthMiddleware_SetsPrincipal(t *testing.T) {
	svc := newTestService(t, nil)
	app := newTestApp(t, svc)

	status, body := doRequest(t, app, "Bearer "+issue(t, svc, RoleUser))
	require.Equal(t, http.StatusOK, status)

	var got struct {
		ClientID    string   `json:"client_id"`
		Principal   string   `json:"principal"`
		Authorities []string `json:"authorities"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "client-42", got.ClientID)
	assert.Equal(t, "client-42", got.Principal)
	assert.Equal(t, []string{RoleUser}, got.Authorities)
}

type countingVerifier struct {
	next  TokenVerifier
	calls int
}

func (v *countingVerifier) Authenticate(header string) (*Authentication, string, error) {
	v.calls++
	return v.next.Authenticate(header)
}

func TestAuthMiddleware_VerifiesOncePerRequest(t *testing.T) {
	svc := newTestService(t, nil)
	verifier := &countingVerifier{next: svc}
	app := fiber.New()
	app.Get("/protected", NewAuthMiddleware(verifier).Handle, func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, svc, RoleUser))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, verifier.calls)
}

func TestRequireAuthority(t *testing.T) {
	svc := newTestService(t, nil)
	app := newTestApp(t, svc, RequireAuthority(RoleAdmin))

	status, body := doRequest(t, app, "Bearer "+issue(t, svc, RoleUser))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body)

	status, _ = doRequest(t, app, "Bearer "+issue(t, svc, RoleAdmin))
	assert.Equal(t, http.StatusOK, status)
}

func TestRequireAuthority_WithoutMiddleware(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Get("/open", RequireAnyAuthority(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
