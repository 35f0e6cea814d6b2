package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func readEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func TestResolveUserID(t *testing.T) {
	tests := []struct {
		name    string
		claims  jwt.MapClaims
		want    uint
		wantErr bool
	}{
		{"userId number", jwt.MapClaims{"userId": float64(7)}, 7, false},
		{"user_id string", jwt.MapClaims{"user_id": "12"}, 12, false},
		{"id json number", jwt.MapClaims{"id": json.Number("3")}, 3, false},
		{"sub string", jwt.MapClaims{"sub": "42"}, 42, false},
		{"order prefers userId", jwt.MapClaims{"sub": "1", "id": float64(2), "userId": float64(5)}, 5, false},
		{"null skipped", jwt.MapClaims{"userId": nil, "id": float64(9)}, 9, false},
		{"missing", jwt.MapClaims{"name": "x"}, 0, true},
		{"zero", jwt.MapClaims{"userId": float64(0)}, 0, true},
		{"fraction", jwt.MapClaims{"userId": 1.5}, 0, true},
		{"not numeric", jwt.MapClaims{"sub": "abc"}, 0, true},
		{"bool", jwt.MapClaims{"id": true}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveUserID(tt.claims)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newJWTApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", JWTMiddleware(testSecret), func(c *fiber.Ctx) error {
		id, err := UserID(c)
		if err != nil {
			return err
		}
		return JsonResponse(c, fiber.StatusOK, true, Token(c), id)
	})
	return app
}

func TestJWTMiddlewareAcceptsValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{"user_id": "21", "exp": time.Now().Add(time.Hour).Unix()})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := newJWTApp().Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	env := readEnvelope(t, resp)
	assert.Equal(t, token, env.Message)
	assert.JSONEq(t, `21`, string(env.Data))
}

func TestJWTMiddlewareRejects(t *testing.T) {
	expired := signToken(t, testSecret, jwt.MapClaims{"userId": float64(1), "exp": time.Now().Add(-time.Hour).Unix()})
	wrongKey := signToken(t, "other", jwt.MapClaims{"userId": float64(1)})
	noUser := signToken(t, testSecret, jwt.MapClaims{"role": "learner"})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage", "Bearer not-a-token"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"no user id", "Bearer " + noUser},
	}

	app := newJWTApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.False(t, readEnvelope(t, resp).Status)
		})
	}
}

func TestJWTMiddlewareRejectsNoneAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": float64(1)}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := newJWTApp().Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
