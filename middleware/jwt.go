package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Locals keys
const (
	LocalUserID  = "userId"
	LocalToken   = "token"
	LocalClaims  = "claims"
	LocalSession = "session"

	LocalRequestID = "reqid"
)

// userIDClaims is the single resolution order for the user id inside a token.
var userIDClaims = []string{"userId", "user_id", "id", "sub"}

var errNoUserID = errors.New("token carries no user id")

// ResolveUserID finds the user id in claims. Numbers and numeric strings are accepted.
func ResolveUserID(claims jwt.MapClaims) (uint, error) {
	for _, key := range userIDClaims {
		raw, ok := claims[key]
		if !ok || raw == nil {
			continue
		}
		id, err := toUserID(raw)
		if err != nil {
			return 0, fmt.Errorf("claim %s: %w", key, err)
		}
		return id, nil
	}
	return 0, errNoUserID
}

func toUserID(raw interface{}) (uint, error) {
	switch v := raw.(type) {
	case float64: // JWT claims are decoded as float64
		if v <= 0 || v != float64(uint(v)) {
			return 0, fmt.Errorf("invalid user id %v", v)
		}
		return uint(v), nil
	case json.Number:
		return parseUserID(v.String())
	case string:
		return parseUserID(v)
	}
	return 0, fmt.Errorf("unsupported user id type %T", raw)
}

func parseUserID(s string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return uint(n), nil
}

// JWTMiddleware checks for a valid bearer token signed with secret and puts
// the user id, the raw token and the claims into the request locals.
func JWTMiddleware(secret string) fiber.Handler {
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		// Get the token from the Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
		}

		// The token should be prefixed with "Bearer "
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid Authorization header format", nil)
		}

		tokenString := strings.TrimSpace(authHeader[len("Bearer "):])

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
		}

		userID, err := ResolveUserID(claims)
		if err != nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
		}

		c.Locals(LocalUserID, userID)
		c.Locals(LocalToken, tokenString)
		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

// UserID returns the id resolved by JWTMiddleware.
func UserID(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals(LocalUserID).(uint)
	if !ok || id == 0 {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized!")
	}
	return id, nil
}

// Token returns the bearer token of the request.
func Token(c *fiber.Ctx) string {
	token, _ := c.Locals(LocalToken).(string)
	return token
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
