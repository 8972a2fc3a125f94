package middleware

import (
	"strings"

	"airgrid-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const callerLocal = "caller"

// RequireIdentity verifies the bearer token and attaches the caller's account
// id to the request. The token's sub claim is the externally verified
// identity; everything downstream trusts it as given.
func RequireIdentity(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return response.Unauthorized(c, "Missing bearer token")
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			return response.Unauthorized(c, "Invalid token")
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			return response.Unauthorized(c, "Invalid token subject")
		}
		id, err := uuid.Parse(sub)
		if err != nil {
			return response.Unauthorized(c, "Invalid token subject")
		}

		c.Locals(callerLocal, id)
		return c.Next()
	}
}

// Caller returns the verified caller identity, or uuid.Nil when the route ran
// without RequireIdentity.
func Caller(c *fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals(callerLocal).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
