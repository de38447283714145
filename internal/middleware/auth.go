package middleware

import (
	"os"
	"strings"

	"github.com/ethanx94/chatty/internal/httpx"
	"github.com/ethanx94/chatty/internal/repository"
	"github.com/ethanx94/chatty/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthRequired verifies the HS256 bearer token and resolves the full user
// row into locals. Downstream handlers build the request's auth context from
// it; an absent or invalid token never reaches them.
func AuthRequired(users repository.UserRepositoryInterface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return httpx.Unauthorized(c, "missing_access_token", "Missing access token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return httpx.Unauthorized(c, "invalid_authorization", "Invalid authorization format")
		}

		token, err := jwt.ParseWithClaims(parts[1], &service.Claims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method == nil || token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			return httpx.Unauthorized(c, "invalid_access_token", "Invalid or expired token")
		}

		claims, ok := token.Claims.(*service.Claims)
		if !ok {
			return httpx.Unauthorized(c, "invalid_access_token", "Invalid token")
		}

		user, err := users.FindByID(claims.UserID)
		if err != nil {
			return httpx.Unauthorized(c, "unknown_user", "Unknown user")
		}

		c.Locals("userID", user.ID)
		c.Locals("currentUser", user)

		return c.Next()
	}
}
