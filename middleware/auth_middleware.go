package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	config "github.com/sahilm23/quiz_master/configs"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth, err := AuthFromContext(c)
		if err != nil || auth.Role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Admin access required",
			})
		}
		return c.Next()
	}
}

// AuthContext carries the authenticated caller through a request, so
// handlers and services read identity from an explicit value instead of
// ambient state.
type AuthContext struct {
	UserID uuid.UUID
	Role   string
}

// AuthFromContext extracts the caller from the verified JWT on the request.
func AuthFromContext(c *fiber.Ctx) (AuthContext, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return AuthContext{}, fiber.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return AuthContext{}, fiber.ErrUnauthorized
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return AuthContext{}, fiber.ErrUnauthorized
	}
	role, _ := claims["role"].(string)

	return AuthContext{UserID: userID, Role: role}, nil
}
