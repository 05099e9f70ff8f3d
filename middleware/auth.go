package middleware

import (
	"strings"

	accountModel "election-management/models/account"
	"election-management/services/token"
	"election-management/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Authenticate resolves the Bearer token to an account and stashes it in the
// request locals. Identity is re-derived from the token on every request;
// there is no server-side session store.
func Authenticate(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Not authorized, no token",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Not authorized, token failed",
			})
		}

		accountID, err := token.Verify(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Not authorized, token failed",
			})
		}

		var acct accountModel.Account
		if err := db.First(&acct, accountID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Not authorized, user not found",
			})
		}

		c.Locals("account", &acct)
		return c.Next()
	}
}

// RequireOfficial gates official-only operations. The role check is an
// exhaustive switch over the Role enum, not a string comparison.
func RequireOfficial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		acct := CurrentAccount(c)
		if acct == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Not authorized, no token",
			})
		}

		switch acct.Role {
		case accountModel.RoleOfficial:
			return c.Next()
		case accountModel.RoleVoter:
		}

		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Not authorized as an Election Official",
		})
	}
}

// CurrentAccount returns the authenticated account placed by Authenticate,
// or nil on an unauthenticated request.
func CurrentAccount(c *fiber.Ctx) *accountModel.Account {
	acct, ok := c.Locals("account").(*accountModel.Account)
	if !ok {
		return nil
	}
	return acct
}
