// Package session contains session related activity
package session

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lumenledger/auth/schemas"
)

// Add is a function that is used to add ther user details to the session
func Add(c *fiber.Ctx, user *schemas.User) {
	if user == nil {
		return
	}

	c.Locals("user", user)
}

// Get the user details from the session
func Get(c *fiber.Ctx) (user *schemas.User, err error) {
	user, ok := c.Locals("user").(*schemas.User)
	if !ok || user == nil {
		return nil, fiber.ErrUnauthorized
	}

	return user, nil
}

// GetUserID gets the user ID from the session
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	user, err := Get(c)
	if err != nil {
		return uuid.Nil, err
	}

	return user.ID, nil
}

// SaveAccessToken save the access token
func SaveAccessToken(c *fiber.Ctx, token string) {
	c.Locals("access_token", token)
}

// GetAccessToken get the access token
func GetAccessToken(c *fiber.Ctx) string {
	token, _ := c.Locals("access_token").(string)
	return token
}
