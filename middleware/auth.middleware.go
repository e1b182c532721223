// Package middleware contains the request guards
package middleware

import (
	"strings"

	"github.com/VinukaThejana/go-utils/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lumenledger/auth/config"
	"github.com/lumenledger/auth/connect"
	"github.com/lumenledger/auth/errors"
	"github.com/lumenledger/auth/schemas"
	"github.com/lumenledger/auth/services"
	"github.com/lumenledger/auth/session"
	"github.com/lumenledger/auth/token"
	"gorm.io/gorm"
)

// Auth contains auth related middlewares
type Auth struct {
	Conn *connect.Connector
	Env  *config.Env
}

// Check is a function that is used to check wether the user is authenticated
func (a *Auth) Check(c *fiber.Ctx) error {
	var accessToken string
	authorization := c.Get("Authorization")

	if strings.HasPrefix(authorization, "Bearer ") {
		accessToken = strings.TrimPrefix(authorization, "Bearer ")
	} else {
		return errors.Respond(c, errors.ErrAccessTokenNotProvided)
	}

	details, err := token.ParseAccess(a.Env, accessToken)
	if err != nil {
		return errors.Respond(c, errors.ErrAccessTokenInvalid)
	}

	userID, err := uuid.Parse(details.UserID)
	if err != nil {
		return errors.Respond(c, errors.ErrAccessTokenInvalid)
	}

	accessTokenS := token.AccessToken{
		Conn:   a.Conn,
		Env:    a.Env,
		UserID: userID,
	}
	if _, err := accessTokenS.Validate(accessToken); err != nil {
		return errors.Respond(c, errors.ErrAccessTokenInvalid)
	}

	userS := services.User{Conn: a.Conn}
	user, err := userS.GetUserWithID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.Respond(c, errors.ErrUnauthorized)
		}

		logger.Error(err)
		return errors.Respond(c, errors.ErrInternalServerError)
	}

	filtered := schemas.FilterUser(*user)
	session.Add(c, &filtered)
	session.SaveAccessToken(c, accessToken)

	return c.Next()
}
