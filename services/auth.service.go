package services

import (
	"github.com/VinukaThejana/go-utils/logger"
	"github.com/google/uuid"
	"github.com/lumenledger/auth/config"
	"github.com/lumenledger/auth/connect"
	"github.com/lumenledger/auth/enums"
	"github.com/lumenledger/auth/errors"
	"github.com/lumenledger/auth/models"
	"github.com/lumenledger/auth/schemas"
	"github.com/lumenledger/auth/token"
	"github.com/lumenledger/auth/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Auth contains the authentication services, token issuance, rotation and
// federated login
type Auth struct {
	Conn *connect.Connector
	Env  *config.Env
}

// Register creates a new user with a hashed password and sends the email
// confirmation, duplicate emails are rejected
func (a *Auth) Register(name, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userS := User{Conn: a.Conn}
	newUser, err := userS.Create(models.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     enums.RoleUser,
	})
	if err != nil {
		if ok := (errors.CheckDBError{}.DuplicateKey(err)); ok {
			return nil, errors.ErrEmailAlreadyUsed
		}

		return nil, err
	}

	emailClient := utils.Email{Conn: a.Conn, Env: a.Env}
	if err := emailClient.SendConfirmation(newUser.ID, newUser.Email); err != nil {
		logger.ErrorWithMsg(err, "Failed to send the confirmation email")
	}

	return &newUser, nil
}

// IssueTokens mints a refresh and access token pair for the user and persists
// the refresh token state, expired session rows of the user are purged first
func (a *Auth) IssueTokens(user *models.User, ipAddress string) (*schemas.TokenBundle, error) {
	token.DeleteExpired(a.Conn, user.ID)

	refreshTokenS := token.RefreshToken{
		Conn:   a.Conn,
		Env:    a.Env,
		UserID: user.ID,
	}
	accessTokenS := token.AccessToken{
		Conn:   a.Conn,
		Env:    a.Env,
		UserID: user.ID,
	}

	refreshTokenD, err := refreshTokenS.Create(ipAddress)
	if err != nil {
		return nil, err
	}
	accessTokenD, err := accessTokenS.Create(refreshTokenD.TokenUUID)
	if err != nil {
		return nil, err
	}

	return &schemas.TokenBundle{
		AccessToken:  *accessTokenD.Token,
		RefreshToken: *refreshTokenD.Token,
		ExpiresIn:    int64(a.Env.AccessTokenExpires.Seconds()),
	}, nil
}

// LoginWithAuth0 finds or creates the local user for the given identity
// assertion and mints a token pair
func (a *Auth) LoginWithAuth0(profile schemas.Auth0Profile, ipAddress string) (*models.User, *schemas.TokenBundle, error) {
	if profile.Sub == "" {
		return nil, nil, errors.ErrAuthenticationFailed
	}

	userS := User{Conn: a.Conn}

	var user *models.User

	var identity models.Identity
	err := a.Conn.DB.Where(&models.Identity{
		Provider:   enums.Auth0,
		ProviderID: profile.Sub,
	}).First(&identity).Error
	switch {
	case err == nil:
		user, err = userS.GetUserWithID(identity.UserID)
		if err != nil {
			return nil, nil, err
		}

	case err == gorm.ErrRecordNotFound:
		user, err = a.findOrCreateAuth0User(&userS, profile)
		if err != nil {
			return nil, nil, err
		}

		err = a.Conn.DB.Create(&models.Identity{
			UserID:     user.ID,
			Provider:   enums.Auth0,
			ProviderID: profile.Sub,
		}).Error
		if err != nil {
			return nil, nil, err
		}

	default:
		return nil, nil, err
	}

	bundle, err := a.IssueTokens(user, ipAddress)
	if err != nil {
		return nil, nil, err
	}

	return user, bundle, nil
}

func (a *Auth) findOrCreateAuth0User(userS *User, profile schemas.Auth0Profile) (*models.User, error) {
	if profile.Email != "" {
		user, err := userS.GetUserWithEmail(profile.Email)
		if err == nil {
			return user, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	// Federated users never log in with this placeholder, the Auth0 assertion
	// is the credential
	placeholder, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	newUser, err := userS.Create(models.User{
		Name:            profile.Name,
		Email:           profile.Email,
		Password:        string(placeholder),
		Role:            enums.RoleUser,
		IsEmailVerified: true,
	})
	if err != nil {
		return nil, err
	}

	return &newUser, nil
}

// Refresh rotates the presented refresh token, the old token is consumed
// exactly once so a replayed token is rejected
func (a *Auth) Refresh(refreshToken, ipAddress string) (*schemas.TokenBundle, error) {
	details, err := token.ParseRefresh(a.Env, refreshToken)
	if err != nil {
		return nil, errors.ErrRefreshTokenInvalid
	}

	userID, err := uuid.Parse(details.UserID)
	if err != nil {
		return nil, errors.ErrRefreshTokenInvalid
	}

	refreshTokenS := token.RefreshToken{
		Conn:   a.Conn,
		Env:    a.Env,
		UserID: userID,
	}

	if _, err := refreshTokenS.Validate(refreshToken); err != nil {
		return nil, err
	}
	if err := refreshTokenS.Consume(details.TokenUUID); err != nil {
		return nil, err
	}

	userS := User{Conn: a.Conn}
	user, err := userS.GetUserWithID(userID)
	if err != nil {
		return nil, errors.ErrRefreshTokenInvalid
	}

	return a.IssueTokens(user, ipAddress)
}

// Logout invalidates the presented refresh token server side, unknown or
// malformed tokens are treated as already logged out
func (a *Auth) Logout(refreshToken string) error {
	details, err := token.ParseRefresh(a.Env, refreshToken)
	if err != nil {
		return nil
	}

	userID, err := uuid.Parse(details.UserID)
	if err != nil {
		return nil
	}

	refreshTokenS := token.RefreshToken{
		Conn:   a.Conn,
		Env:    a.Env,
		UserID: userID,
	}

	err = refreshTokenS.Consume(details.TokenUUID)
	if err == errors.ErrRefreshTokenInvalid {
		return nil
	}

	return err
}
