package services

import (
	"github.com/google/uuid"
	"github.com/lumenledger/auth/connect"
	"github.com/lumenledger/auth/errors"
	"github.com/lumenledger/auth/models"
)

// User contains all the user related services
type User struct {
	Conn *connect.Connector
}

// GetUserWithEmail loads the user with the given email address with the two
// factor relation eagerly, so the login paths can gate on enrollment without
// a second query
func (u *User) GetUserWithEmail(email string) (*models.User, error) {
	var user models.User
	err := u.Conn.DB.Preload("TwoFactorAuth").Where(&models.User{
		Email: email,
	}).First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserWithID is a function that is used to get the user with the given user ID
func (u *User) GetUserWithID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := u.Conn.DB.Preload("TwoFactorAuth").Where(&models.User{
		ID: id,
	}).First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// ConfirmEmail flips the email verified flag, the update must land on the
// exact user and email pair the confirmation token was issued for
func (u *User) ConfirmEmail(userID uuid.UUID, email string) error {
	res := u.Conn.DB.Model(&models.User{}).Where(&models.User{
		ID:    userID,
		Email: email,
	}).Update("is_email_verified", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrEmailConfirmationExpired
	}

	return nil
}

// Create is a function that is used to create a new user in the relational database
func (u *User) Create(user models.User) (models.User, error) {
	newUser := user
	err := u.Conn.DB.Create(&newUser).Error
	if err != nil {
		return models.User{}, err
	}

	return newUser, nil
}
