package schemas

import (
	"github.com/google/uuid"
	"github.com/lumenledger/auth/models"
)

// User is schema that contians user freindly user details
type User struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	IsEmailVerified  bool      `json:"is_email_verified"`
	IsWalletVerified bool      `json:"is_wallet_verified"`
	WalletAddress    *string   `json:"wallet_address"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
}

// FilterUser is a function that is used to filter the user model to a user freindly format
func FilterUser(user models.User) User {
	twoFactorEnabled := user.TwoFactorAuth != nil && user.TwoFactorAuth.Enabled

	return User{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		Role:             user.Role,
		IsEmailVerified:  user.IsEmailVerified,
		IsWalletVerified: user.IsWalletVerified,
		WalletAddress:    user.WalletAddress,
		TwoFactorEnabled: twoFactorEnabled,
	}
}
