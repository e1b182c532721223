package schemas

// Res is the generic response envelope
type Res struct {
	Status string `json:"status"`
}

// TokenBundle is the result of minting an access and refresh token pair
type TokenBundle struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// RefreshTokenDetails is used to store refresh token related data in the session cache
type RefreshTokenDetails struct {
	UserID          string
	AccessTokenUUID string
}
