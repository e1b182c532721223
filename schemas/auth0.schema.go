package schemas

// Auth0Profile is the identity assertion received from the Auth0 userinfo
// endpoint, consumed once to find or create a local user
type Auth0Profile struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
