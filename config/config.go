// Package config contains the enviroment configuration
package config

// DevEnv denotes the enviroment the server is running in
type DevEnv string

const (
	// Prod is the production enviroment
	Prod DevEnv = "PROD"
	// Dev is the development enviroment
	Dev DevEnv = "DEV"
	// Test is the test enviroment
	Test DevEnv = "TEST"
)

// GetDevEnv resolves the running enviroment from the configuration,
// anything unrecognized is treated as test
func GetDevEnv(env *Env) DevEnv {
	switch env.DevEnv {
	case string(Prod):
		return Prod
	case string(Dev):
		return Dev
	default:
		return Test
	}
}
