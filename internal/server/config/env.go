package config

import "os"

// Environment variable names. The master key deliberately comes from the
// environment in deployments so it never lands in a config file on disk.
const (
	EnvMasterKey    = "SECRETS_MASTER_KEY"
	EnvDatabaseDSN  = "DATABASE_DSN"
	EnvEndpointAddr = "ENDPOINT_ADDR"
	EnvJWTSecret    = "JWT_SECRET"
)

// parseEnv overlays values from the process environment. Unset variables
// leave the current values untouched.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv(EnvMasterKey); ok {
		config.MasterKey = v
	}
	if v, ok := os.LookupEnv(EnvDatabaseDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(EnvEndpointAddr); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv(EnvJWTSecret); ok {
		config.JWTSecret = v
	}
}
