package config

import (
	"encoding/json"
	"os"

	"github.com/avolkovs/secretlink/internal/flagx"
	"github.com/avolkovs/secretlink/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "60s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr       string         `json:"endpoint_addr"`
	DatabaseDSN        string         `json:"database_dsn"`
	MasterKey          string         `json:"master_key"`
	JWTSecret          string         `json:"jwt_secret"`
	DefaultSecretTTL   timex.Duration `json:"default_secret_ttl"`
	ListingCacheTTL    timex.Duration `json:"listing_cache_ttl"`
	MutationRateLimit  int            `json:"mutation_rate_limit"`
	MutationRateWindow timex.Duration `json:"mutation_rate_window"`
	UseInMemoryStore   bool           `json:"use_in_memory_store"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c/-config flags; when the
// flag is absent no file is loaded. Only fields present in the file override
// the current values.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.EndpointAddr != "" {
		config.EndpointAddr = jc.EndpointAddr
	}
	if jc.DatabaseDSN != "" {
		config.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.MasterKey != "" {
		config.MasterKey = jc.MasterKey
	}
	if jc.JWTSecret != "" {
		config.JWTSecret = jc.JWTSecret
	}
	if jc.DefaultSecretTTL.Duration != 0 {
		config.DefaultSecretTTL = jc.DefaultSecretTTL.Duration
	}
	if jc.ListingCacheTTL.Duration != 0 {
		config.ListingCacheTTL = jc.ListingCacheTTL.Duration
	}
	if jc.MutationRateLimit != 0 {
		config.MutationRateLimit = jc.MutationRateLimit
	}
	if jc.MutationRateWindow.Duration != 0 {
		config.MutationRateWindow = jc.MutationRateWindow.Duration
	}
	if jc.UseInMemoryStore {
		config.UseInMemoryStore = true
	}
}
