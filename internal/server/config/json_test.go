package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonConfig_DurationForms(t *testing.T) {
	t.Parallel()

	var jc JsonConfig
	err := json.Unmarshal([]byte(`{
		"endpoint_addr": ":7070",
		"listing_cache_ttl": "90s",
		"mutation_rate_window": 60000000000
	}`), &jc)
	require.NoError(t, err)

	assert.Equal(t, ":7070", jc.EndpointAddr)
	assert.Equal(t, 90*time.Second, jc.ListingCacheTTL.Duration)
	assert.Equal(t, time.Minute, jc.MutationRateWindow.Duration)
}

func TestJsonConfig_InvalidDuration(t *testing.T) {
	t.Parallel()

	var jc JsonConfig
	err := json.Unmarshal([]byte(`{"listing_cache_ttl": "ninety"}`), &jc)
	require.Error(t, err)
}
