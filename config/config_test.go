package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := parse("marketplace", nil)
	require.NoError(t, err)

	assert.Equal(t, defaultServerAddress, cfg.ServerAddr)
	assert.Equal(t, defaultRazorpayBaseURL, cfg.RazorpayBaseURL)
	assert.Equal(t, "INR", cfg.Currency)
	assert.Equal(t, 10*time.Second, cfg.GatewayTimeout)
	assert.Equal(t, time.Hour, cfg.AutoSettleInterval)
	assert.Equal(t, 600, cfg.WebhookRateLimit)
}

func TestParse_EnvOverridesFlags(t *testing.T) {
	t.Setenv("RUN_ADDRESS", ":9090")
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec")
	t.Setenv("AUTO_SETTLE_INTERVAL", "0s")
	t.Setenv("GATEWAY_TIMEOUT", "3s")

	cfg, err := parse("marketplace", []string{"-a", ":7070", "-d", "postgres://localhost/market", "-s", "5m"})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, "postgres://localhost/market", cfg.DatabaseDSN)
	assert.Equal(t, "whsec", cfg.RazorpayWebhookSecret)
	assert.Equal(t, time.Duration(0), cfg.AutoSettleInterval)
	assert.Equal(t, 3*time.Second, cfg.GatewayTimeout)
}

func TestParse_BadEnv(t *testing.T) {
	t.Setenv("WEBHOOK_RATE_LIMIT", "lots")

	_, err := parse("marketplace", nil)
	assert.Error(t, err)
}

const testKey = "f53ac685bbceebd75043e6be2e06ee07"

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg: Config{DatabaseDSN: "postgres://localhost/market", RazorpayWebhookSecret: "s", AuthTokenKey: testKey,
				GatewayTimeout: time.Second},
		},
		{
			name:    "missing dsn",
			cfg:     Config{RazorpayWebhookSecret: "s", AuthTokenKey: testKey, GatewayTimeout: time.Second},
			wantErr: true,
		},
		{
			name:    "missing webhook secret",
			cfg:     Config{DatabaseDSN: "postgres://localhost/market", AuthTokenKey: testKey, GatewayTimeout: time.Second},
			wantErr: true,
		},
		{
			name: "invalid token key",
			cfg: Config{DatabaseDSN: "postgres://localhost/market", RazorpayWebhookSecret: "s",
				AuthTokenKey: "not-hex", GatewayTimeout: time.Second},
			wantErr: true,
		},
		{
			name: "negative interval",
			cfg: Config{DatabaseDSN: "postgres://localhost/market", RazorpayWebhookSecret: "s", AuthTokenKey: testKey,
				GatewayTimeout: time.Second, AutoSettleInterval: -time.Second},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
