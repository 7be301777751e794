package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PAYMENT_TIMEOUT_MINUTES", "")
	t.Setenv("SHOP_TIMEZONE", "")
	t.Setenv("SLOT_RETENTION_DAYS", "")

	cfg := Load()

	assert.Equal(t, 10*time.Minute, cfg.PaymentTimeout)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Equal(t, "Asia/Jakarta", cfg.Location().String())
	assert.Equal(t, "@every 1m", cfg.CronPaymentTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PAYMENT_TIMEOUT_MINUTES", "15")
	t.Setenv("SLOT_RETENTION_DAYS", "not-a-number")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SERVER_PORT", "9000")

	cfg := Load()

	assert.Equal(t, 15*time.Minute, cfg.PaymentTimeout)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.True(t, cfg.UsesMemoryStore())
	assert.Equal(t, ":9000", cfg.Addr())
}

func TestCORSOriginsList(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.test, ,https://b.test")

	cfg := Load()

	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSOrigins)
}
