package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_ACCESS_EXPIRY", "")
	t.Setenv("REPORT_FORWARD_ONLY", "")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, time.Hour, cfg.PasswordResetTTL)
	assert.False(t, cfg.ReportForwardOnly)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_ACCESS_EXPIRY", "1h")
	t.Setenv("REPORT_FORWARD_ONLY", "true")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.JWTAccessExpiry)
	assert.True(t, cfg.ReportForwardOnly)
	assert.True(t, cfg.CloudinaryEnabled())
}

func TestParseDuration_FallsBackOnGarbage(t *testing.T) {
	assert.Equal(t, 5*time.Minute, parseDuration("soon", 5*time.Minute))
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
