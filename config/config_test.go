package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_DSN", "STAFF_AUTH_REQUIRED", "GEOFENCE_RADIUS_METERS", "SEED_DATA", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_PER_MINUTE", "TRUSTED_PROXIES"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, ":memory:", cfg.DBDSN)
	assert.False(t, cfg.StaffAuthRequired)
	assert.True(t, cfg.SeedData)
	assert.Equal(t, 200.0, cfg.GeofenceRadiusMeters)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("STAFF_AUTH_REQUIRED", "true")
	t.Setenv("GEOFENCE_RADIUS_METERS", "350.5")
	t.Setenv("SEED_DATA", "nope")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://pos.local, http://menu.local,")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.True(t, cfg.StaffAuthRequired)
	assert.Equal(t, 350.5, cfg.GeofenceRadiusMeters)
	assert.True(t, cfg.SeedData, "unparseable bools fall back")
	assert.Equal(t, []string{"http://pos.local", "http://menu.local"}, cfg.CORSAllowedOrigins)
	assert.Zero(t, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.TrustedProxies)
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	_, err := OpenDB(Config{DBDriver: "oracle"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestOpenDBInMemorySQLite(t *testing.T) {
	db, err := OpenDB(Config{DBDriver: "sqlite", DBDSN: ":memory:"}, nil)
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOpenDBLogsFailuresButNotMisses(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	db, err := OpenDB(Config{DBDriver: "sqlite", DBDSN: ":memory:"}, zap.New(core))
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE pings (id integer primary key)").Error)

	var row struct{ ID int }
	err = db.Table("pings").Take(&row).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.FilterMessageSnippet("record not found").Len())

	require.Error(t, db.Table("missing").Take(&row).Error)
	assert.Equal(t, 1, logs.FilterMessageSnippet("no such table").Len())
	assert.Equal(t, 1, logs.FilterMessage("database connected").Len())
}
