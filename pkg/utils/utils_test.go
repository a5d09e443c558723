package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreDriverMemory)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Booking.ConfirmOnReserve)
	assert.Equal(t, 4, cfg.Booking.MaxBatchSeats)
	assert.Equal(t, 10*time.Minute, cfg.Redis.LayoutTTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "STORE_DRIVER=postgres\nDB_NAME=buses\nDB_USER=app\nPORT=9000\nBOOKING_CONFIRM_ON_RESERVE=false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("BOOKING_MAX_BATCH_SEATS", "2")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "buses", cfg.Database.Name)
	assert.False(t, cfg.Booking.ConfirmOnReserve)
	assert.Equal(t, 2, cfg.Booking.MaxBatchSeats)
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := LoadConfig(filepath.Join(t.TempDir(), ".env"))
	assert.Error(t, err)
}

func TestValidateStruct(t *testing.T) {
	type payload struct {
		ID   string `validate:"required,uuid"`
		Name string `validate:"required,min=2"`
	}

	errs := ValidateStruct(payload{ID: "nope", Name: "x"})
	assert.Equal(t, "Must be a valid UUID", errs["ID"])
	assert.Equal(t, "Minimum length is 2", errs["Name"])
	assert.Equal(t, "ID: Must be a valid UUID; Name: Minimum length is 2", FormatValidationErrors(errs))

	assert.Empty(t, ValidateStruct(payload{ID: "8f0c3bb2-1b47-4a3a-9d59-0c8a5f8b8a11", Name: "Rahim"}))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-18")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("18/10/2026")
	assert.Error(t, err)
}

func TestInitLogger_WritesJSONFileWithAppName(t *testing.T) {
	dir := t.TempDir()

	logger, err := InitLogger(AppConfig{
		Name:          "bus-booking-test",
		LogPath:       dir,
		LogMaxSizeMB:  1,
		LogMaxBackups: 1,
		LogMaxAgeDays: 1,
	})
	require.NoError(t, err)

	logger.Info("seat reserved")
	logger.Debug("hidden below info")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"seat reserved"`)
	assert.Contains(t, string(data), `"app":"bus-booking-test"`)
	assert.NotContains(t, string(data), "hidden below info")
}

func TestLoadConfig_LogRotationDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreDriverMemory)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.App.LogMaxSizeMB)
	assert.Equal(t, 7, cfg.App.LogMaxBackups)
	assert.Equal(t, 28, cfg.App.LogMaxAgeDays)
}
