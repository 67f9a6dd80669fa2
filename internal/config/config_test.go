package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, DBTypePostgres, cfg.DBType)
	assert.True(t, cfg.EnableCORS)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.DBSynchronize, "development syncs the schema by default")
	assert.False(t, cfg.AuthEnabled())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, ":3000", cfg.Addr())
}

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "DB_TYPE=sqlite\nDB_DATABASE=catalog.db\nPORT=8081\nAPP_ENV=production\nJWT_SECRET=s3cret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, DBTypeSQLite, cfg.DBType)
	assert.Equal(t, "catalog.db", cfg.DBDatabase)
	assert.Equal(t, 8081, cfg.Port)
	assert.False(t, cfg.DBSynchronize)
	assert.True(t, cfg.AuthEnabled())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=8081\n"), 0o600))
	t.Setenv("PORT", "9090")
	t.Setenv("DB_SYNCHRONIZE", "false")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.DBSynchronize)
}

func TestLoadRejectsUnknownDBType(t *testing.T) {
	t.Setenv("DB_TYPE", "oracle")

	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "unsupported DB_TYPE")
}

func TestLocation(t *testing.T) {
	tests := []struct {
		tz      string
		offset  int
		wantErr bool
	}{
		{tz: "-03:00", offset: -3 * 3600},
		{tz: "+05:30", offset: 5*3600 + 30*60},
		{tz: "UTC", offset: 0},
		{tz: "", offset: 0},
		{tz: "-3h", wantErr: true},
		{tz: "Not/AZone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.tz, func(t *testing.T) {
			cfg := &Config{Timezone: tt.tz}
			loc, err := cfg.Location()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
			assert.Equal(t, tt.offset, offset)
		})
	}
}
