package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"PREDICTOR_API_URL", "SERVER_PORT", "LOG_LEVEL", "DB_PATH", "ASSETS_BASE", "PUBLIC_DIR", "TEAMS_FILE", "MUSIC_VOLUME", "DEFAULT_HOME", "DEFAULT_AWAY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.PredictorAPIURL)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "/img/", cfg.AssetsBase)
	assert.Equal(t, 0.3, cfg.MusicVolume)
	assert.Equal(t, "Emelec", cfg.DefaultHome)
	assert.Equal(t, "Barcelona SC", cfg.DefaultAway)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PREDICTOR_API_URL", "http://backend:9000/")
	t.Setenv("MUSIC_VOLUME", "0.75")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "http://backend:9000", cfg.PredictorAPIURL)
	assert.Equal(t, 0.75, cfg.MusicVolume)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("volume", func(t *testing.T) {
		t.Setenv("MUSIC_VOLUME", "loud")
		_, err := Load(zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("same default teams", func(t *testing.T) {
		t.Setenv("DEFAULT_HOME", "Aucas")
		t.Setenv("DEFAULT_AWAY", "Aucas")
		_, err := Load(zerolog.Nop())
		assert.Error(t, err)
	})
}
