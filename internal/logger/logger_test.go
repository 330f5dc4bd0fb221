package logger

import (
	"testing"

	"ligapro-predictor/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWithLevel(t *testing.T) {
	base := zerolog.Nop().Level(zerolog.DebugLevel)

	assert.Equal(t, zerolog.WarnLevel, WithLevel(base, &config.Config{LogLevel: "warn"}).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, WithLevel(base, &config.Config{LogLevel: "debug"}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, WithLevel(base, &config.Config{LogLevel: "loud"}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, WithLevel(base, &config.Config{}).GetLevel())
}
