package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerDevelopmentByDefault(t *testing.T) {
	t.Setenv("APP_ENV", "")

	log := NewLogger()

	assert.NotNil(t, log)
	assert.True(t, log.Core().Enabled(-1), "development config keeps debug enabled")
}

func TestNewLoggerProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	log := NewLogger()

	assert.NotNil(t, log)
	assert.False(t, log.Core().Enabled(-1), "production config drops debug output")
}
