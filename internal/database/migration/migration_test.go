package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMigrationLoggerVerbose(t *testing.T) {
	assert.True(t, NewLogger(zap.NewNop(), true).Verbose())
	assert.False(t, NewLogger(zap.NewNop(), false).Verbose())
}

func TestMigrationLoggerPrefixesMessages(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	migrationLogger := NewLogger(zap.New(core), true)

	migrationLogger.Printf("applied %d/u %s", 1, "init_schema")

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "DB Migration: applied 1/u init_schema", entries[0].Message)
}
