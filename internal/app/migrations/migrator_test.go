package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrationFS, migrationDir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for _, e := range entries {
		body, err := fs.ReadFile(migrationFS, migrationDir+"/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}

	body, err := fs.ReadFile(migrationFS, migrationDir+"/00003_create_consultations.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "is_complete BOOLEAN NOT NULL DEFAULT FALSE"))
}
