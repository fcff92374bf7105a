package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNamesSorted(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_schema.sql", names[0])
	assert.IsNonDecreasing(t, names)
}

func TestSchemaDeclaresSingleActiveIndex(t *testing.T) {
	sql, err := migrationsFS.ReadFile("migrations/001_schema.sql")
	require.NoError(t, err)
	schema := string(sql)

	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS access_links")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS attendees")
	assert.True(t, strings.Contains(schema, "ON access_links (is_active) WHERE is_active"))
}
