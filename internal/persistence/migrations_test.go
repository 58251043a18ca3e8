package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNamesAreOrdered(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"0001_users.sql",
		"0002_tickets.sql",
		"0003_password_resets.sql",
		"0004_sessions.sql",
	}, names)
}

func TestMigrationsCreateEveryTable(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)

	var all string
	for _, name := range names {
		content, err := migrationFiles.ReadFile(migrationsDir + "/" + name)
		require.NoError(t, err)
		all += string(content)
	}

	for _, table := range []string{"users", "tickets", "replies", "password_resets", "sessions"} {
		assert.Contains(t, all, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}
