package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestDB_AppliesSchema(t *testing.T) {
	db := NewTestDB(t, "grid_cache")

	var count int
	err := db.Conn().QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'density_grids'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewTestDBWithSchema(t *testing.T) {
	db := NewTestDBWithSchema(t, "scratch", `CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)`)

	_, err := db.Conn().Exec(`INSERT INTO notes (body) VALUES ('x')`)
	assert.NoError(t, err)
}
