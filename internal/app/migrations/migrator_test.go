package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_documents.sql"))
	assert.Equal(t, "010", Version("sql/010_more_indexes.sql"))
	assert.Equal(t, "init.sql", Version("init.sql"))
}

func TestPending_SortsAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.sql":   {Data: []byte("SELECT 2;")},
		"001_a.sql":   {Data: []byte("SELECT 1;")},
		"README.md":   {Data: []byte("notes")},
		"old/003.sql": {Data: []byte("SELECT 3;")},
	}
	files, err := Pending(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.sql", "002_b.sql"}, files)
}

func TestFiles_ShipsDocumentsTable(t *testing.T) {
	files, err := Pending(Files())
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_documents.sql", files[0])
}
