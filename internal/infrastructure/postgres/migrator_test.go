package postgres

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_OrdenaPorVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"010_seed.sql":   {Data: []byte("SELECT 10;")},
		"001_init.sql":   {Data: []byte("SELECT 1;")},
		"002_extra.sql":  {Data: []byte("SELECT 2;")},
		"README.md":      {Data: []byte("docs")},
		"notes_tmp.sql":  {Data: []byte("SELECT 0;")},
		"sinprefijo.sql": {Data: []byte("SELECT 0;")},
	}
	list, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{1, 2, 10}, []int{list[0].Version, list[1].Version, list[2].Version})
	assert.Equal(t, "SELECT 10;", list[2].SQL)
}

func TestLoadMigrations_VersionDuplicada(t *testing.T) {
	fsys := fstest.MapFS{
		"003_a.sql": {Data: []byte("SELECT 1;")},
		"003_b.sql": {Data: []byte("SELECT 2;")},
	}
	_, err := LoadMigrations(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "versión 3")
}

func TestFilterBuilder(t *testing.T) {
	var b filterBuilder
	b.eq("franchise_id", "f1")
	b.eq("status", "")
	b.search("ana", "name", "phone")
	assert.Equal(t, ` WHERE franchise_id = $1 AND (name ILIKE $2 ESCAPE '\' OR phone ILIKE $2 ESCAPE '\')`, b.where())
	assert.Equal(t, []any{"f1", "%ana%"}, b.args)
}

func TestFilterBuilder_SearchEscapesWildcards(t *testing.T) {
	var b filterBuilder
	b.search(`50%_a\b`, "name")
	assert.Equal(t, []any{`%50\%\_a\\b%`}, b.args)
}

func TestFilterBuilder_DateRangeIncludesWholeLastDay(t *testing.T) {
	var b filterBuilder
	from := time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC)
	to := from
	b.dateRange("start_at", &from, &to)
	assert.Equal(t, " WHERE start_at >= $1 AND start_at < $2", b.where())
	assert.Equal(t, []any{from, time.Date(2030, 1, 11, 0, 0, 0, 0, time.UTC)}, b.args)
}
