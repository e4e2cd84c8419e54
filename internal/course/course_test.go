package course

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const courseJSON = `{
	"id": 10,
	"name": "Pebble Creek",
	"holes": {
		"1": {"par": 4, "teeLocation": {"latitude": 51.4770, "longitude": 0.0}, "flagLocation": {"latitude": 51.4803, "longitude": 0.0}},
		"2": {"par": 3, "teeLocation": {"latitude": 51.4805, "longitude": 0.0}, "flagLocation": {"latitude": 51.4820, "longitude": 0.0}}
	}
}`

func writeCourseFile(t *testing.T, dir, content string) {
	t.Helper()
	path := filepath.Join(dir, "course_10.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadCourse(t *testing.T) {
	dir := t.TempDir()
	writeCourseFile(t, dir, courseJSON)

	c, err := NewLoader(dir).Load(10)
	require.NoError(t, err)

	assert.Equal(t, int64(10), c.ID)
	assert.Equal(t, "Pebble Creek", c.Name)
	require.Len(t, c.Holes, 2)

	// Hole numbers are backfilled from the map keys.
	assert.Equal(t, 1, c.Holes[1].Number)
	assert.Equal(t, 2, c.Holes[2].Number)
	assert.Equal(t, 4, c.Holes[1].Par)
}

func TestParMap(t *testing.T) {
	dir := t.TempDir()
	writeCourseFile(t, dir, courseJSON)

	c, err := NewLoader(dir).Load(10)
	require.NoError(t, err)

	assert.Equal(t, map[int]int{1: 4, 2: 3}, c.ParMap())
}

func TestLoadMissingCourse(t *testing.T) {
	_, err := NewLoader(t.TempDir()).Load(404)
	assert.Error(t, err)
}

func TestLoadCourseWithoutHoles(t *testing.T) {
	dir := t.TempDir()
	writeCourseFile(t, dir, `{"id": 10, "name": "Empty", "holes": {}}`)

	_, err := NewLoader(dir).Load(10)
	assert.Error(t, err)
}

func TestDefaultPlayer(t *testing.T) {
	p := DefaultPlayer()
	assert.Equal(t, int64(0), p.ID)
	assert.Equal(t, "Player", p.Name)
}
