package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFileNumMap(t *testing.T) {
	m := CreateFileNumMap([]string{"a.mid", "b.mid"})
	assert.Equal(t, map[int]string{0: "a.mid", 1: "b.mid"}, m)
}

func TestGatherMidiPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mid", "a.MIDI", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	single := filepath.Join(t.TempDir(), "take.dat")
	require.NoError(t, os.WriteFile(single, nil, 0o644))

	paths, err := GatherMidiPaths([]string{dir, single}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.MIDI"),
		filepath.Join(dir, "b.mid"),
		single,
	}, paths)

	limited, err := GatherMidiPaths([]string{dir, single}, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = GatherMidiPaths([]string{filepath.Join(dir, "missing")}, 0)
	assert.Error(t, err)
}
