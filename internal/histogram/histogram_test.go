package histogram

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndCount(t *testing.T) {
	h := New(5)
	h.Add(0)
	h.Add(3)
	h.Add(3)
	h.Add(5)

	assert.Equal(t, uint64(1), h.Count(0))
	assert.Equal(t, uint64(2), h.Count(3))
	assert.Equal(t, uint64(1), h.Count(5))
	assert.Equal(t, uint64(4), h.Total())
	assert.Equal(t, map[int]uint64{0: 1, 3: 2, 5: 1}, h.Counts())
}

func TestSolvable(t *testing.T) {
	h := New(5)
	h.Add(4)
	assert.False(t, h.Solvable())
	h.Add(5)
	assert.True(t, h.Solvable())
}

func TestMerge(t *testing.T) {
	a := New(5)
	a.Add(1)
	a.Add(2)
	b := New(5)
	b.Add(2)
	b.Add(5)

	require.NoError(t, a.Merge(b))
	assert.Equal(t, map[int]uint64{1: 1, 2: 2, 5: 1}, a.Counts())

	assert.Error(t, a.Merge(New(6)))
}

func TestWriteTSV(t *testing.T) {
	h := New(5)
	h.Add(0) // depth 0 is never written
	h.Add(2)
	h.Add(2)
	h.Add(5)

	var sb strings.Builder
	require.NoError(t, h.WriteTSV(&sb))
	assert.Equal(t, "1\t0\n2\t2\n3\t0\n4\t0\n5\t1\n", sb.String())
}

func TestWriteFile(t *testing.T) {
	h := New(3)
	h.Add(1)

	path := filepath.Join(t.TempDir(), "histogram1.tsv")
	require.NoError(t, h.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1\t1\n2\t0\n3\t0\n", string(data))
}
