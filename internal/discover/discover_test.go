package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stlviz/internal/testutil"
)

func TestModels(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{
		"b.stl",
		"a/upper.STL",
		"a/deep/mixed.Stl",
		"a/notes.txt",
		"a/model.stl.bak",
		"renders_b/b_top_0.0.JPEG",
	} {
		testutil.WriteFile(t, root, name, []byte("x"))
	}

	got, err := Models(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "deep", "mixed.Stl"),
		filepath.Join(root, "a", "upper.STL"),
		filepath.Join(root, "b.stl"),
	}, got)
}

func TestModelsMissingRoot(t *testing.T) {
	_, err := Models(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestWalkSkipsUnreadableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	root := t.TempDir()
	testutil.WriteFile(t, root, "a.stl", []byte("x"))
	testutil.WriteFile(t, root, "locked/b.stl", []byte("x"))
	testutil.WriteFile(t, root, "open/c.stl", []byte("x"))

	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	var skipped []string
	got, err := Walk(root, func(dir string, err error) {
		assert.Error(t, err)
		skipped = append(skipped, dir)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.stl"),
		filepath.Join(root, "open", "c.stl"),
	}, got)
	assert.Equal(t, []string{locked}, skipped)

	got, err = Models(root)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestIsModel(t *testing.T) {
	assert.True(t, IsModel("x.stl"))
	assert.True(t, IsModel("X.STL"))
	assert.False(t, IsModel("x.obj"))
	assert.False(t, IsModel("stl"))
}
