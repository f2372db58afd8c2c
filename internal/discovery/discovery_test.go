package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0644))
}

func TestListGroups(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "467.174-T-0100"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "452.020-P-0051"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".cache"), 0755))
	touch(t, filepath.Join(dir, "README.txt"))

	groups, err := ListGroups(dir, ".")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "452.020-P-0051", groups[0].Name)
	assert.Equal(t, filepath.Join(dir, "452.020-P-0051"), groups[0].Path)
	assert.Equal(t, "467.174-T-0100", groups[1].Name)
}

func TestListGroups_EmptySkipPrefixKeepsHidden(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".hidden"), 0755))

	groups, err := ListGroups(dir, "")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, ".hidden", groups[0].Name)
}

func TestListGroups_FollowsSymlinkedDirectories(t *testing.T) {
	dir := t.TempDir()
	target := t.TempDir()
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "linked")))

	groups, err := ListGroups(dir, ".")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "linked", groups[0].Name)
}

func TestListGroups_MissingDir(t *testing.T) {
	_, err := ListGroups(filepath.Join(t.TempDir(), "absent"), ".")
	assert.Error(t, err)
}

func TestFilterGroups(t *testing.T) {
	groups := []Group{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	kept, missing := FilterGroups(groups, nil)
	assert.Equal(t, groups, kept)
	assert.Empty(t, missing)

	kept, missing = FilterGroups(groups, []string{"c", "a", "zz"})
	assert.Equal(t, []Group{{Name: "a"}, {Name: "c"}}, kept)
	assert.Equal(t, []string{"zz"}, missing)
}

func TestMatcher(t *testing.T) {
	m := Matcher{Suffix: "CYCLE.h"}
	assert.True(t, m.Match("5DB7E3D4_CYCLE.h"))
	assert.False(t, m.Match("5DB7E3D4_CYCLE.h.gz"))
	assert.False(t, m.Match("5DB7E3D4.LOG"))

	m.IncludeCompressed = true
	assert.True(t, m.Match("5DB7E3D4_CYCLE.h.gz"))
}

func TestFindLogFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b", "0002_CYCLE.h"))
	touch(t, filepath.Join(root, "a", "deep", "0001_CYCLE.h"))
	touch(t, filepath.Join(root, "0003_CYCLE.h.gz"))
	touch(t, filepath.Join(root, "rudics_minutes.txt"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir_CYCLE.h"), 0755))

	files, err := FindLogFiles(root, Matcher{Suffix: "CYCLE.h"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "deep", "0001_CYCLE.h"),
		filepath.Join(root, "b", "0002_CYCLE.h"),
	}, files)

	files, err = FindLogFiles(root, Matcher{Suffix: "CYCLE.h", IncludeCompressed: true})
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestFindLogFiles_MissingRoot(t *testing.T) {
	_, err := FindLogFiles(filepath.Join(t.TempDir(), "absent"), Matcher{Suffix: "CYCLE.h"})
	assert.Error(t, err)
}

func TestGroupOf(t *testing.T) {
	dir := filepath.Join("data", "processed_everyone")

	name, ok := GroupOf(dir, filepath.Join(dir, "float-1", "logs", "0001_CYCLE.h"))
	assert.True(t, ok)
	assert.Equal(t, "float-1", name)

	name, ok = GroupOf(dir, filepath.Join(dir, "float-2"))
	assert.True(t, ok)
	assert.Equal(t, "float-2", name)

	_, ok = GroupOf(dir, dir)
	assert.False(t, ok)

	_, ok = GroupOf(dir, filepath.Join("data", "elsewhere", "x"))
	assert.False(t, ok)
}
