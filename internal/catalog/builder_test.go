package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"runbox/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates dir/name with the given permission bits.
func writeFile(t *testing.T, dir, name string, perm os.FileMode) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"), perm))
	require.NoError(t, os.Chmod(p, perm))
	return p
}

func envWithPath(dirs ...string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if key != DefaultPathVar {
			return "", false
		}
		return strings.Join(dirs, string(filepath.ListSeparator)), true
	}
}

func TestBuildDedupsAndSorts(t *testing.T) {
	root := t.TempDir()
	binA := filepath.Join(root, "binA")
	binB := filepath.Join(root, "binB")
	writeFile(t, binA, "ls", 0o755)
	writeFile(t, binA, "grep", 0o755)
	writeFile(t, binB, "grep", 0o755)
	writeFile(t, binB, "gzip", 0o755)

	b := NewBuilder(nil, WithLookupEnv(envWithPath(binA, binB)))
	cat, report := b.Build()

	assert.Equal(t, model.Catalog{"grep", "gzip", "ls"}, cat)
	assert.Equal(t, 3, report.Total)
	require.Len(t, report.Dirs, 2)
	assert.Equal(t, 2, report.Dirs[0].Accepted)
	assert.Equal(t, 1, report.Dirs[1].Accepted)
	assert.Equal(t, []string{"grep"}, report.Dirs[1].Shadowed)
}

func TestBuildEmptySearchPath(t *testing.T) {
	tests := []struct {
		name   string
		lookup func(string) (string, bool)
	}{
		{"unset", func(string) (string, bool) { return "", false }},
		{"empty", func(string) (string, bool) { return "", true }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cat, report := NewBuilder(nil, WithLookupEnv(tc.lookup)).Build()
			assert.Empty(t, cat)
			assert.Empty(t, report.Dirs)
			assert.NotEmpty(t, report.Diagnostics)
		})
	}
}

func TestBuildSkipsUnavailableDirectories(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "missing")
	notDir := writeFile(t, root, "plainfile", 0o644)
	good := filepath.Join(root, "bin")
	writeFile(t, good, "vim", 0o755)

	cat, report := NewBuilder(nil, WithLookupEnv(envWithPath(missing, notDir, good))).Build()

	assert.Equal(t, model.Catalog{"vim"}, cat)
	require.Len(t, report.Dirs, 3)
	assert.False(t, report.Dirs[0].Available())
	assert.False(t, report.Dirs[1].Available())
	assert.True(t, report.Dirs[2].Available())
	assert.Len(t, report.Diagnostics, 2)
}

func TestBuildSkipsUnlistableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can list any directory")
	}
	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	writeFile(t, locked, "secret", 0o755)
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })
	open := filepath.Join(root, "open")
	writeFile(t, open, "tool", 0o755)

	cat, _ := NewBuilder(nil, WithLookupEnv(envWithPath(locked, open))).Build()
	assert.Equal(t, model.Catalog{"tool"}, cat)
}

func TestBuildPolicies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "script", 0o755)
	writeFile(t, dir, "notes.txt", 0o644)
	writeFile(t, dir, "execonly", 0o111)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	tests := []struct {
		policy model.PermissionPolicy
		want   model.Catalog
	}{
		{model.PolicyExecutable, model.Catalog{"execonly", "script"}},
		{model.PolicyReadable, model.Catalog{"notes.txt", "script"}},
	}
	for _, tc := range tests {
		t.Run(string(tc.policy), func(t *testing.T) {
			b := NewBuilder(nil, WithPolicy(tc.policy), WithLookupEnv(envWithPath(dir)))
			assert.Equal(t, tc.policy, b.Policy())
			cat, report := b.Build()
			assert.Equal(t, tc.want, cat)
			assert.Equal(t, tc.policy, report.Policy)
		})
	}
}

func TestBuildFollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	realDir := filepath.Join(root, "real")
	target := writeFile(t, realDir, "python3.12", 0o755)
	links := filepath.Join(root, "links")
	require.NoError(t, os.MkdirAll(links, 0o755))
	require.NoError(t, os.Symlink(target, filepath.Join(links, "python")))
	require.NoError(t, os.Symlink(filepath.Join(root, "nowhere"), filepath.Join(links, "dangling")))
	require.NoError(t, os.Symlink(realDir, filepath.Join(links, "dirlink")))

	cat, report := NewBuilder(nil, WithLookupEnv(envWithPath(links))).Build()

	assert.Equal(t, model.Catalog{"python"}, cat)
	require.Len(t, report.Dirs, 1)
	assert.Equal(t, 3, report.Dirs[0].Listed)
	assert.Equal(t, 2, report.Dirs[0].Skipped)
}

func TestBuildRejectedNameDoesNotShadowLaterDirectory(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "first")
	second := filepath.Join(root, "second")
	writeFile(t, first, "tool", 0o644)
	writeFile(t, second, "tool", 0o755)

	cat, report := NewBuilder(nil, WithLookupEnv(envWithPath(first, second))).Build()

	assert.Equal(t, model.Catalog{"tool"}, cat)
	assert.Empty(t, report.Dirs[1].Shadowed)
}

func TestBuildCustomPathVar(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "only-here", 0o755)
	t.Setenv("RUNBOX_TEST_PATH", dir)

	cat, report := NewBuilder(nil, WithPathVar("RUNBOX_TEST_PATH")).Build()

	assert.Equal(t, model.Catalog{"only-here"}, cat)
	assert.Equal(t, "RUNBOX_TEST_PATH", report.PathVar)
}

func TestBuildSortedAndUniqueAcrossManyDirectories(t *testing.T) {
	root := t.TempDir()
	var dirs []string
	names := []string{"a", "ab", "abc", "b", "ba", "z", "Z", "_x", "x-1", "x.1"}
	for i := 0; i < 5; i++ {
		d := filepath.Join(root, "d"+string(rune('0'+i)))
		for j, n := range names {
			if (i+j)%2 == 0 {
				writeFile(t, d, n, 0o755)
			}
		}
		dirs = append(dirs, d)
	}

	cat, _ := NewBuilder(nil, WithLookupEnv(envWithPath(dirs...))).Build()

	assert.True(t, slices.IsSorted(cat))
	assert.Len(t, slices.Compact(slices.Clone(cat)), len(cat))
	assert.ElementsMatch(t, names, cat)
}

func TestBuildSkipsInvalidUTF8Name(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok", 0o755)
	writeFile(t, dir, "bad\xff", 0o755)

	cat, report := NewBuilder(nil, WithLookupEnv(envWithPath(dir))).Build()

	assert.Equal(t, model.Catalog{"ok"}, cat)
	require.Len(t, report.Dirs, 1)
	assert.Equal(t, 2, report.Dirs[0].Listed)
	assert.Equal(t, 1, report.Dirs[0].Skipped)
}

func TestBuildEmptyPathElementIsUnavailable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok", 0o755)
	writeFile(t, dir, "bad\xff", 0o755)

	cat, report := NewBuilder(nil, WithLookupEnv(envWithPath(dir, "", dir))).Build()

	assert.Equal(t, model.Catalog{"ok"}, cat)
	require.Len(t, report.Dirs, 3)
	assert.True(t, report.Dirs[0].Available())
	assert.Equal(t, "", report.Dirs[1].Path)
	assert.False(t, report.Dirs[1].Available())
	assert.Equal(t, []string{"ok"}, report.Dirs[2].Shadowed)
	assert.Zero(t, report.Dirs[2].Accepted)
}

func TestBuildKeepsEntriesReadBeforeListingError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alpha", 0o755)
	writeFile(t, dir, "beta", 0o755)
	writeFile(t, dir, "gamma", 0o755)

	b := NewBuilder(nil, WithLookupEnv(envWithPath(dir)))
	b.readDir = func(name string) ([]os.DirEntry, error) {
		entries, err := os.ReadDir(name)
		require.NoError(t, err)
		return entries[:2], errors.New("readdirent: input/output error")
	}
	cat, report := b.Build()

	assert.Equal(t, model.Catalog{"alpha", "beta"}, cat)
	require.Len(t, report.Dirs, 1)
	assert.Equal(t, 2, report.Dirs[0].Accepted)
	assert.Contains(t, report.Dirs[0].Err, "input/output error")
}
