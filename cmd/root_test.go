package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxrename/internal/config"
	"rxrename/internal/errors"
	"rxrename/internal/report"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.LogLevelEnv, "")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0644))
	}
}

// tree lists every path under dir, slash separated, directories included.
func tree(t *testing.T, dir string) []string {
	t.Helper()
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(paths)
	return paths
}

func TestRun_CommitRenamesMatchingFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "img001.png", "notes.txt")

	out, _, err := run(t, "--commit", `img(\d+)`, "photo_$1", dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"notes.txt", "photo_001.png"}, tree(t, dir))
	assert.Contains(t, out, "Renamed 1 of 2 files (0 skipped, 0 failed).")
}

func TestRun_CollisionRenamesNothing(t *testing.T) {
	for _, args := range [][]string{
		{"--commit", ".*", "same"},
		{"--commit", "--keep-ext", ".*", "same"},
	} {
		dir := t.TempDir()
		touch(t, dir, "a.txt", "b.txt")

		out, _, err := run(t, append(args, "-v", dir)...)
		require.NoError(t, err)

		assert.Equal(t, []string{"a.txt", "b.txt"}, tree(t, dir))
		assert.Contains(t, out, "(collision)")
		assert.Contains(t, out, "No changes with current parameters.")
	}
}

func TestRun_NoMatchIsNothingToDo(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.txt")

	out, _, err := run(t, "--commit", "zzz", "y", dir)
	require.NoError(t, err)

	assert.Equal(t, "No changes with current parameters.\n", out)
	assert.Equal(t, []string{"a.txt"}, tree(t, dir))
}

func TestRun_DryRunIsTheDefault(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "img001.png")

	out, _, err := run(t, "-v", `img(\d+)`, "photo_$1", dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"img001.png"}, tree(t, dir))
	assert.Contains(t, out, "will be renamed to photo_001.png")
	assert.Contains(t, out, "Would rename 1 of 1 files (0 skipped).")
	assert.Contains(t, out, "Re-run with --commit")
	assert.NotContains(t, out, "\x1b[", "output to a buffer is never colored in auto mode")
}

func TestRun_RecursiveRenamesOnlyFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "img_top.txt", "img_dir/img_inner.txt")

	_, _, err := run(t, "-r", "--commit", "img", "pic", dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"img_dir", "img_dir/pic_inner.txt", "pic_top.txt"}, tree(t, dir))
}

func TestRun_NotRecursiveByDefault(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "img_dir/img_inner.txt")

	out, _, err := run(t, "--commit", "img", "pic", dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"img_dir", "img_dir/img_inner.txt"}, tree(t, dir))
	assert.Contains(t, out, "No changes")
}

func TestRun_NamedArguments(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a_copy.txt")

	_, _, err := run(t, "--commit", "--regex", "_copy", "--format", "", "-d", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, tree(t, dir))
}

func TestRun_MixedNamedAndPositional(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a_copy.txt")

	_, _, err := run(t, "--commit", "--format", "", "_copy", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, tree(t, dir))
}

func TestRun_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "img001.png")

	out, _, err := run(t, "-o", "json", `img(\d+)`, "photo_$1", dir)
	require.NoError(t, err)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.True(t, doc.Summary.DryRun)
	assert.Equal(t, []report.Entry{{Source: "img001.png", Target: "photo_001.png", Status: "planned"}}, doc.Entries)
}

func TestRun_DebugLogsConfiguration(t *testing.T) {
	dir := t.TempDir()

	_, errOut, err := run(t, "--debug", "x", "y", dir)
	require.NoError(t, err)

	assert.Contains(t, errOut, "resolved configuration")
	assert.Contains(t, errOut, "config.pattern=x")
}

func TestRun_ArgumentErrors(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.txt")

	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"missing template", []string{"a"}},
		{"missing directory", []string{"a", "b"}},
		{"invalid regex", []string{"(", "b", dir}},
		{"directory does not exist", []string{"a", "b", filepath.Join(dir, "nope")}},
		{"directory is a file", []string{"a", "b", filepath.Join(dir, "a.txt")}},
		{"extra positional after named", []string{"--regex", "a", "b", dir, "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsArgument(err), "expected argument error, got %v", err)
		})
	}

	assert.Equal(t, []string{"a.txt"}, tree(t, dir), "argument errors never touch the directory")
}

func TestRun_FlagErrors(t *testing.T) {
	dir := t.TempDir()

	for _, args := range [][]string{
		{"-o", "xml", "a", "b", dir},
		{"--color", "sometimes", "a", "b", dir},
		{"--color", "always", "--no-color", "a", "b", dir},
		{"a", "b", dir, "extra"},
	} {
		_, _, err := run(t, args...)
		assert.Error(t, err, "args %v", args)
	}
}

func TestRun_ColorAlways(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.txt")

	out, _, err := run(t, "-v", "--color", "always", "a", "b", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
}

func TestRun_CommitFailureExitsWithError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir := t.TempDir()
	touch(t, dir, "a.txt")
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

	out, _, err := run(t, "--commit", "a", "b", dir)
	require.Error(t, err)
	assert.True(t, errors.IsRename(err))

	assert.Contains(t, out, "failed to rename to b.txt")
	assert.Contains(t, out, "Renamed 0 of 1 files (0 skipped, 1 failed).")
}

func TestRun_DotfilesAreCandidates(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, ".img001.png", ".cache/img002.png", "sub/img003.png")

	out, _, err := run(t, "-r", "-v", "--commit", `img(\d+)`, "photo_$1", dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		".cache", ".cache/photo_002.png", ".photo_001.png", "sub", "sub/photo_003.png",
	}, tree(t, dir))
	assert.Contains(t, out, "Renamed 3 of 3 files (0 skipped, 0 failed).")
}

func TestRun_SkipHidden(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, ".img001.png", ".cache/img002.png", "sub/img003.png")

	out, _, err := run(t, "-r", "--skip-hidden", "--commit", `img(\d+)`, "photo_$1", dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		".cache", ".cache/img002.png", ".img001.png", "sub", "sub/photo_003.png",
	}, tree(t, dir))
	assert.Contains(t, out, "Renamed 1 of 1 files (0 skipped, 0 failed).")
}

func TestErrorHint(t *testing.T) {
	assert.Contains(t, errorHint(errors.NewArgumentError("missing input regex", nil)), "--help")
	assert.Contains(t, errorHint(errors.NewRenameFailuresError(1, 2)), "left in place")
	assert.Empty(t, errorHint(errors.NewFilesystemAccessError("/data", "cannot read directory", nil)))
}

func TestRun_KeepExtensionTargets(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.txt", "b.txt")

	plain, _, err := run(t, "-v", ".*", "same", dir)
	require.NoError(t, err)
	assert.Contains(t, plain, "not renamed to same (collision)")

	kept, _, err := run(t, "-v", "--keep-ext", ".*", "same", dir)
	require.NoError(t, err)
	assert.Contains(t, kept, "not renamed to same.txt (collision)")

	assert.Contains(t, newRootCmd().Flag("keep-ext").Usage, "x.txt")
}
