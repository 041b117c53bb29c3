package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos-csv/internal/fileutils"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	return path
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := touch(t, filepath.Join(tmpDir, "test.xlsx"))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.xlsx")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestCollectWorkbooksFromDirectory(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "gastos_01_2024.xlsx"))
	b := touch(t, filepath.Join(dir, "sub", "gastos_02_2024.xlsx"))
	touch(t, filepath.Join(dir, "notas.txt"))
	touch(t, filepath.Join(dir, "~$gastos_01_2024.xlsx"))

	paths, err := fileutils.CollectWorkbooks([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, paths)
}

func TestCollectWorkbooksGlobAndDedupe(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "gastos_01_2024.xlsx"))
	b := touch(t, filepath.Join(dir, "gastos_02_2024.xlsx"))

	paths, err := fileutils.CollectWorkbooks([]string{
		b, // explicit file first: order preserved
		filepath.Join(dir, "gastos_*.xlsx"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{b, a}, paths)
}

func TestCollectWorkbooksMissingInput(t *testing.T) {
	_, err := fileutils.CollectWorkbooks([]string{filepath.Join(t.TempDir(), "absent.xlsx")})
	assert.Error(t, err)
}

func TestEnsureDirectoryExists(t *testing.T) {
	newDir := filepath.Join(t.TempDir(), "new", "nested", "dir")
	require.NoError(t, fileutils.EnsureDirectoryExists(newDir))
	assert.True(t, fileutils.DirectoryExists(newDir))
	require.NoError(t, fileutils.EnsureDirectoryExists(newDir))
}
