package fileutils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kris2339/MEO-PayDay/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	// Directories are not files
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestListFiles(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.xls", "notes.txt", ".hidden.xlsx", "~$a.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "sub.xlsx"), 0755))

	isSheet := func(name string) bool {
		return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls")
	}

	files, err := fileutils.ListFiles(tmpDir, isSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a.xls"),
		filepath.Join(tmpDir, "b.xlsx"),
	}, files)

	all, err := fileutils.ListFiles(tmpDir, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListFiles_MissingDirectory(t *testing.T) {
	_, err := fileutils.ListFiles(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}
