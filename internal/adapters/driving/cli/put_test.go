package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPutCmd_Use(t *testing.T) {
	assert.Equal(t, "put [document.json...]", putCmd.Use)
}

func TestPutCmd_RequiresAtLeastOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"put"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestPutCmd_StoresDocument(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeDocFile(t, `{"libraryId":"teaching","path":"docs/a","title":"Case"}`)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"put", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Stored teaching/docs/a")

	doc, err := index.Get(t.Context(), "teaching", "docs/a")
	require.NoError(t, err)
	assert.Equal(t, "Case", doc.Title)
}

func TestPutCmd_RejectsDocumentWithoutLocation(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeDocFile(t, `{"title":"Homeless"}`)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"put", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "libraryId and path")
}

func TestPutCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"put", filepath.Join(t.TempDir(), "nosuch.json")})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
}
