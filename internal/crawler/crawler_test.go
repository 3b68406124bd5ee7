package crawler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escrido/internal/extractor"
)

func TestCrawler_ScanProject(t *testing.T) {
	ext, err := extractor.NewExtractor()
	require.NoError(t, err)

	root := filepath.Join("..", "extractor", "testdata")

	t.Run("all files", func(t *testing.T) {
		var comments []*extractor.Comment
		require.NoError(t, NewCrawler(ext).ScanProject(root, func(c *extractor.Comment) {
			comments = append(comments, c)
		}))
		require.Len(t, comments, 8)
		assert.Equal(t, filepath.Join(root, "sample.go"), comments[0].Filepath)
		assert.Equal(t, filepath.Join(root, "sample.txt"), comments[7].Filepath)
	})

	t.Run("extension filter", func(t *testing.T) {
		files, err := NewCrawler(ext, "js").Files(root)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "sample.js")}, files)
	})

	t.Run("single file", func(t *testing.T) {
		files, err := NewCrawler(ext).Files(filepath.Join(root, "sample.go"))
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("missing root", func(t *testing.T) {
		err := NewCrawler(ext).ScanProject(filepath.Join(root, "nope"), func(*extractor.Comment) {})
		assert.Error(t, err)
	})
}

func TestCrawler_SkipsIgnoredDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor", "x.go"), []byte("package x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a"), 0o644))

	ext, err := extractor.NewExtractor()
	require.NoError(t, err)
	files, err := NewCrawler(ext).Files(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.go")}, files)
}
