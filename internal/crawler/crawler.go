package crawler

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"escrido/internal/extractor"
)

// Crawler walks include paths for files with documentation comments.
type Crawler struct {
	extractor  *extractor.Extractor
	ignored    []string
	extensions map[string]bool
	logger     *slog.Logger
}

// NewCrawler creates a new crawler instance. With no extensions every file
// is read.
func NewCrawler(ext *extractor.Extractor, extensions ...string) *Crawler {
	c := &Crawler{
		extractor: ext,
		ignored:   []string{".git", "vendor", "node_modules"},
		logger:    slog.Default(),
	}
	if len(extensions) > 0 {
		c.extensions = make(map[string]bool, len(extensions))
		for _, e := range extensions {
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			c.extensions[strings.ToLower(e)] = true
		}
	}
	return c
}

// WithLogger sets the logger for unreadable files.
func (c *Crawler) WithLogger(l *slog.Logger) *Crawler {
	c.logger = l
	return c
}

// Files returns the files below root in lexical order. A root naming a
// file yields just that file.
func (c *Crawler) Files(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			if path != root {
				for _, ign := range c.ignored {
					if d.Name() == ign {
						return filepath.SkipDir
					}
				}
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if c.extensions != nil && !c.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		files = append(files, path)
		return nil
	})
	sort.Strings(files)
	return files, err
}

// ScanProject walks root and streams the comments of every file in file
// order. Files that cannot be read are logged and skipped.
func (c *Crawler) ScanProject(root string, onComment func(*extractor.Comment)) error {
	files, err := c.Files(root)
	if err != nil {
		return err
	}
	for _, path := range files {
		comments, err := c.extractor.ExtractFromFile(path)
		if err != nil {
			// Log and continue instead of failing the whole scan
			c.logger.Warn("skipping file", "path", path, "error", err)
			continue
		}
		for _, cm := range comments {
			onComment(cm)
		}
	}
	return nil
}
