package generator

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed templates
var embedded embed.FS

// ErrTemplateNotFound is returned when no candidate template exists.
var ErrTemplateNotFound = errors.New("template not found")

// Templates reads template files from a directory. Files missing there are
// taken from the built-in set.
type Templates struct {
	dir      string
	builtins fs.FS
}

// NewTemplates returns a loader for dir. An empty dir uses only the
// built-in templates.
func NewTemplates(dir string) *Templates {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return &Templates{dir: dir, builtins: sub}
}

// Read returns the content of the first of names found, looking through the
// template directory before the built-in set. The second result tells where
// the template came from.
func (t *Templates) Read(names ...string) (string, string, error) {
	if t.dir != "" {
		for _, name := range names {
			p := filepath.Join(t.dir, name)
			data, err := os.ReadFile(p)
			if err == nil {
				return string(data), p, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return "", "", fmt.Errorf("read template %s: %w", p, err)
			}
		}
	}
	for _, name := range names {
		data, err := fs.ReadFile(t.builtins, name)
		if err == nil {
			return string(data), "builtin:" + name, nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrTemplateNotFound, strings.Join(names, ", "))
}

// isTemplate reports whether a file of the template set is a page or
// document template rather than an asset to copy.
func isTemplate(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".tex":
		return true
	}
	return false
}

// CopyAssets copies every non-template file into outDir, keeping the
// directory layout. Without a template directory the built-in assets are
// copied. It returns the written files.
func (t *Templates) CopyAssets(outDir string) ([]string, error) {
	src := t.builtins
	if t.dir != "" {
		if info, err := os.Stat(t.dir); err == nil && info.IsDir() {
			src = os.DirFS(t.dir)
		}
	}

	var written []string
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || isTemplate(p) || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		data, err := fs.ReadFile(src, p)
		if err != nil {
			return err
		}
		dst := filepath.Join(outDir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return err
		}
		written = append(written, dst)
		return nil
	})
	if err != nil {
		return written, fmt.Errorf("copy assets: %w", err)
	}
	return written, nil
}
