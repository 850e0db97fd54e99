package search

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

var ignoredDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	".idea":        {},
	"target":       {},
	"vendor":       {},
	"__pycache__":  {},
}

// IsIgnoredDir reports whether a directory name is skipped by listings.
func IsIgnoredDir(name string) bool {
	_, ok := ignoredDirs[name]
	return ok
}

// FindFiles returns up to limit relative paths under root, skipping common ignores.
// Directories are included with a trailing "/".
func FindFiles(root string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 200
	}
	paths := make([]string, 0, limit)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if IsIgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			rel += "/"
		}
		paths = append(paths, rel)
		if len(paths) >= limit {
			return fs.SkipAll
		}
		return nil
	})
	return paths, err
}

// ListDir returns the direct children of dir, sorted, directories suffixed with "/".
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			if IsIgnoredDir(name) {
				continue
			}
			name += "/"
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}
