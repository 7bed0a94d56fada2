// Package discover finds model files under a directory tree.
package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Ext is the model file extension, matched case-insensitively.
const Ext = ".stl"

// IsModel reports whether path names an STL file.
func IsModel(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Ext)
}

// Models walks root recursively and returns every STL file path in lexical
// walk order. Unreadable subdirectories are skipped silently.
func Models(root string) ([]string, error) {
	return Walk(root, nil)
}

// Walk is Models with a callback for every subdirectory that could not be
// read and was skipped. onSkip may be nil. Only a failure on root itself is
// returned as an error.
func Walk(root string, onSkip func(dir string, err error)) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				if onSkip != nil {
					onSkip(path, err)
				}
				return fs.SkipDir
			}
			return err
		}
		if !d.IsDir() && IsModel(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover: walk %s: %w", root, err)
	}
	return paths, nil
}
