// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"sort"
	"strings"
)

// FindFilesByExtension recursively searches root inside fsys for all files
// ending with the specified extension. The paths are returned sorted so that
// loading order does not depend on the directory walk.
func FindFilesByExtension(fsys fs.FS, root string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
