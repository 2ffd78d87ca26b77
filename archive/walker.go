// Package archive walks files stored in zip archives and directory trees in
// natural name order ("page2" before "page10").
package archive

import (
	"archive/zip"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to Walk
// The file argument is the zip.File structure for file in archive which satisfies
// match condition. If an error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk walks all files in the archive with names starting with pattern,
// calling walkFn for each item in natural order of names. Archives with
// absolute entry names or ".." components are rejected.
func Walk(archive, pattern string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	files := make([]*zip.File, 0, len(r.File))
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, pattern) {
			files = append(files, f)
		}
	}
	slices.SortStableFunc(files, func(a, b *zip.File) int {
		return compare(a.FileHeader.Name, b.FileHeader.Name)
	})

	for _, f := range files {
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// FileFunc is called by WalkDir for every regular file or, with non nil err,
// for every directory which could not be read. Returning an error stops the
// walk.
type FileFunc func(path string, info fs.FileInfo, err error) error

// WalkDir walks directory tree rooted at dir in natural order of names,
// calling fn for regular files only. Symbolic links are not followed.
func WalkDir(dir string, fn FileFunc) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fn(dir, nil, err)
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return compare(a.Name(), b.Name())
	})
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		switch {
		case e.IsDir():
			if err := WalkDir(p, fn); err != nil {
				return err
			}
		case e.Type().IsRegular():
			info, err := e.Info()
			if err := fn(p, info, err); err != nil {
				return err
			}
		}
	}
	return nil
}

func compare(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return 0
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	return !slices.Contains(strings.Split(name, "/"), "..")
}
