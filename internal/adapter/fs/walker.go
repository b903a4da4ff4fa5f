package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
)

// Walker selects ingestable document files under a root directory using
// doublestar include/exclude globs matched against root-relative paths.
type Walker struct {
	includes []string
	excludes []string
}

func NewWalker(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	return &Walker{
		includes: includes,
		excludes: excludes,
	}
}

// File is a candidate document. Name is the root-relative path and
// becomes the document name on ingest.
type File struct {
	Path string
	Name string
}

// Walk collects matching files under root. A root that is itself a
// regular file is returned as a single candidate regardless of globs.
func (w *Walker) Walk(root string) ([]File, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []File{{Path: root, Name: filepath.Base(root)}}, nil
	}

	var files []File
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if w.excluded(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if w.included(rel) && !w.excluded(rel) {
			files = append(files, File{Path: path, Name: rel})
		}
		return nil
	})

	return files, err
}

func (w *Walker) included(path string) bool {
	for _, pattern := range w.includes {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

func (w *Walker) excluded(path string) bool {
	for _, pattern := range w.excludes {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// ReadText reads a file as UTF-8 text. Binary content is rejected so it
// never reaches the chunker.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("not valid UTF-8 text: %s", path)
	}
	return string(data), nil
}
