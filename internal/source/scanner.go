package source

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir walks dir and returns every readable input document, sorted by path.
// Hidden files and directories are skipped, as are files with other extensions.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New(dir + ": not a directory")
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		name := d.Name()
		if path != dir && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		format, ferr := FormatFor(path)
		if ferr != nil {
			return nil
		}

		rel, _ := filepath.Rel(dir, path)
		files = append(files, DiscoveredFile{Path: path, Name: rel, Format: format})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// CountFormats tallies discovered files by format.
func CountFormats(files []DiscoveredFile) map[Format]int {
	out := make(map[Format]int)
	for _, f := range files {
		out[f.Format]++
	}
	return out
}
