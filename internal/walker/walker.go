// Package walker enumerates the regular files under a directory tree.
//
// Symbolic links are never followed: a symlinked directory is not descended
// into and a symlinked file is not enumerated. This is the behaviour of
// filepath.WalkDir combined with the regular-file check below, and it is the
// deliberate policy — following links can loop forever on cyclic trees.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo describes one enumerated file. SizeKnown is false when the
// metadata lookup failed; the file is still enumerated because its content
// may well be readable.
type FileInfo struct {
	Path      string
	Size      int64
	SizeKnown bool
}

// Result holds the enumerated files in traversal order plus any per-entry
// errors that were skipped over.
type Result struct {
	Files  []FileInfo
	Errors []error
}

// InvalidRootError reports a scan root that does not exist or is not a
// directory. It is the only fatal condition a walk can produce.
type InvalidRootError struct {
	Path string
	Err  error
}

func (e *InvalidRootError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid root %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid root %s: not a directory", e.Path)
}

func (e *InvalidRootError) Unwrap() error { return e.Err }

// CheckRoot validates that root exists and is a directory.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return &InvalidRootError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return &InvalidRootError{Path: root}
	}
	return nil
}

// Walk enumerates every regular file under rootPath, depth-first, skipping
// paths matched by the exclusion patterns. A per-entry error (unreadable
// subdirectory, vanished file) is recorded and the walk continues; only a
// bad root aborts.
func Walk(rootPath string, exclusions []string) (*Result, error) {
	if err := CheckRoot(rootPath); err != nil {
		return nil, err
	}

	result := &Result{
		Files:  make([]FileInfo, 0),
		Errors: make([]error, 0),
	}

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			result.Errors = append(result.Errors, err)
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			result.Errors = append(result.Errors, err)
			return nil
		}

		if shouldExclude(relPath, exclusions) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Regular files only: no directories, symlinks, sockets, devices.
		if !d.Type().IsRegular() {
			return nil
		}

		rec := FileInfo{Path: path}
		if info, err := d.Info(); err != nil {
			result.Errors = append(result.Errors, err)
		} else {
			rec.Size = info.Size()
			rec.SizeKnown = true
		}
		result.Files = append(result.Files, rec)

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return result, nil
}

func shouldExclude(relPath string, exclusions []string) bool {
	for _, pattern := range exclusions {
		// Patterns ending with / exclude a directory anywhere in the path.
		if strings.HasSuffix(pattern, "/") {
			dirPattern := strings.TrimSuffix(pattern, "/")
			for _, part := range strings.Split(relPath, string(filepath.Separator)) {
				if matched, _ := filepath.Match(dirPattern, part); matched {
					return true
				}
				if part == dirPattern {
					return true
				}
			}
			continue
		}

		if matched, err := filepath.Match(pattern, filepath.Base(relPath)); err == nil && matched {
			return true
		}
		// Patterns containing / match against the whole relative path.
		if strings.Contains(pattern, "/") {
			if matched, err := filepath.Match(pattern, relPath); err == nil && matched {
				return true
			}
		}
	}
	return false
}
