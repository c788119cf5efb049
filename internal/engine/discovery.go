package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoveryOptions configures how label files are found.
type DiscoveryOptions struct {
	// Recursive descends into subdirectories of directory arguments
	Recursive bool
	// Include patterns select files inside directories (e.g. "*.lbl");
	// empty includes every file
	Include []string
	// Exclude patterns drop files and directories (e.g. "**/tmp/**")
	Exclude []string
}

// Validate checks that every pattern is a valid glob.
func (o DiscoveryOptions) Validate() error {
	for _, group := range [][]string{o.Include, o.Exclude} {
		for _, pat := range group {
			if !doublestar.ValidatePattern(pat) {
				return fmt.Errorf("invalid pattern %q", pat)
			}
		}
	}
	return nil
}

// Discover expands paths into a sorted, de-duplicated list of label files.
// Explicit files are kept unless excluded; directories are scanned for files
// matching an include pattern; arguments containing glob characters are
// expanded first.
func Discover(paths []string, opts DiscoveryOptions) ([]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range paths {
		matches := []string{arg}
		if hasMeta(arg) {
			var err error
			matches, err = doublestar.FilepathGlob(arg)
			if err != nil {
				return nil, fmt.Errorf("expand %s: %w", arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %s", arg)
			}
		}

		for _, path := range matches {
			info, err := os.Stat(path)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", path, err)
			}
			if !info.IsDir() {
				if !opts.excluded(path, path) {
					add(path)
				}
				continue
			}
			if err := opts.walk(path, add); err != nil {
				return nil, err
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func (o DiscoveryOptions) walk(root string, add func(string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !o.Recursive || o.excluded(path, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if o.Matches(path, rel) {
			add(path)
		}
		return nil
	})
}

// Matches reports whether a file found under a directory is a label file:
// it matches an include pattern and no exclude pattern. rel is the path
// relative to the scanned directory.
func (o DiscoveryOptions) Matches(path, rel string) bool {
	if o.excluded(path, rel) {
		return false
	}
	if len(o.Include) == 0 {
		return true
	}
	return matchAny(o.Include, path, rel)
}

func (o DiscoveryOptions) excluded(path, rel string) bool {
	return matchAny(o.Exclude, path, rel)
}

// matchAny matches patterns against the base name and the relative path.
func matchAny(patterns []string, path, rel string) bool {
	base := filepath.Base(path)
	rel = filepath.ToSlash(rel)
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, base); ok {
			return true
		}
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

func hasMeta(path string) bool {
	for _, c := range path {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
