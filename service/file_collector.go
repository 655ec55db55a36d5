package service

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/ludo-technologies/spdxscan/domain"
)

// FileCollectorImpl enumerates scan candidates on the local filesystem.
// Exclusion uses gitignore-style pattern matching against paths relative
// to each walk root.
type FileCollectorImpl struct{}

// NewFileCollector creates a new file collector
func NewFileCollector() *FileCollectorImpl {
	return &FileCollectorImpl{}
}

// Collect finds files under the given paths in lexicographic order.
// Explicit file arguments bypass the exclude patterns; directories are
// walked (recursively or one level deep) with excluded subtrees pruned.
func (c *FileCollectorImpl) Collect(paths []string, recursive bool, excludePatterns []string) ([]string, error) {
	matcher := ignore.CompileIgnoreLines(excludePatterns...)

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if !info.IsDir() {
			// A path named on the command line is scanned even if a
			// pattern would exclude it.
			add(path)
			continue
		}

		root := path
		walkErr := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p == root {
				return nil
			}

			rel, relErr := filepath.Rel(root, p)
			if relErr != nil {
				rel = p
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if !recursive {
					return filepath.SkipDir
				}
				if matcher.MatchesPath(rel + "/") {
					return filepath.SkipDir
				}
				return nil
			}

			if matcher.MatchesPath(rel) {
				return nil
			}
			add(p)
			return nil
		})
		if walkErr != nil {
			return nil, domain.NewScanError("failed to walk "+root, walkErr)
		}
	}

	sort.Strings(files)
	return files, nil
}

// CollectGit lists candidates from the git index instead of walking the
// filesystem. Each directory argument must sit inside a git work tree;
// explicit file arguments are passed through as in Collect. Deleted but
// still-tracked paths are dropped.
func (c *FileCollectorImpl) CollectGit(paths []string, modifiedOnly bool, excludePatterns []string) ([]string, error) {
	matcher := ignore.CompileIgnoreLines(excludePatterns...)

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		names, err := gitListFiles(path, modifiedOnly)
		if err != nil {
			return nil, err
		}
		for _, rel := range names {
			if matcher.MatchesPath(rel) {
				continue
			}
			full := filepath.Join(path, filepath.FromSlash(rel))
			fi, statErr := os.Stat(full)
			if statErr != nil || fi.IsDir() {
				continue
			}
			add(full)
		}
	}

	sort.Strings(files)
	return files, nil
}

// gitListFiles returns paths relative to dir as reported by git
func gitListFiles(dir string, modifiedOnly bool) ([]string, error) {
	if !modifiedOnly {
		return gitOutput(dir, "ls-files", "-z")
	}

	// Unstaged modifications plus untracked files, then staged changes;
	// the caller dedupes.
	changed, err := gitOutput(dir, "ls-files", "-z", "--modified", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	staged, err := gitOutput(dir, "diff", "--name-only", "--cached", "-z")
	if err != nil {
		return nil, err
	}
	return append(changed, staged...), nil
}

// gitOutput runs git in dir and splits its NUL-separated output
func gitOutput(dir string, args ...string) ([]string, error) {
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		return nil, domain.NewScanError("git listing failed in "+dir, err)
	}
	var names []string
	for _, field := range bytes.Split(out, []byte{0}) {
		if len(field) > 0 {
			names = append(names, string(field))
		}
	}
	return names, nil
}

// ReadFile reads the content of a file
func (c *FileCollectorImpl) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return content, nil
}

// FileExists checks if a file exists
func (c *FileCollectorImpl) FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
