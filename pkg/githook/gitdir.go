// Package githook locates a repository's hooks directory and installs
// remote-guard as its pre-push hook.
package githook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotGitRepo is returned when no .git is found above the start directory.
var ErrNotGitRepo = errors.New("not inside a git repository")

// FindGitDir walks up from start to the repository's git directory. A .git
// file ("gitdir: <path>", used by worktrees and submodules) is followed.
func FindGitDir(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, ".git")
		info, err := os.Stat(candidate)
		switch {
		case err == nil && info.IsDir():
			return candidate, nil
		case err == nil:
			return readGitFile(candidate)
		case !errors.Is(err, os.ErrNotExist):
			return "", err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotGitRepo
		}
		dir = parent
	}
}

func readGitFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	target, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir:")
	if !ok {
		return "", fmt.Errorf("%s: not a gitdir file", path)
	}
	return resolveRelative(filepath.Dir(path), strings.TrimSpace(target)), nil
}

// HooksDir returns the hooks directory for gitDir. Linked worktrees share the
// hooks of their main repository, found through the "commondir" file.
func HooksDir(gitDir string) string {
	common := gitDir
	if data, err := os.ReadFile(filepath.Join(gitDir, "commondir")); err == nil {
		if rel := strings.TrimSpace(string(data)); rel != "" {
			common = resolveRelative(gitDir, rel)
		}
	}
	return filepath.Join(common, "hooks")
}

func resolveRelative(base, p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	return filepath.Clean(p)
}
