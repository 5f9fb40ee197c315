package githook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// HookName is the git hook remote-guard installs as.
const HookName = "pre-push"

const backupSuffix = ".bak"

// ErrForeignHook is returned when a pre-push hook that does not run
// remote-guard is in the way.
var ErrForeignHook = errors.New("a different pre-push hook is already installed")

// InstallOptions configures Install.
type InstallOptions struct {
	HooksDir string
	Binary   string   // absolute path of the remote-guard executable
	Args     []string // extra arguments for script hooks, e.g. --config
	Symlink  bool     // link the binary instead of writing a script
	Force    bool     // replace an existing hook; a foreign one is backed up
}

// InstallResult describes what Install did.
type InstallResult struct {
	Path             string
	Backup           string // set when a foreign hook was moved aside
	AlreadyInstalled bool   // nothing was written
}

type hookState int

const (
	hookMissing hookState = iota
	hookOurs
	hookForeign
)

// inspect classifies the hook at path. A hook is ours when it carries the
// ScriptMarker, runs remote-guard or binary, or is a symlink to either.
func inspect(path, binary string) (hookState, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return hookMissing, nil
	}
	if err != nil {
		return hookForeign, err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			return hookForeign, err
		}
		if isGuardCommand(target, binary) {
			return hookOurs, nil
		}
		return hookForeign, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return hookForeign, err
	}
	if script := string(data); hasMarker(script) || scriptRuns(script, binary) {
		return hookOurs, nil
	}
	return hookForeign, nil
}

// Install writes the pre-push hook into opts.HooksDir.
func Install(opts InstallOptions) (InstallResult, error) {
	if opts.Binary == "" {
		return InstallResult{}, errors.New("missing remote-guard binary path")
	}
	if opts.Symlink && len(opts.Args) > 0 {
		return InstallResult{}, errors.New("extra arguments cannot be passed through a symlinked hook")
	}

	path := filepath.Join(opts.HooksDir, HookName)
	result := InstallResult{Path: path}

	state, err := inspect(path, opts.Binary)
	if err != nil {
		return result, fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	switch state {
	case hookOurs:
		if !opts.Force {
			result.AlreadyInstalled = true
			return result, nil
		}
		if err := os.Remove(path); err != nil {
			return result, err
		}
	case hookForeign:
		if !opts.Force {
			return result, fmt.Errorf("%s: %w", path, ErrForeignHook)
		}
		result.Backup = path + backupSuffix
		if err := os.Rename(path, result.Backup); err != nil {
			return result, fmt.Errorf("failed to back up existing hook: %w", err)
		}
	}

	if err := os.MkdirAll(opts.HooksDir, 0o755); err != nil {
		return result, fmt.Errorf("failed to create hooks directory: %w", err)
	}

	if opts.Symlink {
		if err := os.Symlink(opts.Binary, path); err != nil {
			return result, fmt.Errorf("failed to link hook: %w", err)
		}
		return result, nil
	}

	script, err := Script(opts.Binary, opts.Args)
	if err != nil {
		return result, err
	}
	if err := os.WriteFile(path, script, 0o755); err != nil {
		return result, fmt.Errorf("failed to write hook: %w", err)
	}
	// WriteFile is subject to umask; hooks must be executable.
	if err := os.Chmod(path, 0o755); err != nil {
		return result, err
	}
	return result, nil
}

// Uninstall removes the pre-push hook if it runs remote-guard, restoring a
// hook backed up by Install. binary, when set, is the executable the hook
// was installed with. It reports whether anything was removed.
func Uninstall(hooksDir, binary string) (bool, error) {
	path := filepath.Join(hooksDir, HookName)
	state, err := inspect(path, binary)
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	switch state {
	case hookMissing:
		return false, nil
	case hookForeign:
		return false, fmt.Errorf("%s: %w", path, ErrForeignHook)
	}

	if err := os.Remove(path); err != nil {
		return false, err
	}
	backup := path + backupSuffix
	if _, err := os.Lstat(backup); err == nil {
		if err := os.Rename(backup, path); err != nil {
			return true, fmt.Errorf("failed to restore %s: %w", backup, err)
		}
	}
	return true, nil
}
