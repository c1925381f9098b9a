package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/twine/internal/config"
	"github.com/hpungsan/twine/internal/errors"
)

// PathCheckMode indicates whether the path check is for reading or writing.
type PathCheckMode int

const (
	PathCheckRead  PathCheckMode = iota // import
	PathCheckWrite                      // export
)

// Export file extensions.
const (
	ExtJSONL     = ".jsonl"
	ExtJSONLZstd = ".jsonl.zst"
)

// ValidatePath vets an import or export path before it is opened.
//
// The path must not contain "..", must end in .jsonl or .jsonl.zst, and
// must sit directly inside ~/.twine/exports or one of cfg.AllowedPaths.
// Subdirectories are refused so no intermediate component can be swapped
// for a symlink between this check and the O_NOFOLLOW open.
// cfg.AllowUnsafePaths lifts the directory rule only; symlinks are always
// refused.
func ValidatePath(path string, mode PathCheckMode, cfg *config.Config) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}
	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if !HasExportExt(cleaned) {
		return errors.NewInvalidRequest("path must have .jsonl or .jsonl.zst extension")
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	if cfg == nil || !cfg.AllowUnsafePaths {
		if err := checkDirectory(absPath, cfg); err != nil {
			return err
		}
	}

	if mode == PathCheckRead {
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			return errors.NewFileNotFound(path)
		}
	}

	if isSymlink(absPath) {
		return errors.NewInvalidRequest("path must not be a symlink")
	}
	return nil
}

// checkDirectory enforces the allowed-directory rule for absPath.
func checkDirectory(absPath string, cfg *config.Config) error {
	allowedDirs, err := getAllowedDirs(cfg)
	if err != nil {
		return err
	}

	parentDir := filepath.Dir(absPath)
	if !isDirectlyInAllowedDir(parentDir, allowedDirs) {
		return errors.NewInvalidRequest(
			fmt.Sprintf("file must be directly in an allowed directory (no subdirectories); allowed: %v",
				allowedDirs))
	}
	if isSymlink(parentDir) {
		return errors.NewInvalidRequest("parent directory must not be a symlink")
	}
	return nil
}

// isSymlink reports whether path exists and is itself a symlink.
func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// getAllowedDirs returns the default exports dir plus every absolute
// cfg.AllowedPaths entry. Entries that are symlinks are resolved so the
// comparison is against the real directory.
func getAllowedDirs(cfg *config.Config) ([]string, error) {
	defaultDir, err := DefaultExportsDir()
	if err != nil {
		return nil, err
	}

	dirs := []string{defaultDir}
	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if filepath.IsAbs(p) {
				dirs = append(dirs, p)
			}
		}
	}

	result := make([]string, 0, len(dirs))
	for _, d := range dirs {
		abs, err := filepath.Abs(filepath.Clean(d))
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
		}
		if isSymlink(abs) {
			resolved, err := filepath.EvalSymlinks(abs)
			if err != nil {
				return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
			}
			abs = resolved
		}
		result = append(result, abs)
	}
	return result, nil
}

// isDirectlyInAllowedDir reports whether parentDir is one of allowedDirs.
// Being somewhere below an allowed dir is not enough.
func isDirectlyInAllowedDir(parentDir string, allowedDirs []string) bool {
	parentDir = filepath.Clean(parentDir)
	for _, dir := range allowedDirs {
		if parentDir == filepath.Clean(dir) {
			return true
		}
	}
	return false
}

// DefaultExportsDir returns ~/.twine/exports.
func DefaultExportsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	return filepath.Join(homeDir, ".twine", "exports"), nil
}

// HasExportExt reports whether path names a plain or zstd-compressed JSONL file.
func HasExportExt(path string) bool {
	return strings.HasSuffix(path, ExtJSONL) || strings.HasSuffix(path, ExtJSONLZstd)
}

// isCompressed reports whether path should be read or written through zstd.
func isCompressed(path string) bool {
	return strings.HasSuffix(path, ExtJSONLZstd)
}

// containsTraversal reports whether any component of path is "..".
// Forward slashes are split as well so Windows callers cannot sneak one past.
func containsTraversal(path string) bool {
	split := func(r rune) bool { return r == '/' || r == filepath.Separator }
	for _, part := range strings.FieldsFunc(path, split) {
		if part == ".." {
			return true
		}
	}
	return false
}
