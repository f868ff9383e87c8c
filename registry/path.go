package registry

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	platformerrors "github.com/jmgilman/go/gitwagon/errors"
)

// canonicalize returns the absolute, symlink-free form of path. Symlinks are
// resolved on the longest prefix that exists; the rest is appended as is.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	existing := abs
	var missing []string
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		missing = append([]string{filepath.Base(existing)}, missing...)
		existing = parent
	}
}

// within reports whether path is root or lies below it. Both must be clean.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// localPath maps resource onto the working copy and rejects anything that
// canonicalizes to a location outside of it.
func (wc *WorkingCopy) localPath(resource string) (string, error) {
	joined := filepath.Join(wc.root, filepath.FromSlash(resource))

	path, err := canonicalize(joined)
	if err != nil {
		return "", platformerrors.WrapWithContext(err, platformerrors.CodeInternal, "failed to canonicalize path", map[string]any{
			"path": joined,
		})
	}

	if !within(wc.root, path) {
		err := platformerrors.Newf(platformerrors.CodePathEscape, "%q resolves to %s, outside of %s", resource, path, wc.root)
		return "", platformerrors.WithContext(err, "repository", wc.URL)
	}

	return path, nil
}
