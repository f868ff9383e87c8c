package wagon

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	platformerrors "github.com/jmgilman/go/gitwagon/errors"
	"github.com/jmgilman/go/gitwagon/registry"
	"github.com/otiai10/copy"
)

// target is a resource mapped onto the filesystem of its working copy.
type target struct {
	wc   *registry.WorkingCopy
	fs   billy.Filesystem
	name string // slash separated, relative to the working copy root
	path string
}

func (s *Session) resolve(ctx context.Context, resource string) (*target, error) {
	res, err := s.registry.Resolve(ctx, resource)
	if err != nil {
		//nolint:wrapcheck // Registry returns platform errors
		return nil, err
	}

	rel, err := filepath.Rel(res.WorkingCopy.Root(), res.Path)
	if err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeInternal, "failed to relativize path")
	}

	return &target{
		wc:   res.WorkingCopy,
		fs:   s.filesystem(res.WorkingCopy),
		name: filepath.ToSlash(rel),
		path: res.Path,
	}, nil
}

func (s *Session) filesystem(wc *registry.WorkingCopy) billy.Filesystem {
	if fsys, ok := s.fs[wc]; ok {
		return fsys
	}
	fsys := osfs.New(wc.Root(), osfs.WithBoundOS())
	s.fs[wc] = fsys
	return fsys
}

// Get opens resource for reading and returns its size.
//
// A missing resource fails with CodeNotFound, and so does a resource in a
// repository that does not exist.
func (s *Session) Get(ctx context.Context, resource string) (io.ReadCloser, int64, error) {
	t, err := s.resolve(ctx, resource)
	if err != nil {
		return nil, 0, notFound(err, resource)
	}

	info, err := t.fs.Stat(t.name)
	if err != nil {
		return nil, 0, notFound(err, resource)
	}
	if info.IsDir() {
		return nil, 0, platformerrors.Newf(platformerrors.CodeInvalidInput, "%q is a directory", resource)
	}

	f, err := t.fs.Open(t.name)
	if err != nil {
		return nil, 0, notFound(err, resource)
	}

	s.logger.Debug(ctx, "reading resource", "resource", resource, "size", info.Size())
	return f, info.Size(), nil
}

// Put opens resource for writing, creating parent directories and replacing
// existing content. The working copy is marked dirty, so Close publishes the
// change.
func (s *Session) Put(ctx context.Context, resource string) (io.WriteCloser, error) {
	if strings.HasSuffix(resource, "/") {
		return nil, platformerrors.Newf(platformerrors.CodeInvalidInput, "%q names a directory", resource)
	}

	t, err := s.resolve(ctx, resource)
	if err != nil {
		return nil, err
	}
	if err := checkWritable(t.name, resource); err != nil {
		return nil, err
	}

	if err := t.fs.MkdirAll(path.Dir(t.name), 0o750); err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeInternal, "failed to create parent of %q", resource)
	}
	f, err := t.fs.Create(t.name)
	if err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeInternal, "failed to create %q", resource)
	}

	s.registry.MarkDirty(t.wc)
	s.logger.Debug(ctx, "writing resource", "resource", resource, "repository", t.wc.URL)
	return f, nil
}

// PutDirectory copies the tree at srcDir into the directory dest. Symbolic
// links in srcDir are skipped, and a tree holding .git entries is refused.
func (s *Session) PutDirectory(ctx context.Context, srcDir, dest string) error {
	if err := checkSourceTree(srcDir); err != nil {
		return err
	}

	t, err := s.resolve(ctx, dest)
	if err != nil {
		return err
	}
	if err := checkWritable(t.name, dest); err != nil {
		return err
	}

	var skipped []string
	opts := copy.Options{
		OnSymlink: func(src string) copy.SymlinkAction {
			skipped = append(skipped, src)
			return copy.Skip
		},
	}
	if err := copy.Copy(srcDir, t.path, opts); err != nil {
		return platformerrors.WrapWithContext(err, platformerrors.CodeInternal, "failed to copy directory", map[string]any{
			"source":      srcDir,
			"destination": dest,
		})
	}
	for _, src := range skipped {
		s.logger.Warn(ctx, "skipped symbolic link", "path", src)
	}

	s.registry.MarkDirty(t.wc)
	s.logger.Debug(ctx, "copied directory", "source", srcDir, "destination", dest, "repository", t.wc.URL)
	return nil
}

// ResourceExists reports whether resource exists. A name ending in "/" only
// matches a directory. A repository that does not exist holds no resources.
func (s *Session) ResourceExists(ctx context.Context, resource string) (bool, error) {
	t, err := s.resolve(ctx, resource)
	if platformerrors.IsRecoverable(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	info, err := t.fs.Stat(t.name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, platformerrors.Wrapf(err, platformerrors.CodeInternal, "failed to stat %q", resource)
	}

	if strings.HasSuffix(resource, "/") {
		return info.IsDir(), nil
	}
	return true, nil
}

// ListChildren returns the entries of the directory at localPath, a path
// obtained from ResolveToLocalPath. Names are sorted, directories end in "/"
// and the .git directory is never listed.
func (s *Session) ListChildren(localPath string) ([]string, error) {
	wc, ok := s.registry.Lookup(localPath)
	if !ok {
		return nil, platformerrors.Newf(platformerrors.CodePathEscape, "%s is not inside a working copy", localPath)
	}

	canonical, err := filepath.EvalSymlinks(localPath)
	if err != nil {
		return nil, notFound(err, localPath)
	}
	rel, err := filepath.Rel(wc.Root(), canonical)
	if err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeInternal, "failed to relativize path")
	}

	entries, err := s.filesystem(wc).ReadDir(filepath.ToSlash(rel))
	if err != nil {
		return nil, notFound(err, localPath)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if name == gogit.GitDirName {
			continue
		}
		if entry.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// notFound reports missing files and repositories as CodeNotFound and passes
// everything else through.
func notFound(err error, resource string) error {
	if errors.Is(err, fs.ErrNotExist) || platformerrors.IsRecoverable(err) {
		return platformerrors.WrapWithContext(err, platformerrors.CodeNotFound, "resource does not exist", map[string]any{
			"resource": resource,
		})
	}
	var pe platformerrors.PlatformError
	if errors.As(err, &pe) {
		return err
	}
	return platformerrors.Wrapf(err, platformerrors.CodeInternal, "failed to access %q", resource)
}

// checkWritable rejects writes into the repository metadata.
func checkWritable(name, resource string) error {
	first, _, _ := strings.Cut(name, "/")
	if first == gogit.GitDirName {
		return platformerrors.Newf(platformerrors.CodePathEscape, "%q points into the repository metadata", resource)
	}
	return nil
}

func checkSourceTree(srcDir string) error {
	info, err := os.Stat(srcDir)
	if err != nil {
		return platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "cannot read source directory %s", srcDir)
	}
	if !info.IsDir() {
		return platformerrors.Newf(platformerrors.CodeInvalidInput, "%s is not a directory", srcDir)
	}

	err = filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Name() == gogit.GitDirName && p != srcDir {
			return platformerrors.Newf(platformerrors.CodeInvalidInput, "source directory contains %s", p)
		}
		return nil
	})
	if err != nil {
		var pe platformerrors.PlatformError
		if errors.As(err, &pe) {
			return err
		}
		return platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "cannot read source directory %s", srcDir)
	}
	return nil
}
