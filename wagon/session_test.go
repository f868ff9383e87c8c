package wagon

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	platformerrors "github.com/jmgilman/go/gitwagon/errors"
	"github.com/jmgilman/go/gitwagon/git/testutil"
	"github.com/jmgilman/go/gitwagon/pages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type staticLookup map[string]string

func (l staticLookup) LookupCNAME(_ context.Context, host string) (string, error) {
	return l[host], nil
}

func offlineResolver() *pages.Resolver {
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})}
	return pages.NewResolver(
		pages.WithHTTPClient(client),
		pages.WithLookup(staticLookup{"docs.example.com": "trajano.github.io."}),
	)
}

// newSiteRemote returns a remote with a gh-pages branch holding a small site.
func newSiteRemote(t *testing.T) *testutil.Remote {
	t.Helper()

	remote, err := testutil.NewRemote(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, remote.Seed(context.Background(), "gh-pages", map[string]string{
		"index.html":     testutil.TestIndexContent,
		"css/site.css":   "body {}",
		"docs/guide.md":  "# Guide",
		"docs/pom.xml":   testutil.TestPomContent,
		"docs/api/a.txt": "a",
	}))
	return remote
}

func openSession(t *testing.T, locatorString string) *Session {
	t.Helper()

	s, err := Open(context.Background(), locatorString, WithWorkDir(t.TempDir()))
	require.NoError(t, err)
	return s
}

func TestOpen_Schemes(t *testing.T) {
	ctx := context.Background()

	t.Run("git", func(t *testing.T) {
		s, err := Open(ctx, "git:ssh://git@github.com/trajano/site.git?gh-pages#/docs/")
		require.NoError(t, err)
		assert.Equal(t, "ssh://git@github.com/trajano/site.git", s.Locator().RepositoryURL)
		assert.Equal(t, "gh-pages", s.Locator().Branch)
		assert.Equal(t, "/docs/", s.Locator().Resource)
		assert.Empty(t, s.Registry().WorkingCopies(), "opening does not clone")
	})

	t.Run("pages", func(t *testing.T) {
		s, err := Open(ctx, "github:https://trajano.github.io/project/", WithPagesResolver(offlineResolver()))
		require.NoError(t, err)
		assert.Equal(t, "ssh://git@github.com/trajano/project.git", s.Locator().RepositoryURL)
		assert.Equal(t, "gh-pages", s.Locator().Branch)
	})

	t.Run("pages custom domain", func(t *testing.T) {
		s, err := Open(ctx, "githubpages:https://docs.example.com/", WithPagesResolver(offlineResolver()))
		require.NoError(t, err)
		assert.Equal(t, "ssh://git@github.com/trajano/trajano.github.io.git", s.Locator().RepositoryURL)
		assert.Equal(t, "master", s.Locator().Branch)
	})

	t.Run("pages unknown domain", func(t *testing.T) {
		_, err := Open(ctx, "github:https://unknown.example.org/", WithPagesResolver(offlineResolver()))
		require.Error(t, err)
		assert.Equal(t, platformerrors.CodeHostResolution, platformerrors.GetCode(err))
	})

	for _, bad := range []string{"https://github.com/trajano/site", "scm:git:https://x", "git:relative/path?master", "no-scheme"} {
		t.Run(bad, func(t *testing.T) {
			_, err := Open(ctx, bad)
			require.Error(t, err)
			assert.Equal(t, platformerrors.CodeInvalidLocator, platformerrors.GetCode(err))
		})
	}
}

func TestSession_GetAndExists(t *testing.T) {
	remote := newSiteRemote(t)
	s := openSession(t, "git:"+remote.URL()+"?gh-pages#/")
	ctx := context.Background()

	r, size, err := s.Get(ctx, "docs/guide.md")
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "# Guide", string(content))
	assert.Equal(t, int64(len("# Guide")), size)

	_, _, err = s.Get(ctx, "missing.html")
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))

	_, _, err = s.Get(ctx, "docs")
	assert.Equal(t, platformerrors.CodeInvalidInput, platformerrors.GetCode(err))

	tests := []struct {
		resource string
		want     bool
	}{
		{"index.html", true},
		{"docs", true},
		{"docs/", true},
		{"index.html/", false},
		{"missing.html", false},
		{"missing/", false},
	}
	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			exists, err := s.ResourceExists(ctx, tt.resource)
			require.NoError(t, err)
			assert.Equal(t, tt.want, exists)
		})
	}

	require.NoError(t, s.Close(ctx))
	count, err := remote.CommitCount("gh-pages")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "reading does not publish anything")
}

func TestSession_MissingRepository(t *testing.T) {
	missing := "file://" + filepath.Join(t.TempDir(), "missing.git")
	s := openSession(t, "git:"+missing+"?gh-pages#/")
	ctx := context.Background()

	_, _, err := s.Get(ctx, "index.html")
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
	assert.True(t, platformerrors.HasCode(err, platformerrors.CodeRepositoryNotFound))

	exists, err := s.ResourceExists(ctx, "index.html")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.ResolveToLocalPath(ctx, "index.html")
	assert.True(t, platformerrors.HasCode(err, platformerrors.CodeRepositoryNotFound))
}

func TestSession_PutPublishesOnClose(t *testing.T) {
	remote := newSiteRemote(t)
	s := openSession(t, "git:"+remote.URL()+"?gh-pages#/")
	ctx := context.Background()

	w, err := s.Put(ctx, "releases/1.0/notes.html")
	require.NoError(t, err)
	_, err = io.WriteString(w, "<p>1.0</p>")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	w, err = s.Put(ctx, "index.html")
	require.NoError(t, err)
	_, err = io.WriteString(w, "new index")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	wcs := s.Registry().WorkingCopies()
	require.Len(t, wcs, 1)
	assert.True(t, wcs[0].Dirty)

	require.NoError(t, s.Close(ctx))

	notes, err := remote.ReadFile("gh-pages", "releases/1.0/notes.html")
	require.NoError(t, err)
	assert.Equal(t, "<p>1.0</p>", notes)
	index, err := remote.ReadFile("gh-pages", "index.html")
	require.NoError(t, err)
	assert.Equal(t, "new index", index)

	count, err := remote.CommitCount("gh-pages")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoDirExists(t, wcs[0].Dir)

	require.NoError(t, s.Close(ctx), "closing twice is harmless")
}

func TestSession_PutRejected(t *testing.T) {
	remote := newSiteRemote(t)
	s := openSession(t, "git:"+remote.URL()+"?gh-pages#/")
	ctx := context.Background()

	tests := []struct {
		resource string
		code     platformerrors.ErrorCode
	}{
		{"../../outside.txt", platformerrors.CodePathEscape},
		{".git/config", platformerrors.CodePathEscape},
		{"docs/", platformerrors.CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			_, err := s.Put(ctx, tt.resource)
			require.Error(t, err)
			assert.Equal(t, tt.code, platformerrors.GetCode(err))
		})
	}
}

func TestSession_PutDirectory(t *testing.T) {
	remote := newSiteRemote(t)
	s := openSession(t, "git:"+remote.URL()+"?gh-pages#/")
	ctx := context.Background()

	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "apidocs", "pkg"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(src, "apidocs", "index.html"), []byte("api"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "apidocs", "pkg", "a.html"), []byte("a"), 0o600))
	require.NoError(t, os.Symlink("/etc/passwd", filepath.Join(src, "apidocs", "passwd")))

	require.NoError(t, s.PutDirectory(ctx, src, "docs/"))

	exists, err := s.ResourceExists(ctx, "docs/apidocs/pkg/")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = s.ResourceExists(ctx, "docs/apidocs/passwd")
	require.NoError(t, err)
	assert.False(t, exists, "symbolic links are not copied")

	require.NoError(t, s.Close(ctx))

	content, err := remote.ReadFile("gh-pages", "docs/apidocs/pkg/a.html")
	require.NoError(t, err)
	assert.Equal(t, "a", content)
	guide, err := remote.ReadFile("gh-pages", "docs/guide.md")
	require.NoError(t, err)
	assert.Equal(t, "# Guide", guide, "existing files are kept")
}

func TestSession_PutDirectoryRejectsGitMetadata(t *testing.T) {
	remote := newSiteRemote(t)
	s := openSession(t, "git:"+remote.URL()+"?gh-pages#/")

	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested", ".git"), 0o750))

	err := s.PutDirectory(context.Background(), src, "/")
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeInvalidInput, platformerrors.GetCode(err))

	err = s.PutDirectory(context.Background(), filepath.Join(src, "missing"), "/")
	assert.Equal(t, platformerrors.CodeInvalidInput, platformerrors.GetCode(err))
}

func TestSession_ListChildren(t *testing.T) {
	remote := newSiteRemote(t)
	s := openSession(t, "git:"+remote.URL()+"?gh-pages#/")
	ctx := context.Background()

	root, err := s.ResolveToLocalPath(ctx, "/")
	require.NoError(t, err)
	children, err := s.ListChildren(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"css/", "docs/", "index.html"}, children)

	docs, err := s.ResolveToLocalPath(ctx, "docs")
	require.NoError(t, err)
	children, err = s.ListChildren(docs)
	require.NoError(t, err)
	assert.Equal(t, []string{"api/", "guide.md", "pom.xml"}, children)

	_, err = s.ListChildren(t.TempDir())
	assert.Equal(t, platformerrors.CodePathEscape, platformerrors.GetCode(err))

	_, err = s.ListChildren(filepath.Join(root, "missing"))
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
}
