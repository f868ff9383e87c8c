package git

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	platformerrors "github.com/jmgilman/go/gitwagon/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRemoteOps struct {
	cloneFn func(ctx context.Context, fs billy.Filesystem, opts CloneOptions) (*Repository, error)
	pushFn  func(ctx context.Context, repo *Repository, opts PushOptions) error
}

func (m *mockRemoteOps) Clone(ctx context.Context, fs billy.Filesystem, opts CloneOptions) (*Repository, error) {
	return m.cloneFn(ctx, fs, opts)
}

func (m *mockRemoteOps) Push(ctx context.Context, repo *Repository, opts PushOptions) error {
	return m.pushFn(ctx, repo, opts)
}

func TestInit(t *testing.T) {
	tests := []struct {
		name string
		opts []RepositoryOption
		bare bool
	}{
		{name: "standard repository"},
		{name: "bare repository", opts: []RepositoryOption{WithBare()}, bare: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memfs.New()
			repo, err := Init("/repo", append(tt.opts, WithFilesystem(fs))...)
			require.NoError(t, err)
			require.NotNil(t, repo.Underlying())
			assert.Equal(t, "/repo", repo.Path())

			_, err = fs.Stat("/repo/.git")
			if tt.bare {
				assert.Error(t, err)
				_, err = fs.Stat("/repo/HEAD")
				assert.NoError(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("existing repository", func(t *testing.T) {
		fs := memfs.New()
		_, err := Init("/repo", WithFilesystem(fs))
		require.NoError(t, err)

		repo, err := Open("/repo", WithFilesystem(fs))
		require.NoError(t, err)

		branch, err := repo.CurrentBranch()
		require.NoError(t, err)
		assert.Equal(t, "master", branch)
	})

	t.Run("missing repository", func(t *testing.T) {
		_, err := Open("/missing", WithFilesystem(memfs.New()))
		require.Error(t, err)
		assert.True(t, platformerrors.HasCode(err, platformerrors.CodeRepositoryNotFound))
	})

	t.Run("on disk", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "repo")
		_, err := Init(dir)
		require.NoError(t, err)

		repo, err := Open(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, repo.Path())
	})
}

func TestClone_RemoteOperations(t *testing.T) {
	var got CloneOptions
	ops := &mockRemoteOps{
		cloneFn: func(_ context.Context, fs billy.Filesystem, opts CloneOptions) (*Repository, error) {
			got = opts
			repo, err := Init("/", WithFilesystem(fs))
			if err != nil {
				return nil, err
			}
			return repo, nil
		},
	}

	auth := BasicAuth("user", "token")
	repo, err := Clone(context.Background(), "https://example.com/org/repo.git", "/work",
		WithFilesystem(memfs.New()),
		WithRemoteOperations(ops),
		WithAuth(auth),
		WithBranch("gh-pages"),
	)
	require.NoError(t, err)
	assert.Equal(t, "/work", repo.Path())
	assert.Equal(t, "https://example.com/org/repo.git", got.URL)
	assert.Equal(t, "refs/heads/gh-pages", got.ReferenceName.String())
	assert.Equal(t, auth, got.Auth)
}

func TestClone_RemoteOperationsError(t *testing.T) {
	boom := errors.New("boom")
	ops := &mockRemoteOps{
		cloneFn: func(context.Context, billy.Filesystem, CloneOptions) (*Repository, error) {
			return nil, boom
		},
	}

	_, err := Clone(context.Background(), "https://example.com/repo.git", "/work",
		WithFilesystem(memfs.New()), WithRemoteOperations(ops))
	require.ErrorIs(t, err, boom)
}

func TestClone_LocalRemote(t *testing.T) {
	ctx := context.Background()
	remote := newTestRemote(t, map[string]string{"index.html": "hello"})

	t.Run("default branch", func(t *testing.T) {
		repo, err := Clone(ctx, remote, filepath.Join(t.TempDir(), "clone"))
		require.NoError(t, err)

		branch, err := repo.CurrentBranch()
		require.NoError(t, err)
		assert.Equal(t, "main", branch)

		_, err = repo.Filesystem().Stat("index.html")
		assert.NoError(t, err)
	})

	t.Run("named branch", func(t *testing.T) {
		repo, err := Clone(ctx, remote, filepath.Join(t.TempDir(), "clone"), WithBranch("main"))
		require.NoError(t, err)

		url, err := repo.RemoteURL(DefaultRemote)
		require.NoError(t, err)
		assert.Equal(t, remote, url)
	})

	t.Run("missing branch", func(t *testing.T) {
		_, err := Clone(ctx, remote, filepath.Join(t.TempDir(), "clone"), WithBranch("gh-pages"))
		require.Error(t, err)
		assert.True(t, platformerrors.HasCode(err, platformerrors.CodeNotFound))
	})

	t.Run("missing repository", func(t *testing.T) {
		_, err := Clone(ctx, "file://"+filepath.Join(t.TempDir(), "nope.git"), filepath.Join(t.TempDir(), "clone"))
		require.Error(t, err)
	})
}

// newTestRemote seeds a bare repository on disk with one commit on main and
// returns its file URL.
func newTestRemote(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()

	bare, err := Init(filepath.Join(root, "remote.git"), WithBare())
	require.NoError(t, err)
	require.NoError(t, bare.RelinkHead("main"))
	url := "file://" + bare.Path()

	seed, err := Init(filepath.Join(root, "seed"))
	require.NoError(t, err)
	require.NoError(t, seed.RelinkHead("main"))
	for name, content := range files {
		f, err := seed.Filesystem().Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}
	require.NoError(t, seed.StageAll())
	_, err = seed.CreateCommit(CommitOptions{Author: "Seed", Email: "seed@example.com", Message: "seed"})
	require.NoError(t, err)
	require.NoError(t, seed.AddRemote(RemoteOptions{Name: DefaultRemote, URL: url}))
	require.NoError(t, seed.PushBranch(context.Background(), "main", PushOptions{}))

	return url
}
