// Package testutil provides repository fixtures for tests: in-memory working
// copies backed by memfs and on-disk bare remotes that go-git can clone from and
// push to over the file transport.
package testutil

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/go/gitwagon/git"
)

// NewMemoryRepo creates an in-memory repository and returns it with the
// filesystem holding its working tree.
//
// Example:
//
//	repo, fs, err := testutil.NewMemoryRepo()
//	if err != nil {
//	    t.Fatal(err)
//	}
func NewMemoryRepo() (*git.Repository, billy.Filesystem, error) {
	fs := memfs.New()

	repo, err := git.Init("/", git.WithFilesystem(fs))
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from git package are already wrapped
		return nil, nil, err
	}

	return repo, repo.Filesystem(), nil
}

// CreateTestFile writes content to path, creating parent directories.
func CreateTestFile(fs billy.Filesystem, path, content string) error {
	//nolint:wrapcheck // Test utility - simple file operation error
	return util.WriteFile(fs, path, []byte(content), 0o644)
}

// CreateTestCommitWithFiles writes files into the working tree, stages
// everything and commits it with the test author.
func CreateTestCommitWithFiles(repo *git.Repository, files map[string]string, message string) (string, error) {
	for path, content := range files {
		if err := CreateTestFile(repo.Filesystem(), path, content); err != nil {
			return "", err
		}
	}

	if err := repo.StageAll(); err != nil {
		//nolint:wrapcheck // Test utility - errors from git package are already wrapped
		return "", err
	}

	//nolint:wrapcheck // Test utility - errors from git package are already wrapped
	return repo.CreateCommit(git.CommitOptions{
		Author:     TestAuthor,
		Email:      TestEmail,
		Message:    message,
		AllowEmpty: len(files) == 0,
	})
}
