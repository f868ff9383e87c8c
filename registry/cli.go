package registry

import (
	"context"
	"errors"
	"strings"

	platformerrors "github.com/jmgilman/go/gitwagon/errors"
	"github.com/jmgilman/go/gitwagon/exec"
)

// CLITransport implements Transport by running the git binary. Authentication
// is left to git itself (credential helpers, ssh-agent, GIT_SSH_COMMAND); the
// Auth fields of requests are ignored.
type CLITransport struct {
	git *exec.CommandWrapper
}

// NewCLITransport creates a transport running git from PATH. The options
// configure the underlying executor, for example to set GIT_SSH_COMMAND.
//
// Example:
//
//	t := registry.NewCLITransport(exec.WithEnv(map[string]string{
//	    "GIT_SSH_COMMAND": "ssh -i ~/.ssh/deploy_key",
//	}))
func NewCLITransport(opts ...exec.Option) *CLITransport {
	base := []exec.Option{
		exec.WithInheritEnv(),
		exec.WithEnv(map[string]string{"GIT_TERMINAL_PROMPT": "0"}),
	}
	return NewCLITransportWithExecutor(exec.New(append(base, opts...)...))
}

// NewCLITransportWithExecutor creates a transport running git through executor.
func NewCLITransportWithExecutor(executor exec.Executor) *CLITransport {
	return &CLITransport{git: exec.NewWrapper(executor, "git")}
}

// Clone implements Transport.Clone.
func (t *CLITransport) Clone(ctx context.Context, req CloneRequest) (string, error) {
	args := []string{"clone"}
	if req.Branch != "" {
		args = append(args, "--branch", req.Branch)
	}
	args = append(args, "--", req.URL, req.Dir)

	_, err := t.run(ctx, "", args...)
	if err != nil && req.Branch != "" && stderrContains(err, "remote branch", "not found") {
		if err := resetDir(req.Dir); err != nil {
			return "", err
		}
		_, err = t.run(ctx, "", "clone", "--", req.URL, req.Dir)
	}
	if err != nil {
		return "", classifyCLIError(err, "failed to clone repository")
	}

	res, err := t.run(ctx, req.Dir, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", platformerrors.Wrap(err, platformerrors.CodeConflict, "failed to read HEAD")
	}
	return strings.TrimSpace(res.Stdout), nil
}

// ForceCheckout implements Transport.ForceCheckout.
func (t *CLITransport) ForceCheckout(ctx context.Context, dir, branch string) error {
	if _, err := t.run(ctx, dir, "symbolic-ref", "HEAD", "refs/heads/"+branch); err != nil {
		return platformerrors.Wrapf(err, platformerrors.CodeExecutionFailed, "failed to relink HEAD to %q", branch)
	}
	return nil
}

// StageCommitPush implements Transport.StageCommitPush.
func (t *CLITransport) StageCommitPush(ctx context.Context, req PushRequest) error {
	if _, err := t.run(ctx, req.Dir, "add", "--all"); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeExecutionFailed, "failed to stage changes")
	}

	status, err := t.run(ctx, req.Dir, "status", "--porcelain")
	if err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeExecutionFailed, "failed to read status")
	}
	if strings.TrimSpace(status.Stdout) == "" {
		return nil
	}

	if _, err := t.run(ctx, req.Dir,
		"-c", "user.name="+req.Author.Name,
		"-c", "user.email="+req.Author.Email,
		"commit", "--quiet", "--message", req.Message,
	); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeExecutionFailed, "failed to create commit")
	}

	ref := "refs/heads/" + req.Branch
	if _, err := t.run(ctx, req.Dir, "push", "--porcelain", req.URL, ref+":"+ref); err != nil {
		return classifyCLIError(err, "failed to push to remote")
	}
	return nil
}

func (t *CLITransport) run(ctx context.Context, dir string, args ...string) (*exec.Result, error) {
	//nolint:wrapcheck // Callers classify the exec error
	return t.git.Run(ctx, exec.Request{Args: args, Dir: dir})
}

// classifyCLIError maps git's diagnostics to error codes.
func classifyCLIError(err error, message string) error {
	code := platformerrors.CodeTransport
	switch {
	case stderrContains(err, "repository", "not found"),
		stderrContains(err, "repository", "does not exist"),
		stderrContains(err, "does not appear to be a git repository"):
		code = platformerrors.CodeRepositoryNotFound
	case stderrContains(err, "[rejected]"),
		stderrContains(err, "non-fast-forward"):
		code = platformerrors.CodePushConflict
	case stderrContains(err, "authentication failed"),
		stderrContains(err, "could not read username"):
		code = platformerrors.CodeUnauthorized
	case stderrContains(err, "permission denied"):
		code = platformerrors.CodeForbidden
	}
	return platformerrors.Wrap(err, code, message)
}

// stderrContains reports whether the output of a failed git command contains
// every fragment, ignoring case.
func stderrContains(err error, fragments ...string) bool {
	var execErr *exec.ExecError
	if !errors.As(err, &execErr) {
		return false
	}
	output := strings.ToLower(execErr.Stderr + "\n" + execErr.Stdout)
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			return false
		}
	}
	return true
}
