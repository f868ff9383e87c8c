package exec

import (
	"context"
	"io"
	"maps"
	"os"
	osexec "os/exec"
)

// Command is the os/exec backed Executor.
type Command struct {
	env        map[string]string
	inheritEnv bool
}

// New creates a Command with the given options.
func New(opts ...Option) *Command {
	cmd := &Command{
		env: make(map[string]string),
	}
	for _, opt := range opts {
		opt(cmd)
	}
	return cmd
}

// Run executes req.Args[0] with the remaining arguments.
func (c *Command) Run(ctx context.Context, req Request) (*Result, error) {
	if len(req.Args) == 0 {
		return nil, &ExecError{
			Command:  req.Args,
			ExitCode: -1,
			Err:      osexec.ErrNotFound,
		}
	}

	cmd := osexec.CommandContext(ctx, req.Args[0], req.Args[1:]...)
	cmd.Dir = req.Dir

	if c.inheritEnv {
		cmd.Env = os.Environ()
	}
	env := maps.Clone(c.env)
	maps.Copy(env, req.Env)
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr, combined lockedBuffer
	cmd.Stdout = io.MultiWriter(&stdout, &combined)
	cmd.Stderr = io.MultiWriter(&stderr, &combined)

	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Combined: combined.String(),
		ExitCode: -1,
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		return result, &ExecError{
			Command:  req.Args,
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
			Err:      err,
		}
	}

	return result, nil
}
