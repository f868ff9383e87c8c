package exec

import (
	"context"
	"maps"
)

// Executor runs a single command described by a Request.
type Executor interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// Request describes one command invocation. It is passed by value and never
// mutated by the executor.
type Request struct {
	// Args holds the program followed by its arguments.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env holds variables added on top of the executor's environment.
	Env map[string]string
}

// Result represents the result of a command execution.
type Result struct {
	Stdout   string
	Stderr   string
	Combined string
	ExitCode int
}

// Option configures a Command at creation time.
type Option func(*Command)

// WithEnv sets environment variables applied to every invocation.
func WithEnv(env map[string]string) Option {
	return func(c *Command) {
		maps.Copy(c.env, env)
	}
}

// WithInheritEnv makes invocations inherit the parent process environment.
func WithInheritEnv() Option {
	return func(c *Command) {
		c.inheritEnv = true
	}
}
