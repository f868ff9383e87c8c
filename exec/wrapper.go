package exec

import "context"

// CommandWrapper prepends a fixed program name to every request, which keeps call
// sites for tools like git short.
type CommandWrapper struct {
	executor Executor
	cmd      string
}

// NewWrapper creates a CommandWrapper around executor for program cmd.
func NewWrapper(executor Executor, cmd string) *CommandWrapper {
	return &CommandWrapper{
		executor: executor,
		cmd:      cmd,
	}
}

// Run executes the wrapped program with req.Args as its arguments.
func (w *CommandWrapper) Run(ctx context.Context, req Request) (*Result, error) {
	req.Args = append([]string{w.cmd}, req.Args...)
	return w.executor.Run(ctx, req)
}
