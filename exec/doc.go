// Package exec runs external commands with captured output.
//
// It backs the git CLI transport: each invocation is described by an immutable
// Request (working directory, extra environment, arguments) and produces a Result
// holding stdout, stderr, the interleaved output and the exit code. A non-zero exit
// is reported as an *ExecError that still carries the captured output.
//
//	git := exec.NewWrapper(exec.New(exec.WithInheritEnv()), "git")
//	res, err := git.Run(ctx, exec.Request{Dir: dir, Args: []string{"status", "--porcelain"}})
package exec
