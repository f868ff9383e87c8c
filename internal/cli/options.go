package cli

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	platformerrors "github.com/jmgilman/go/gitwagon/errors"
	"github.com/jmgilman/go/gitwagon/exec"
	"github.com/jmgilman/go/gitwagon/git"
	"github.com/jmgilman/go/gitwagon/internal/logging"
	"github.com/jmgilman/go/gitwagon/registry"
	"github.com/jmgilman/go/gitwagon/wagon"
)

const envPrefix = "GITWAGON_"

// Transport names accepted by --transport.
const (
	transportGoGit = "go-git"
	transportCLI   = "cli"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	credentials git.Credentials
	transport   string
	workDir     string
	message     string
	logLevel    string
	logFile     string
	json        bool

	logger *logging.Logger
}

func (o *globalOptions) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.credentials.Username, "username", env("USERNAME", ""), "user name for basic auth or SSH")
	flags.StringVar(&o.credentials.Password, "password", env("PASSWORD", ""), "password for basic auth")
	flags.StringVar(&o.credentials.PrivateKeyFile, "key", env("KEY", ""), "SSH private key file (default: SSH agent)")
	flags.StringVar(&o.credentials.Passphrase, "passphrase", env("PASSPHRASE", ""), "passphrase of the SSH private key")
	flags.BoolVar(&o.credentials.InsecureIgnoreHostKey, "insecure-host-key", envBool("INSECURE_HOST_KEY"), "accept any SSH host key")
	flags.StringVar(&o.transport, "transport", env("TRANSPORT", transportGoGit), "git transport: go-git or cli")
	flags.StringVar(&o.workDir, "work-dir", env("WORK_DIR", ""), "directory working copies are cloned into (default: system temp dir)")
	flags.StringVarP(&o.message, "message", "m", env("MESSAGE", registry.DefaultCommitMessage), "commit message for published changes")
	flags.StringVar(&o.logLevel, "log-level", env("LOG_LEVEL", "warn"), "log level: debug, info, warn or error")
	flags.StringVar(&o.logFile, "log-file", env("LOG_FILE", ""), "also write logs to this file, rotated by size")
	flags.BoolVar(&o.json, "json", envBool("JSON"), "print errors as JSON")
}

func (o *globalOptions) init(cmd *cobra.Command) error {
	level, err := logging.ParseLogLevel(o.logLevel)
	if err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "invalid --log-level")
	}

	switch o.transport {
	case transportGoGit, transportCLI:
	default:
		return platformerrors.Newf(platformerrors.CodeInvalidConfig, "unknown transport %q, want %s or %s",
			o.transport, transportGoGit, transportCLI)
	}

	cfg := logging.DefaultLogConfig()
	cfg.Level = level
	cfg.Output = cmd.ErrOrStderr()
	cfg.File = o.logFile
	o.logger = logging.NewLogger(cfg)
	return nil
}

func (o *globalOptions) close() error {
	if o.logger == nil {
		return nil
	}
	//nolint:wrapcheck // Closing the log file is best effort
	return o.logger.Close()
}

// open starts a session on locatorString with the configured connection.
func (o *globalOptions) open(ctx context.Context, locatorString string) (*wagon.Session, error) {
	opts := []wagon.Option{
		wagon.WithLogger(o.logger),
		wagon.WithTransport(o.newTransport()),
		wagon.WithRegistryOptions(registry.WithCommitMessage(o.message)),
	}
	if o.transport == transportCLI {
		// git picks its credentials itself; see newTransport.
		opts = append(opts, wagon.WithRegistryOptions(registry.WithAuth(nil)))
	} else {
		opts = append(opts, wagon.WithCredentials(o.credentials))
	}
	if o.workDir != "" {
		opts = append(opts, wagon.WithWorkDir(o.workDir))
	}

	//nolint:wrapcheck // wagon returns platform errors
	return wagon.Open(ctx, locatorString, opts...)
}

func (o *globalOptions) newTransport() registry.Transport {
	if o.transport != transportCLI {
		return registry.NewGoGitTransport()
	}

	var ssh []string
	if o.credentials.PrivateKeyFile != "" {
		ssh = append(ssh, "-i", strconv.Quote(o.credentials.PrivateKeyFile), "-o", "IdentitiesOnly=yes")
	}
	if o.credentials.InsecureIgnoreHostKey {
		ssh = append(ssh, "-o", "StrictHostKeyChecking=no", "-o", "UserKnownHostsFile=/dev/null")
	}
	if len(ssh) == 0 {
		return registry.NewCLITransport()
	}
	return registry.NewCLITransport(exec.WithEnv(map[string]string{
		"GIT_SSH_COMMAND": "ssh " + strings.Join(ssh, " "),
	}))
}

// finish closes the session and reports the first error of the command or the
// publish step.
func finish(ctx context.Context, session *wagon.Session, err error) error {
	closeErr := session.Close(ctx)
	if err != nil {
		return err
	}
	if closeErr != nil {
		return platformerrors.Wrap(closeErr, platformerrors.CodePublishFailed, "failed to publish changes")
	}
	return nil
}

func env(name, fallback string) string {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		return v
	}
	return fallback
}

func envBool(name string) bool {
	v, err := strconv.ParseBool(env(name, "false"))
	return err == nil && v
}
