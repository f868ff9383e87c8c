package git

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	gossh "golang.org/x/crypto/ssh"
)

// DefaultSSHUser is the account git hosting services expect over SSH.
const DefaultSSHUser = "git"

// SSHKeyOption configures SSH key authentication.
type SSHKeyOption func(*sshKeyOptions)

type sshKeyOptions struct {
	password         string
	insecureHostKeys bool
}

// WithSSHPassword sets the passphrase for encrypted SSH keys.
func WithSSHPassword(password string) SSHKeyOption {
	return func(opts *sshKeyOptions) {
		opts.password = password
	}
}

// WithInsecureHostKeys accepts any host key instead of checking known_hosts.
func WithInsecureHostKeys() SSHKeyOption {
	return func(opts *sshKeyOptions) {
		opts.insecureHostKeys = true
	}
}

// SSHKeyAuth creates SSH authentication from PEM-encoded key bytes.
//
// Example:
//
//	auth, err := git.SSHKeyAuth("git", keyBytes, git.WithSSHPassword("passphrase"))
func SSHKeyAuth(user string, pemBytes []byte, opts ...SSHKeyOption) (Auth, error) {
	options := applySSHKeyOptions(opts)

	publicKeys, err := ssh.NewPublicKeys(user, pemBytes, options.password)
	if err != nil {
		return nil, wrapError(err, "failed to parse SSH key")
	}
	if options.insecureHostKeys {
		publicKeys.HostKeyCallback = gossh.InsecureIgnoreHostKey() //nolint:gosec // opt-in
	}

	return publicKeys, nil
}

// SSHKeyFile reads a private key from keyPath and delegates to SSHKeyAuth.
func SSHKeyFile(user string, keyPath string, opts ...SSHKeyOption) (Auth, error) {
	pemBytes, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH key file %q: %w", keyPath, err)
	}

	return SSHKeyAuth(user, pemBytes, opts...)
}

// SSHAgent authenticates through the running ssh-agent.
func SSHAgent(user string, opts ...SSHKeyOption) (Auth, error) {
	options := applySSHKeyOptions(opts)

	auth, err := ssh.NewSSHAgentAuth(user)
	if err != nil {
		return nil, wrapError(err, "failed to connect to SSH agent")
	}
	if options.insecureHostKeys {
		auth.HostKeyCallback = gossh.InsecureIgnoreHostKey() //nolint:gosec // opt-in
	}

	return auth, nil
}

// BasicAuth creates HTTP basic authentication, typically a user name and a
// personal access token.
func BasicAuth(username, password string) Auth {
	return &http.BasicAuth{
		Username: username,
		Password: password,
	}
}

// Credentials are the connection settings a transfer session is opened with.
// The zero value means SSH agent authentication as DefaultSSHUser.
type Credentials struct {
	Username              string
	Password              string
	PrivateKeyFile        string
	Passphrase            string
	InsecureIgnoreHostKey bool
}

// AuthFor picks the authentication method for repositoryURL:
//
//   - http(s) URLs use basic auth when a user name is set, and no auth otherwise;
//   - file URLs and local paths use no auth;
//   - anything else, scp-like addresses included, is SSH, with the private key file when set and the SSH agent
//     otherwise. Without a reachable agent the result is nil and the transport falls back to its own defaults.
func (c Credentials) AuthFor(repositoryURL string) (Auth, error) {
	scheme := ""
	if u, err := url.Parse(repositoryURL); err == nil {
		scheme = u.Scheme
	}

	switch scheme {
	case "http", "https":
		if c.Username == "" {
			return nil, nil
		}
		return BasicAuth(c.Username, c.Password), nil
	case "file":
		return nil, nil
	case "":
		if filepath.IsAbs(repositoryURL) || strings.HasPrefix(repositoryURL, ".") {
			return nil, nil
		}
	}

	user := c.Username
	if user == "" {
		user = DefaultSSHUser
	}

	var opts []SSHKeyOption
	if c.InsecureIgnoreHostKey {
		opts = append(opts, WithInsecureHostKeys())
	}

	if c.PrivateKeyFile != "" {
		if c.Passphrase != "" {
			opts = append(opts, WithSSHPassword(c.Passphrase))
		}
		return SSHKeyFile(user, c.PrivateKeyFile, opts...)
	}

	auth, err := SSHAgent(user, opts...)
	if err != nil {
		return nil, nil //nolint:nilerr // no agent is not an error
	}
	return auth, nil
}

func applySSHKeyOptions(opts []SSHKeyOption) *sshKeyOptions {
	options := &sshKeyOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
