package registry

import (
	"net/url"
	"strings"
)

// normalizeURL reduces a repository URL to the key its working copy is
// registered under, so the same repository reached through different URL forms
// shares one working copy.
//
// Normalization rules:
//  1. Strip trailing slashes and the .git suffix
//  2. Convert scp-like addresses (git@host:path) to host/path
//  3. Drop the scheme and user of URLs with a host and lower-case the host
//  4. Keep only the path of file URLs
//
// Examples:
//   - https://github.com/my/repo.git → github.com/my/repo
//   - git@github.com:my/repo → github.com/my/repo
//   - ssh://git@GitHub.com/my/repo/ → github.com/my/repo
//   - file:///srv/git/site.git → /srv/git/site
func normalizeURL(rawURL string) string {
	rawURL = strings.TrimSuffix(strings.TrimRight(rawURL, "/"), ".git")

	if strings.Contains(rawURL, "@") && strings.Contains(rawURL, ":") && !strings.Contains(rawURL, "://") {
		_, hostPath, _ := strings.Cut(rawURL, "@")
		host, path, _ := strings.Cut(hostPath, ":")
		return strings.ToLower(host) + "/" + strings.TrimRight(path, "/")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" {
		return rawURL
	}
	if parsed.Host == "" {
		return strings.TrimRight(parsed.Path, "/")
	}
	return strings.ToLower(parsed.Host) + strings.TrimRight(parsed.Path, "/")
}

// dirPrefix turns a key into a prefix for os.MkdirTemp.
func dirPrefix(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	prefix := strings.Trim(b.String(), "_.")
	if len(prefix) > 48 {
		prefix = prefix[len(prefix)-48:]
	}
	return prefix + "-"
}
