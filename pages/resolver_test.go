package pages

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	platformerrors "github.com/jmgilman/go/gitwagon/errors"
	"github.com/jmgilman/go/gitwagon/locator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	records map[string]string
	err     error
	calls   int
}

func (f *fakeLookup) LookupCNAME(_ context.Context, host string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.records[host], nil
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// offlineClient answers every request with 200 so no test leaves the machine.
func offlineClient() *http.Client {
	return &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})}
}

func newTestResolver(lookup *fakeLookup) *Resolver {
	return NewResolver(WithLookup(lookup), WithHTTPClient(offlineClient()))
}

func TestResolver_Resolve(t *testing.T) {
	lookup := &fakeLookup{records: map[string]string{
		"customsite.example": "acct.github.io.",
		"other.example":      "elsewhere.example.",
	}}

	tests := []struct {
		name  string
		input string
		want  locator.Locator
	}{
		{
			name:  "project site",
			input: "http://acct.github.io/foo",
			want:  locator.Locator{RepositoryURL: "ssh://git@github.com/acct/foo.git", Branch: "gh-pages", Resource: "/"},
		},
		{
			name:  "project site with resource",
			input: "https://acct.github.io/foo/docs/index.html",
			want:  locator.Locator{RepositoryURL: "ssh://git@github.com/acct/foo.git", Branch: "gh-pages", Resource: "/docs/index.html"},
		},
		{
			name:  "account site",
			input: "http://acct.github.io/",
			want:  locator.Locator{RepositoryURL: "ssh://git@github.com/acct/acct.github.io.git", Branch: "master", Resource: "/"},
		},
		{
			name:  "outer scheme and upper case host",
			input: "githubpages:http://Acct.GitHub.io/foo",
			want:  locator.Locator{RepositoryURL: "ssh://git@github.com/acct/foo.git", Branch: "gh-pages", Resource: "/"},
		},
		{
			name:  "custom domain project",
			input: "http://customsite.example/foo",
			want:  locator.Locator{RepositoryURL: "ssh://git@github.com/acct/foo.git", Branch: "gh-pages", Resource: "/"},
		},
		{
			name:  "custom domain root",
			input: "http://customsite.example",
			want:  locator.Locator{RepositoryURL: "ssh://git@github.com/acct/acct.github.io.git", Branch: "master", Resource: "/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestResolver(lookup).Resolve(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_ExactHostSkipsDNS(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("must not be called")}
	r := newTestResolver(lookup)

	_, err := r.Resolve(context.Background(), "http://acct.github.io./foo")
	require.NoError(t, err)
	assert.Equal(t, 0, lookup.calls)
}

func TestResolver_AccountIsCached(t *testing.T) {
	lookup := &fakeLookup{records: map[string]string{"customsite.example": "acct.github.io."}}
	r := newTestResolver(lookup)

	for i := 0; i < 3; i++ {
		_, err := r.Resolve(context.Background(), "http://customsite.example/foo")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, lookup.calls)
}

func TestResolver_HostResolutionFailure(t *testing.T) {
	tests := []struct {
		name   string
		lookup *fakeLookup
		input  string
	}{
		{
			name:   "no CNAME record",
			lookup: &fakeLookup{records: map[string]string{}},
			input:  "http://customsite.example/foo",
		},
		{
			name:   "CNAME target is not a pages host",
			lookup: &fakeLookup{records: map[string]string{"customsite.example": "elsewhere.example."}},
			input:  "http://customsite.example/foo",
		},
		{
			name:   "lookup error",
			lookup: &fakeLookup{err: errors.New("timeout")},
			input:  "http://customsite.example/foo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestResolver(tt.lookup).Resolve(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, platformerrors.HasCode(err, platformerrors.CodeHostResolution))
		})
	}
}

func TestResolver_InvalidURL(t *testing.T) {
	r := newTestResolver(&fakeLookup{})

	_, err := r.Resolve(context.Background(), "githubpages:not a url with no host")
	require.Error(t, err)
	assert.True(t, platformerrors.HasCode(err, platformerrors.CodeInvalidLocator))
}

func TestResolver_FollowsOneRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/foo", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/foo/", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/foo/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/hop1", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/hop2", http.StatusFound)
	})
	mux.HandleFunc("/hop2", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/hop3", http.StatusFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	serverURL, err := url.Parse(server.URL)
	require.NoError(t, err)
	lookup := &fakeLookup{records: map[string]string{serverURL.Hostname(): "acct.github.io."}}
	r := NewResolver(WithLookup(lookup), WithHTTPClient(server.Client()))

	t.Run("trailing slash redirect", func(t *testing.T) {
		site, err := r.SiteURL(context.Background(), server.URL+"/foo")
		require.NoError(t, err)
		assert.Equal(t, "/foo/", site.Path)

		loc, err := r.Resolve(context.Background(), server.URL+"/foo")
		require.NoError(t, err)
		assert.Equal(t, "ssh://git@github.com/acct/foo.git", loc.RepositoryURL)
		assert.Equal(t, "/", loc.Resource)
	})

	t.Run("second redirect is not followed", func(t *testing.T) {
		site, err := r.SiteURL(context.Background(), server.URL+"/hop1")
		require.NoError(t, err)
		assert.Equal(t, "/hop2", site.Path)
	})
}

func TestResolver_NonHTTPSchemeSkipsRedirect(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("must not be called")
	})}
	r := NewResolver(WithLookup(&fakeLookup{}), WithHTTPClient(client))

	loc, err := r.Resolve(context.Background(), "ftp://acct.github.io/foo/bar")
	require.NoError(t, err)
	assert.Equal(t, "/bar", loc.Resource)
}

func TestResolver_UnreachableSite(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}
	r := NewResolver(WithLookup(&fakeLookup{}), WithHTTPClient(client))

	_, err := r.Resolve(context.Background(), "http://acct.github.io/foo")
	require.Error(t, err)
	assert.True(t, platformerrors.HasCode(err, platformerrors.CodeTransport))
}

func TestHost_HasScheme(t *testing.T) {
	assert.True(t, GitHub.HasScheme("github"))
	assert.True(t, GitHub.HasScheme("GitHubPages"))
	assert.False(t, GitHub.HasScheme("git"))
}
