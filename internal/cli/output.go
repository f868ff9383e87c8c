package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	platformerrors "github.com/jmgilman/go/gitwagon/errors"
	"github.com/jmgilman/go/gitwagon/locator"
)

// Output formats accepted by locate.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type locatorView struct {
	Locator       string `json:"locator" yaml:"locator"`
	RepositoryURL string `json:"repositoryUrl" yaml:"repositoryUrl"`
	Branch        string `json:"branch" yaml:"branch"`
	Resource      string `json:"resource" yaml:"resource"`
}

func printLocator(w io.Writer, loc locator.Locator, format string) error {
	view := locatorView{
		Locator:       loc.String(),
		RepositoryURL: loc.RepositoryURL,
		Branch:        loc.Branch,
		Resource:      loc.Resource,
	}

	switch format {
	case formatText, "":
		_, err := fmt.Fprintln(w, view.Locator)
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("failed to encode locator: %w", err)
		}
		return enc.Close()
	default:
		return platformerrors.Newf(platformerrors.CodeInvalidInput, "unknown output format %q", format)
	}
}
