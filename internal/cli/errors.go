package cli

import (
	"encoding/json"
	"fmt"
	"io"

	platformerrors "github.com/jmgilman/go/gitwagon/errors"
)

// PrintError writes err to w, as JSON when asJSON is set.
func PrintError(w io.Writer, err error, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(platformerrors.ToJSON(err)); encErr == nil {
			return
		}
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// Execute runs the root command with args and returns the process exit code.
func Execute(version string, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd(version)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		asJSON, _ := cmd.PersistentFlags().GetBool("json")
		PrintError(stderr, err, asJSON)
		return 1
	}
	return 0
}
