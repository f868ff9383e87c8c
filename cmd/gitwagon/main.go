package main

import (
	"os"

	"github.com/jmgilman/go/gitwagon/internal/cli"
)

var version = "dev"

func main() {
	os.Exit(cli.Execute(version, os.Args[1:], os.Stdout, os.Stderr))
}
