// Package main is the entry point for the applink CLI.
package main

import (
	"os"

	"github.com/thoreinstein/applink/cmd/applink/commands"
	"github.com/thoreinstein/applink/internal/errors"
)

func main() {
	err := commands.Execute()
	if err != nil {
		commands.PrintError(os.Stderr, err)
	}
	os.Exit(errors.ExitCode(err))
}
