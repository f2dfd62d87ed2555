package main

import (
	"fmt"
	"os"

	"stackit.dev/restack/internal/cli"
	restackerrors "stackit.dev/restack/internal/errors"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cli.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		if !restackerrors.IsKilled(err) {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		}
		os.Exit(1)
	}
}
