package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Run with `go run ./tools/archive-cli`

func main() {
	app := &cli.App{
		Name:      "Keel Archive Toolbox",
		HelpName:  "archive",
		Usage:     "A set of utilities to inspect and maintain history archive directories",
		Copyright: "(c) 2025 Keel Foundation",
		Flags:     []cli.Flag{},
		Commands: []*cli.Command{
			&getPathsCommand,
			&ensureCommand,
			&scanCommand,
			&probeCommand,
			&holdCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
