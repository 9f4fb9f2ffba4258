// Command pizzeria runs the scrolling pizza page in a terminal, or headless
// with metrics, and can print the worker's generation message.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "pizzeria",
		Usage: "frame-coalesced scroll animation with off-thread record generation",
		Commands: []*cli.Command{
			runCommand(),
			generateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
