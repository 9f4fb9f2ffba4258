package main

import (
	"fmt"

	"github.com/Swind/go-frame-runner/pizza"
	"github.com/urfave/cli/v2"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Print the worker's completion message for a generation request",

		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Value:   10,
				Usage:   "Number of records to generate",
				EnvVars: []string{"PIZZERIA_RECORDS"},
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "Seed for reproducible output (0 picks a random seed)",
			},
		},

		Action: generateAction,
	}
}

func generateAction(c *cli.Context) error {
	count := c.Int("count")
	if count < 0 {
		return cli.Exit("count must not be negative", 1)
	}

	gen := pizza.NewRandomGenerator()
	if seed := c.Uint64("seed"); seed != 0 {
		gen = pizza.NewSeededGenerator(seed)
	}

	req, err := pizza.EncodeRequest(count)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}
	out, err := pizza.HandleMessage(gen, req)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}

	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}
