package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		code := 1
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		os.Exit(code)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "scorekeeper",
		Usage:     "keep player statistics and fantasy league scores",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"SCOREKEEPER_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log at the configured level instead of warn for one-shot commands",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			addCommand(),
			updateCommand(),
			computeCommand(),
			awardsCommand(),
			listCommand(),
			breakdownCommand(),
			exportCommand(),
			chartCommand(),
			penaltiesCommand(),
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err != nil {
				fmt.Fprintf(c.App.ErrWriter, "error: %v\n", err)
			}
		},
	}
}
