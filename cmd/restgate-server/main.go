// Package main provides the entry point for restgate-server.
//
// restgate-server serves the resource-dispatch REST API: it resolves
// /{version}/{resource}/... paths, checks the x-token session through the
// login resource, and hands the request to the lazily built controller.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/restgate-go/internal/infra/buildinfo"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path to configuration file",
	EnvVars: []string{"RESTGATE_CONFIG"},
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "restgate-server",
		Usage:   "Resource-dispatch REST API server",
		Version: buildinfo.String(),
		Flags:   []cli.Flag{configFlag},
		Action:  serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server (default)",
				Flags:  []cli.Flag{configFlag},
				Action: serveAction,
			},
			{
				Name:  "version",
				Usage: "Show version information",
				Action: func(c *cli.Context) error {
					info := buildinfo.Get()
					fmt.Fprintf(c.App.Writer, "restgate-server %s\n", info.Version)
					fmt.Fprintf(c.App.Writer, "  commit: %s\n", info.Commit)
					fmt.Fprintf(c.App.Writer, "  built:  %s\n", info.BuildTime)
					fmt.Fprintf(c.App.Writer, "  go:     %s\n", info.GoVersion)
					return nil
				},
			},
			hashPasswordCommand(),
			addUserCommand(),
			addCountryCommand(),
			checkConfigCommand(),
			ctlCommand(),
		},
	}
}
