package command

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/restgate-go/internal/cli/repl"
)

// forwarded global flags are passed to every command run from the shell.
var (
	forwardedStrings = []string{"config", "profile", "server", "endpoint", "api-version", "token", "public-key", "ca-file", "output"}
	forwardedBools   = []string{"insecure", "wide"}
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Start an interactive session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history",
				Value: repl.DefaultHistoryPath(),
				Usage: "History file (empty keeps history in memory)",
			},
		},
		Action: shellAction,
	}
}

func shellAction(c *cli.Context) error {
	base := []string{AppName}
	for _, name := range forwardedStrings {
		if c.IsSet(name) {
			base = append(base, "--"+name, c.String(name))
		}
	}
	for _, name := range forwardedBools {
		if c.Bool(name) {
			base = append(base, "--"+name)
		}
	}

	exec := func(args []string) error {
		if args[0] == "shell" {
			return errors.New("already in a shell")
		}
		app := App()
		app.Reader = c.App.Reader
		app.Writer = c.App.Writer
		app.ErrWriter = c.App.ErrWriter
		app.ExitErrHandler = func(*cli.Context, error) {}
		return app.RunContext(c.Context, append(append([]string{}, base...), args...))
	}

	r := repl.New(exec,
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithCompleter(repl.NewCompleter(commandNames(App().Commands))),
		repl.WithHistory(repl.NewHistory(c.String("history"), repl.DefaultHistorySize)),
	)
	return r.Run()
}

// commandNames lists every command path, e.g. "users list".
func commandNames(cmds []*cli.Command) []string {
	var names []string
	for _, cmd := range cmds {
		if cmd.Name == "shell" {
			continue
		}
		if len(cmd.Subcommands) == 0 {
			names = append(names, cmd.Name)
			continue
		}
		for _, sub := range cmd.Subcommands {
			names = append(names, cmd.Name+" "+sub.Name)
		}
	}
	return names
}
