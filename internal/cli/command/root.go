package command

import (
	"context"
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/restgate-go/internal/cli/config"
	"github.com/yndnr/restgate-go/internal/cli/connection"
	"github.com/yndnr/restgate-go/internal/cli/output"
	"github.com/yndnr/restgate-go/internal/infra/buildinfo"
)

// AppName is the binary name shown in help and version output.
const AppName = "restgate-cli"

const managerKey = "connMgr"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    AppName,
		Usage:   "RestGate command-line client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ConnectCommand(),
			DisconnectCommand(),
			ProfileCommand(),
			LoginCommand(),
			LogoutCommand(),
			GetCommand(),
			PostCommand(),
			PutCommand(),
			DeleteCommand(),
			UsersCommand(),
			CustomersCommand(),
			CountriesCommand(),
			LanguageCommand(),
			HealthCommand(),
			ReadyCommand(),
			ShellCommand(),
		},
		Before: func(c *cli.Context) error {
			mgr, err := connection.NewManager(c.String("config"), c.String("profile"))
			if err != nil {
				return err
			}
			c.App.Metadata[managerKey] = mgr
			return nil
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI configuration file",
			EnvVars: []string{"RESTGATE_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "Profile to use (default: the current profile)",
			EnvVars: []string{"RESTGATE_PROFILE"},
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Server URL (e.g., http://localhost:8080)",
			EnvVars: []string{"RESTGATE_SERVER"},
		},
		&cli.StringFlag{
			Name:  "endpoint",
			Usage: "API endpoint prefix (e.g., /api)",
		},
		&cli.StringFlag{
			Name:  "api-version",
			Usage: "API version segment (e.g., v1)",
		},
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "Session token (overrides the saved one)",
			EnvVars: []string{"RESTGATE_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "public-key",
			Usage:   "Company public key",
			EnvVars: []string{"RESTGATE_PUBLIC_KEY"},
		},
		&cli.StringFlag{
			Name:  "ca-file",
			Usage: "PEM file with extra root certificates",
		},
		&cli.BoolFlag{
			Name:  "insecure",
			Usage: "Skip TLS certificate verification",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show nested columns in tables",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config  string
	Profile string

	Overrides connection.Overrides

	Output string
	Wide   bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Config:  c.String("config"),
		Profile: c.String("profile"),
		Overrides: connection.Overrides{
			Server:    c.String("server"),
			Endpoint:  c.String("endpoint"),
			Version:   c.String("api-version"),
			Token:     c.String("token"),
			PublicKey: c.String("public-key"),
			CAFile:    c.String("ca-file"),
			Insecure:  c.Bool("insecure"),
		},
		Output: c.String("output"),
		Wide:   c.Bool("wide"),
	}
}

// GetConnectionManager retrieves the connection manager from context.
func GetConnectionManager(c *cli.Context) (*connection.Manager, error) {
	if mgr, ok := c.App.Metadata[managerKey].(*connection.Manager); ok {
		return mgr, nil
	}
	return nil, errors.New("connection manager not initialized")
}

// EnsureConnected returns a client for the active profile.
func EnsureConnected(c *cli.Context) (*connection.HTTPClient, error) {
	mgr, err := GetConnectionManager(c)
	if err != nil {
		return nil, err
	}
	return mgr.Client(ParseGlobalFlags(c).Overrides)
}

// Print writes data in the selected output format.
func Print(c *cli.Context, data any) error {
	name := c.String("output")
	if name == "" {
		if mgr, err := GetConnectionManager(c); err == nil {
			name = mgr.Config().DefaultOutput
		}
	}
	format, err := output.ParseFormat(name)
	if err != nil {
		return err
	}
	return output.NewFormatter(format, c.Bool("wide")).Format(c.App.Writer, data)
}

// requestContext bounds one command's requests.
func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, connection.DefaultTimeout)
}
