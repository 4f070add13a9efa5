package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/restgate-go/internal/cli/connection"
)

// ConnectCommand returns the connect command.
func ConnectCommand() *cli.Command {
	return &cli.Command{
		Name:      "connect",
		Usage:     "Save a server as the active profile",
		ArgsUsage: "[SERVER]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "skip-check",
				Usage: "Save without probing /health",
			},
		},
		Action: connectAction,
	}
}

func connectAction(c *cli.Context) error {
	mgr, err := GetConnectionManager(c)
	if err != nil {
		return err
	}
	o := ParseGlobalFlags(c).Overrides
	if server := c.Args().First(); server != "" {
		o.Server = server
	}
	p := mgr.Current(o)

	if !c.Bool("skip-check") {
		client, err := mgr.Client(o)
		if err != nil {
			return err
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		resp, err := client.Probe(ctx, "/health")
		if err != nil {
			return fmt.Errorf("connect failed: %w", err)
		}
		if err := connection.ParseResponse(resp, nil); err != nil {
			return fmt.Errorf("connect failed: %w", err)
		}
	}

	if err := mgr.Connect(p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Connected to %s (profile %s)\n", p.Server, mgr.ProfileName())
	return nil
}

// DisconnectCommand returns the disconnect command. It forgets the token
// of the active profile and keeps the server details.
func DisconnectCommand() *cli.Command {
	return &cli.Command{
		Name:   "disconnect",
		Usage:  "Forget the session token of the active profile",
		Action: logoutAction,
	}
}

// ProfileCommand returns the profile subcommand group.
func ProfileCommand() *cli.Command {
	return &cli.Command{
		Name:    "profile",
		Aliases: []string{"profiles"},
		Usage:   "Manage saved profiles",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List saved profiles",
				Action:  profileList,
			},
			{
				Name:   "show",
				Usage:  "Show the active profile",
				Action: profileShow,
			},
			{
				Name:      "use",
				Usage:     "Make a profile current",
				ArgsUsage: "NAME",
				Action:    profileUse,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Delete a profile",
				ArgsUsage: "NAME",
				Action:    profileRemove,
			},
		},
		Action: profileList,
	}
}

type profileRow struct {
	Current  string `json:"current"`
	Name     string `json:"name"`
	Server   string `json:"server"`
	Endpoint string `json:"endpoint" table:"wide"`
	Version  string `json:"version" table:"wide"`
	Email    string `json:"email"`
	LoggedIn bool   `json:"logged_in"`
}

func profileList(c *cli.Context) error {
	mgr, err := GetConnectionManager(c)
	if err != nil {
		return err
	}
	cfg := mgr.Config()
	rows := make([]profileRow, 0, len(cfg.Profiles))
	for _, name := range cfg.Names() {
		p, _ := cfg.Profile(name)
		row := profileRow{
			Name:     name,
			Server:   p.Server,
			Endpoint: p.Endpoint,
			Version:  p.Version,
			Email:    p.Email,
			LoggedIn: p.Token != "",
		}
		if name == cfg.Current {
			row.Current = "*"
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		fmt.Fprintln(c.App.Writer, "No profiles saved. Run 'restgate-cli connect SERVER' first.")
		return nil
	}
	return Print(c, rows)
}

func profileShow(c *cli.Context) error {
	mgr, err := GetConnectionManager(c)
	if err != nil {
		return err
	}
	return Print(c, mgr.Current(ParseGlobalFlags(c).Overrides))
}

func profileUse(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return errors.New("profile name is required")
	}
	mgr, err := GetConnectionManager(c)
	if err != nil {
		return err
	}
	if err := mgr.Config().Use(name); err != nil {
		return err
	}
	if err := mgr.Save(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Switched to profile %s\n", name)
	return nil
}

func profileRemove(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return errors.New("profile name is required")
	}
	mgr, err := GetConnectionManager(c)
	if err != nil {
		return err
	}
	if err := mgr.Config().Remove(name); err != nil {
		return err
	}
	if err := mgr.Save(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Removed profile %s\n", name)
	return nil
}
