package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and save the session token on the active profile",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Login name (default: the last one used)",
			},
			&cli.StringFlag{
				Name:    "password",
				Usage:   "Password",
				EnvVars: []string{"RESTGATE_PASSWORD"},
			},
			&cli.BoolFlag{
				Name:  "print",
				Usage: "Print the token",
			},
		},
		Action: loginAction,
	}
}

func loginAction(c *cli.Context) error {
	mgr, err := GetConnectionManager(c)
	if err != nil {
		return err
	}
	o := ParseGlobalFlags(c).Overrides
	p := mgr.Current(o)

	email := c.String("email")
	if email == "" {
		email = p.Email
	}
	if email == "" {
		return errors.New("--email is required")
	}
	if c.String("password") == "" {
		return errors.New("--password is required")
	}
	if p.PublicKey == "" {
		return errors.New("--public-key is required")
	}

	client, err := mgr.Client(o)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	tok, err := client.Login(ctx, email, c.String("password"))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := mgr.SaveLogin(p, email, tok); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if c.Bool("print") {
		fmt.Fprintln(c.App.Writer, tok)
		return nil
	}
	fmt.Fprintf(c.App.Writer, "Logged in as %s (profile %s)\n", email, mgr.ProfileName())
	return nil
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the session token of the active profile",
		Action: logoutAction,
	}
}

func logoutAction(c *cli.Context) error {
	mgr, err := GetConnectionManager(c)
	if err != nil {
		return err
	}
	cleared, err := mgr.Logout()
	if err != nil {
		return err
	}
	if !cleared {
		fmt.Fprintln(c.App.Writer, "Not logged in")
		return nil
	}
	fmt.Fprintf(c.App.Writer, "Logged out of profile %s\n", mgr.ProfileName())
	return nil
}
