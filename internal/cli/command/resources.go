package command

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/urfave/cli/v2"
)

// UsersCommand returns the users subcommand group.
func UsersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Query users of the logged in company",
		Subcommands: []*cli.Command{
			fixed("list", "List users", http.MethodGet, "users/list"),
			fixed("roles", "List roles", http.MethodGet, "users/roles"),
			byArg(http.MethodGet, "get", "Show a user", "ID", "users/%s", true),
			byArg(http.MethodGet, "by-role", "List users with a role", "ROLE_ID", "users/by-role/%s", true),
			byArg(http.MethodGet, "search", "Search users by name or email", "TERM", "users/search/%s", false),
			{
				Name:      "check",
				Usage:     "Check whether a username is taken",
				ArgsUsage: "USERNAME",
				Action: func(c *cli.Context) error {
					username := c.Args().First()
					if username == "" {
						return errors.New("USERNAME is required")
					}
					return call(c, http.MethodPost, "users/check", map[string]string{"username": username})
				},
			},
		},
	}
}

// CustomersCommand returns the customers subcommand group.
func CustomersCommand() *cli.Command {
	return &cli.Command{
		Name:  "customers",
		Usage: "Manage customers",
		Subcommands: []*cli.Command{
			fixed("list", "List customers", http.MethodGet, "customers"),
			byArg(http.MethodGet, "get", "Show a customer", "ID", "customers/%s", true),
			byArg(http.MethodGet, "children", "List child customers", "ID", "customers/%s/children", true),
			{
				Name:      "search",
				Usage:     "Search customers by name or TIN",
				ArgsUsage: "TERM",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "offset", Usage: "Skip this many results"},
				},
				Action: func(c *cli.Context) error {
					term := c.Args().First()
					if term == "" {
						return errors.New("TERM is required")
					}
					path := "customers/search/" + url.PathEscape(term)
					if c.IsSet("offset") {
						path += "?offset=" + strconv.Itoa(c.Int("offset"))
					}
					return call(c, http.MethodGet, path, nil)
				},
			},
			{
				Name:      "create",
				Usage:     "Create a customer",
				ArgsUsage: "[key=value | key:=json ...]",
				Flags:     []cli.Flag{dataFlag()},
				Action: func(c *cli.Context) error {
					body, err := requiredBody(c, c.Args().Slice())
					if err != nil {
						return err
					}
					return call(c, http.MethodPost, "customers", body)
				},
			},
			{
				Name:      "update",
				Usage:     "Update a customer",
				ArgsUsage: "ID [key=value | key:=json ...]",
				Flags:     []cli.Flag{dataFlag()},
				Action: func(c *cli.Context) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					body, err := requiredBody(c, c.Args().Tail())
					if err != nil {
						return err
					}
					return call(c, http.MethodPut, "customers/"+id, body)
				},
			},
			byArg(http.MethodDelete, "delete", "Delete a customer", "ID", "customers/%s", true),
		},
	}
}

// CountriesCommand returns the countries subcommand group.
func CountriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "countries",
		Usage: "Query countries",
		Subcommands: []*cli.Command{
			fixed("list", "List countries", http.MethodGet, "countries"),
			byArg(http.MethodGet, "states", "List the states of a country", "CODE", "countries/states/%s", false),
		},
	}
}

// LanguageCommand returns the language subcommand group.
func LanguageCommand() *cli.Command {
	return &cli.Command{
		Name:    "language",
		Aliases: []string{"lang"},
		Usage:   "Query and add phrases in the user's language",
		Subcommands: []*cli.Command{
			fixed("list", "List all phrases", http.MethodGet, "language"),
			{
				Name:      "phrases",
				Usage:     "Show selected phrases",
				ArgsUsage: "NAME...",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return errors.New("at least one phrase name is required")
					}
					return call(c, http.MethodPost, "language/phrases", map[string][]string{"phrases": c.Args().Slice()})
				},
			},
			{
				Name:      "add",
				Usage:     "Add a phrase",
				ArgsUsage: "NAME VALUE",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return errors.New("NAME and VALUE are required")
					}
					return call(c, http.MethodPost, "language", map[string]string{
						"var_name": c.Args().Get(0),
						"value":    c.Args().Get(1),
					})
				},
			},
		},
	}
}

func fixed(name, usage, method, path string) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(c *cli.Context) error {
			return call(c, method, path, nil)
		},
	}
}

// byArg builds a command whose first argument fills format. numeric
// rejects arguments that are not positive integers before any request.
func byArg(method, name, usage, argName, format string, numeric bool) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: argName,
		Action: func(c *cli.Context) error {
			arg := c.Args().First()
			if arg == "" {
				return fmt.Errorf("%s is required", argName)
			}
			if numeric {
				if _, err := idArg(c); err != nil {
					return err
				}
			}
			return call(c, method, fmt.Sprintf(format, url.PathEscape(arg)), nil)
		},
	}
}

func idArg(c *cli.Context) (string, error) {
	arg := c.Args().First()
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return "", fmt.Errorf("invalid id %q", arg)
	}
	return arg, nil
}

func dataFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "data",
		Aliases: []string{"d"},
		Usage:   "JSON request body",
	}
}

func requiredBody(c *cli.Context, fields []string) (any, error) {
	body, err := requestBody(c.String("data"), fields)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, errors.New("request body is required (--data or key=value fields)")
	}
	return body, nil
}
