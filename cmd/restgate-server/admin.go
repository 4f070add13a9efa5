package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/restgate-go/internal/core/domain"
	"github.com/yndnr/restgate-go/internal/server/config"
	"github.com/yndnr/restgate-go/internal/server/localserver"
	"github.com/yndnr/restgate-go/internal/storage/sqlitestore"
	"github.com/yndnr/restgate-go/internal/telemetry/logger"
	"github.com/yndnr/restgate-go/pkg/crypto/credential"
	"github.com/yndnr/restgate-go/pkg/token"
)

// publicKeyLength is the length of generated company public keys.
const publicKeyLength = 32

func hashPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "Print a PBKDF2 hash for metrics.auth_hash",
		ArgsUsage: "PASSWORD",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "algorithm", Value: credential.DefaultAlgorithm, Usage: "Hash algorithm (sha1, sha256, sha384, sha512)"},
			&cli.IntFlag{Name: "iterations", Value: credential.DefaultIterations, Usage: "PBKDF2 iterations"},
		},
		Action: func(c *cli.Context) error {
			password := c.Args().First()
			if password == "" {
				return errors.New("password argument is required")
			}
			p := credential.DefaultParams()
			p.Algorithm = c.String("algorithm")
			p.Iterations = c.Int("iterations")
			packed, err := credential.DeriveWith(password, p)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, packed)
			return nil
		},
	}
}

func addUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "add-user",
		Usage: "Create a user (and its company) in the sqlite store",
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{Name: "email", Required: true, Usage: "Login name"},
			&cli.StringFlag{Name: "password", Required: true, Usage: "Plain password"},
			&cli.StringFlag{Name: "company", Required: true, Usage: "Company name"},
			&cli.StringFlag{Name: "public-key", Usage: "Company public key (generated when empty)"},
			&cli.IntFlag{Name: "role", Value: int(domain.RoleAdmin), Usage: "Role id"},
			&cli.StringFlag{Name: "name", Usage: "Full name"},
			&cli.StringFlag{Name: "phone", Usage: "Phone number"},
			&cli.StringFlag{Name: "lang", Usage: "Preferred language (default: api.lang)"},
		},
		Action: func(c *cli.Context) error {
			return withSQLite(c, func(ctx context.Context, cfg *config.ServerConfig, store *sqlitestore.Store) error {
				publicKey := c.String("public-key")
				if publicKey == "" {
					var err error
					if publicKey, err = token.GenerateWithLength(publicKeyLength); err != nil {
						return err
					}
				}
				lang := c.String("lang")
				if lang == "" {
					lang = cfg.API.Lang
				}

				companyID, err := store.CreateCompany(ctx, c.String("company"), publicKey)
				if err != nil {
					return err
				}
				userID, err := store.CreateUser(ctx, &sqlitestore.NewUser{
					Username:     c.String("email"),
					PublicKey:    publicKey,
					PasswordHash: token.Digest(c.String("password")),
					FullName:     c.String("name"),
					CompanyID:    companyID,
					Role:         domain.Role(c.Int("role")),
					Phone:        c.String("phone"),
					Lang:         lang,
				})
				if err != nil {
					return err
				}

				fmt.Fprintf(c.App.Writer, "user:       %d\n", userID)
				fmt.Fprintf(c.App.Writer, "company:    %d\n", companyID)
				fmt.Fprintf(c.App.Writer, "public key: %s\n", publicKey)
				return nil
			})
		},
	}
}

func addCountryCommand() *cli.Command {
	return &cli.Command{
		Name:      "add-country",
		Usage:     "Create a country and its states in the sqlite store",
		ArgsUsage: "[--state NAME]... CODE NAME",
		Flags: []cli.Flag{
			configFlag,
			&cli.StringSliceFlag{Name: "state", Aliases: []string{"s"}, Usage: "State name (repeatable)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return errors.New("CODE and NAME arguments are required, with flags placed before CODE")
			}
			code := strings.ToUpper(c.Args().Get(0))
			return withSQLite(c, func(ctx context.Context, _ *config.ServerConfig, store *sqlitestore.Store) error {
				if err := store.AddCountry(ctx, code, c.Args().Get(1), c.StringSlice("state")...); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "country %s added with %d states\n", code, len(c.StringSlice("state")))
				return nil
			})
		},
	}
}

func checkConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "check-config",
		Usage: "Validate the configuration and exit",
		Flags: []cli.Flag{configFlag},
		Action: func(c *cli.Context) error {
			_, cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "configuration OK (storage %s, tokens %s, %d resources)\n",
				cfg.Storage.Driver, cfg.Storage.TokenDriver(), len(cfg.API.RouteMapping))
			return nil
		},
	}
}

func ctlCommand() *cli.Command {
	return &cli.Command{
		Name:      "ctl",
		Usage:     "Send a command to a running server's management socket",
		ArgsUsage: "COMMAND [ARGS...]",
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{Name: "socket", Usage: "Socket path (default: server.local.socket)"},
			&cli.DurationFlag{Name: "timeout", Value: 10 * time.Second, Usage: "Reply timeout"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("COMMAND argument is required (try help)")
			}
			path := c.String("socket")
			if path == "" {
				_, cfg, err := loadConfig(c.String("config"))
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				path = cfg.Server.Local.Socket
			}
			if path == "" {
				return errors.New("no socket configured, set server.local.socket or --socket")
			}

			ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
			defer cancel()
			reply, err := localserver.Send(ctx, path, strings.Join(c.Args().Slice(), " "))
			if err != nil {
				return err
			}
			fmt.Fprint(c.App.Writer, reply)
			return nil
		},
	}
}

// withSQLite opens the configured sqlite store for an admin command.
func withSQLite(c *cli.Context, fn func(context.Context, *config.ServerConfig, *sqlitestore.Store) error) error {
	_, cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Storage.Driver != config.DriverSQLite {
		return fmt.Errorf("%s only supports the sqlite driver, configured %q", c.Command.Name, cfg.Storage.Driver)
	}

	ctx := c.Context
	store, err := sqlitestore.Open(ctx, sqlitestore.Config{
		Path:     cfg.Storage.SQLite.Path,
		PoolSize: 1,
		Logger:   logger.Discard(),
	})
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, cfg, store)
}
