package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/restgate-go/internal/cli/connection"
)

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return requestCommand(http.MethodGet, "Send a GET request to a resource path", false)
}

// PostCommand returns the post command.
func PostCommand() *cli.Command {
	return requestCommand(http.MethodPost, "Send a POST request to a resource path", true)
}

// PutCommand returns the put command.
func PutCommand() *cli.Command {
	return requestCommand(http.MethodPut, "Send a PUT request to a resource path", true)
}

// DeleteCommand returns the delete command.
func DeleteCommand() *cli.Command {
	return requestCommand(http.MethodDelete, "Send a DELETE request to a resource path", false)
}

func requestCommand(method, usage string, withBody bool) *cli.Command {
	cmd := &cli.Command{
		Name:      strings.ToLower(method),
		Usage:     usage,
		ArgsUsage: "PATH",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Query parameter as key=value (repeatable)",
			},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return errors.New("resource path is required")
			}
			path, err := withQuery(path, c.StringSlice("query"))
			if err != nil {
				return err
			}
			var body any
			if withBody {
				if body, err = requestBody(c.String("data"), c.Args().Tail()); err != nil {
					return err
				}
			}
			return call(c, method, path, body)
		},
	}
	if withBody {
		cmd.ArgsUsage = "PATH [key=value | key:=json ...]"
		cmd.Flags = append(cmd.Flags, &cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "JSON request body",
		})
	}
	return cmd
}

// call sends one request and prints the decoded response.
func call(c *cli.Context, method, path string, body any) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Do(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	var result any
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return Print(c, result)
}

func withQuery(path string, pairs []string) (string, error) {
	if len(pairs) == 0 {
		return path, nil
	}
	q := url.Values{}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return "", fmt.Errorf("invalid query %q, want key=value", pair)
		}
		q.Add(k, v)
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode(), nil
}

// requestBody builds a body from --data or from field arguments. key=value
// sends a string, key:=value sends raw JSON.
func requestBody(data string, fields []string) (any, error) {
	if data != "" {
		if len(fields) > 0 {
			return nil, errors.New("use either --data or field arguments, not both")
		}
		if !json.Valid([]byte(data)) {
			return nil, errors.New("--data is not valid JSON")
		}
		return json.RawMessage(data), nil
	}
	if len(fields) == 0 {
		return nil, nil
	}

	body := make(map[string]any, len(fields))
	for _, f := range fields {
		i := strings.IndexByte(f, '=')
		switch {
		case i > 1 && f[i-1] == ':':
			var v any
			if err := json.Unmarshal([]byte(f[i+1:]), &v); err != nil {
				return nil, fmt.Errorf("field %s: invalid JSON %q", f[:i-1], f[i+1:])
			}
			body[f[:i-1]] = v
		case i > 0:
			body[f[:i]] = f[i+1:]
		default:
			return nil, fmt.Errorf("invalid field %q, want key=value or key:=json", f)
		}
	}
	return body, nil
}
