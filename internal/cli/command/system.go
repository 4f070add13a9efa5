package command

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/restgate-go/internal/cli/output"
)

// HealthCommand returns the health command.
func HealthCommand() *cli.Command {
	return probeCommand("health", "Check that the server is up", "/health")
}

// ReadyCommand returns the ready command.
func ReadyCommand() *cli.Command {
	return probeCommand("ready", "Check that the server storage is reachable", "/ready")
}

func probeCommand(name, usage, path string) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "wait",
				Usage: "Keep probing until success or this timeout",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Value: time.Second,
				Usage: "Delay between probes with --wait",
			},
		},
		Action: func(c *cli.Context) error {
			if wait := c.Duration("wait"); wait > 0 {
				return waitFor(c, path, wait, c.Duration("interval"))
			}
			ctx, cancel := requestContext(c)
			defer cancel()
			result, err := probe(ctx, c, path)
			if result != nil {
				if perr := Print(c, result); perr != nil {
					return perr
				}
			}
			return err
		},
	}
}

// probe fetches a status document. The body is returned even when the
// status code reports a failure.
func probe(ctx context.Context, c *cli.Context, path string) (map[string]any, error) {
	client, err := EnsureConnected(c)
	if err != nil {
		return nil, err
	}
	resp, err := client.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	return result, nil
}

func waitFor(c *cli.Context, path string, timeout, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	spinner := output.NewSpinner(c.App.ErrWriter, "Waiting for "+path)
	spinner.Start()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for attempt := 1; ; attempt++ {
		result, err := probe(ctx, c, path)
		if err == nil {
			spinner.Success(fmt.Sprintf("%s OK after %d attempts", path, attempt))
			return Print(c, result)
		}
		spinner.SetMessage(fmt.Sprintf("Waiting for %s (attempt %d: %v)", path, attempt, err))

		select {
		case <-ctx.Done():
			spinner.Fail(fmt.Sprintf("%s not OK after %s", path, timeout))
			return err
		case <-ticker.C:
		}
	}
}
