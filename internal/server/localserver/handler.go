package localserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/yndnr/restgate-go/internal/infra/buildinfo"
	"github.com/yndnr/restgate-go/internal/telemetry/logger"
)

// Controls are the server operations reachable from the socket. Nil
// functions make the matching command fail.
type Controls struct {
	Reload    func() error
	Shutdown  func()
	Resources func() []string
}

// Status is the reply to the status command.
type Status struct {
	Version   string   `json:"version"`
	Commit    string   `json:"commit"`
	GoVersion string   `json:"go_version"`
	StartedAt string   `json:"started_at"`
	Uptime    string   `json:"uptime"`
	LogLevel  string   `json:"log_level"`
	Resources []string `json:"resources"`
}

// Handler handles local management commands.
type Handler struct {
	controls Controls
	started  time.Time
	now      func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(c Controls) *Handler {
	return &Handler{controls: c, started: time.Now(), now: time.Now}
}

// Execute executes a local management command.
func (h *Handler) Execute(w io.Writer, cmd string, args []string) error {
	switch cmd {
	case "status":
		return h.handleStatus(w)
	case "log-level":
		return h.handleLogLevel(w, args)
	case "reload":
		return h.handleReload(w)
	case "shutdown":
		return h.handleShutdown(w)
	case "help":
		_, err := io.WriteString(w, "status\nlog-level [LEVEL]\nreload\nshutdown\n")
		return err
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (h *Handler) handleStatus(w io.Writer) error {
	info := buildinfo.Get()
	st := Status{
		Version:   info.Version,
		Commit:    info.Commit,
		GoVersion: info.GoVersion,
		StartedAt: h.started.UTC().Format(time.RFC3339),
		Uptime:    h.now().Sub(h.started).Truncate(time.Second).String(),
		LogLevel:  logger.GetLevel(),
		Resources: []string{},
	}
	if h.controls.Resources != nil {
		st.Resources = h.controls.Resources()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}

func (h *Handler) handleLogLevel(w io.Writer, args []string) error {
	switch len(args) {
	case 0:
	case 1:
		if !logger.ValidLevel(args[0]) {
			return fmt.Errorf("invalid log level %q", args[0])
		}
		logger.SetLevel(args[0])
	default:
		return errors.New("usage: log-level [LEVEL]")
	}
	_, err := fmt.Fprintln(w, logger.GetLevel())
	return err
}

func (h *Handler) handleReload(w io.Writer) error {
	if h.controls.Reload == nil {
		return errors.New("reload not available")
	}
	if err := h.controls.Reload(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	_, err := io.WriteString(w, "reloaded\n")
	return err
}

func (h *Handler) handleShutdown(w io.Writer) error {
	if h.controls.Shutdown == nil {
		return errors.New("shutdown not available")
	}
	if _, err := io.WriteString(w, "shutting down\n"); err != nil {
		return err
	}
	h.controls.Shutdown()
	return nil
}
