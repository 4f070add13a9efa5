package localserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yndnr/restgate-go/internal/telemetry/logger"
)

func startServer(t *testing.T, c Controls) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rg.sock")
	s := New(path, NewHandler(c), logger.Discard())
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	go s.Serve()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Shutdown(ctx)
	})
	return s
}

func send(t *testing.T, s *Server, cmd string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return Send(ctx, s.Path(), cmd)
}

func TestServer_Status(t *testing.T) {
	s := startServer(t, Controls{
		Resources: func() []string { return []string{"customers", "login"} },
	})

	reply, err := send(t, s, "status")
	if err != nil {
		t.Fatalf("status error = %v", err)
	}
	var st Status
	if err := json.Unmarshal([]byte(reply), &st); err != nil {
		t.Fatalf("status reply %q: %v", reply, err)
	}
	if len(st.Resources) != 2 || st.Resources[0] != "customers" {
		t.Errorf("Resources = %v", st.Resources)
	}
	if st.Version == "" || st.LogLevel == "" || st.Uptime == "" {
		t.Errorf("status = %+v", st)
	}

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("socket permissions = %o", info.Mode().Perm())
	}
}

func TestServer_Commands(t *testing.T) {
	var reloads, shutdowns atomic.Int32
	s := startServer(t, Controls{
		Reload: func() error {
			if reloads.Add(1) > 1 {
				return errors.New("invalid log.level")
			}
			return nil
		},
		Shutdown: func() { shutdowns.Add(1) },
	})

	tests := []struct {
		cmd     string
		want    string
		wantErr string
	}{
		{"help", "log-level [LEVEL]", ""},
		{"reload", "reloaded", ""},
		{"reload", "", "reload: invalid log.level"},
		{"  ", "", "empty command"},
		{"drop tables", "", "unknown command: drop"},
		{"log-level verbose", "", `invalid log level "verbose"`},
		{"log-level a b", "", "usage: log-level [LEVEL]"},
		{"shutdown", "shutting down", ""},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			reply, err := send(t, s, tt.cmd)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Errorf("error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if !strings.Contains(reply, tt.want) {
				t.Errorf("reply = %q, want %q", reply, tt.want)
			}
		})
	}
	if shutdowns.Load() != 1 {
		t.Errorf("shutdown called %d times", shutdowns.Load())
	}
}

func TestServer_LogLevel(t *testing.T) {
	prev := logger.GetLevel()
	t.Cleanup(func() { logger.SetLevel(prev) })

	s := startServer(t, Controls{})
	reply, err := send(t, s, "log-level debug")
	if err != nil || strings.TrimSpace(reply) != "debug" {
		t.Fatalf("log-level debug = %q, %v", reply, err)
	}
	if logger.GetLevel() != "debug" {
		t.Errorf("GetLevel() = %q", logger.GetLevel())
	}
	reply, _ = send(t, s, "log-level")
	if strings.TrimSpace(reply) != "debug" {
		t.Errorf("log-level = %q", reply)
	}
}

func TestServer_NilControls(t *testing.T) {
	s := startServer(t, Controls{})
	for _, cmd := range []string{"reload", "shutdown"} {
		if _, err := send(t, s, cmd); err == nil || !strings.Contains(err.Error(), "not available") {
			t.Errorf("%s error = %v", cmd, err)
		}
	}
	reply, err := send(t, s, "status")
	if err != nil || !strings.Contains(reply, `"resources": []`) {
		t.Errorf("status = %q, %v", reply, err)
	}
}

func TestServer_ShutdownRemovesSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rg.sock")
	s := New(path, NewHandler(Controls{}), logger.Discard())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe() }()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(path); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("socket not created")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("ListenAndServe() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("socket still present: %v", err)
	}
}

func TestServer_ListenRejectsRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rg.sock")
	if err := os.WriteFile(path, []byte("data"), 0600); err != nil {
		t.Fatal(err)
	}
	s := New(path, NewHandler(Controls{}), logger.Discard())
	if err := s.Listen(); err == nil {
		t.Error("Listen() over a regular file should fail")
	}
}

func TestHandler_Uptime(t *testing.T) {
	h := NewHandler(Controls{})
	h.now = func() time.Time { return h.started.Add(90*time.Second + 300*time.Millisecond) }

	var buf bytes.Buffer
	if err := h.Execute(&buf, "status", nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"uptime": "1m30s"`) {
		t.Errorf("status = %s", buf.String())
	}
}
