package repl

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func newTestREPL(input string, exec Executor) (*REPL, *bytes.Buffer) {
	out := &bytes.Buffer{}
	r := New(exec,
		WithIO(strings.NewReader(input), out),
		WithCompleter(NewCompleter([]string{"users list", "users get", "customers search"})),
		WithHistory(NewHistory("", 10)),
	)
	return r, out
}

func TestREPL_Run(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRuns [][]string
		wantOut  []string
	}{
		{"exit", "exit\nusers list\n", nil, nil},
		{"quit", "quit\n", nil, nil},
		{"eof", "", nil, nil},
		{"empty lines", "\n\n  \nexit\n", nil, nil},
		{"commands", "users list\ncustomers search \"acme corp\" --offset 10\n",
			[][]string{{"users", "list"}, {"customers", "search", "acme corp", "--offset", "10"}}, nil},
		{"last line without newline", "users get 3", [][]string{{"users", "get", "3"}}, nil},
		{"completion", "users ?\n", nil, []string{"users get\nusers list\n"}},
		{"history", "users list\nusers list\nhistory\n", [][]string{{"users", "list"}, {"users", "list"}},
			[]string{"   1  users list\n", "   2  history\n"}},
		{"bad quote", "users get 'x\n", nil, []string{"Error: unterminated quote"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var runs [][]string
			r, out := newTestREPL(tt.input, func(args []string) error {
				runs = append(runs, args)
				return nil
			})
			if err := r.Run(); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !reflect.DeepEqual(runs, tt.wantRuns) {
				t.Errorf("runs = %q, want %q", runs, tt.wantRuns)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output %q missing %q", out.String(), want)
				}
			}
		})
	}
}

func TestREPL_ExecutorError(t *testing.T) {
	r, out := newTestREPL("users get 99\nexit\n", func([]string) error {
		return errors.New("[RG-RES-4040] Record not found")
	})
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Error: [RG-RES-4040] Record not found") {
		t.Errorf("output = %q", out.String())
	}
	if !strings.HasPrefix(out.String(), DefaultPrompt) {
		t.Errorf("output should start with the prompt: %q", out.String())
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"get users/list", []string{"get", "users/list"}, false},
		{"  spaced \t out  ", []string{"spaced", "out"}, false},
		{`post customers --data '{"name":"Acme"}'`, []string{"post", "customers", "--data", `{"name":"Acme"}`}, false},
		{`say "a \"quoted\" word"`, []string{"say", `a "quoted" word`}, false},
		{`path\ with\ spaces`, []string{"path with spaces"}, false},
		{`empty ""`, []string{"empty", ""}, false},
		{`'single \n kept'`, []string{`single \n kept`}, false},
		{`open "quote`, nil, true},
		{`trailing\`, nil, true},
		{"", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := SplitArgs(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitArgs(%q) error = %v", tt.line, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitArgs(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}
