package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"
)

func render(t *testing.T, f *TableFormatter, data any) []string {
	t.Helper()
	var buf bytes.Buffer
	if err := f.Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func fields(line string) []string {
	return strings.Fields(line)
}

func TestTableFormatter_Records(t *testing.T) {
	data := []any{
		map[string]any{"name": "Acme", "id": float64(1), "tin": "AAA010101AAA", "contacts": []any{"x"}},
		map[string]any{"name": "Globex", "id": float64(2), "parent": nil},
	}

	t.Run("narrow", func(t *testing.T) {
		lines := render(t, &TableFormatter{}, data)
		if len(lines) != 3 {
			t.Fatalf("lines = %q", lines)
		}
		if got, want := fields(lines[0]), []string{"ID", "NAME", "PARENT", "TIN"}; !reflect.DeepEqual(got, want) {
			t.Errorf("headers = %v, want %v", got, want)
		}
		if got, want := fields(lines[2]), []string{"2", "Globex", "-", "-"}; !reflect.DeepEqual(got, want) {
			t.Errorf("row = %v, want %v", got, want)
		}
	})

	t.Run("wide", func(t *testing.T) {
		lines := render(t, &TableFormatter{Wide: true}, data)
		if got, want := fields(lines[0]), []string{"ID", "NAME", "CONTACTS", "PARENT", "TIN"}; !reflect.DeepEqual(got, want) {
			t.Errorf("headers = %v, want %v", got, want)
		}
		if !strings.Contains(lines[1], "[1 items]") {
			t.Errorf("row = %q", lines[1])
		}
	})

	t.Run("no headers", func(t *testing.T) {
		lines := render(t, &TableFormatter{NoHeaders: true}, data)
		if len(lines) != 2 || fields(lines[0])[0] != "1" {
			t.Errorf("lines = %q", lines)
		}
	})
}

func TestTableFormatter_Scalars(t *testing.T) {
	lines := render(t, &TableFormatter{}, []any{"a", float64(2), true})
	want := []string{"VALUE", "a", "2", "true"}
	for i, w := range want {
		if strings.TrimSpace(lines[i]) != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestTableFormatter_Map(t *testing.T) {
	lines := render(t, &TableFormatter{}, map[string]any{
		"total_rows": float64(12),
		"results":    []any{},
		"id":         float64(4),
	})
	var keys []string
	for _, l := range lines[1:] {
		keys = append(keys, fields(l)[0])
	}
	if want := []string{"id", "results", "total_rows"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
}

func TestTableFormatter_Structs(t *testing.T) {
	type profile struct {
		Name    string    `json:"name"`
		Server  string    `json:"server"`
		Token   string    `table:"-"`
		Since   time.Time `json:"since" table:"wide"`
		private int
	}
	data := []*profile{
		{Name: "prod", Server: "https://api.example.com", Token: "secret"},
		nil,
	}

	lines := render(t, &TableFormatter{}, data)
	if got, want := fields(lines[0]), []string{"NAME", "SERVER"}; !reflect.DeepEqual(got, want) {
		t.Errorf("headers = %v, want %v", got, want)
	}
	if len(lines) != 2 || strings.Contains(lines[1], "secret") {
		t.Errorf("lines = %q", lines)
	}

	wide := render(t, &TableFormatter{Wide: true}, data)
	if got := fields(wide[0]); len(got) != 3 || got[2] != "SINCE" {
		t.Errorf("wide headers = %v", got)
	}

	single := render(t, &TableFormatter{}, profile{Name: "dev"})
	if fields(single[0])[0] != "FIELD" || fields(single[1])[1] != "dev" {
		t.Errorf("single = %q", single)
	}
}

func TestTableFormatter_Fallback(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, "plain"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\"plain\"\n" {
		t.Errorf("output = %q", got)
	}
	buf.Reset()
	if err := (&TableFormatter{}).Format(&buf, nil); err != nil || buf.Len() != 0 {
		t.Errorf("nil output = %q, %v", buf.String(), err)
	}
}

func TestTable_Render(t *testing.T) {
	var tbl Table
	tbl.SetHeaders("A", "LONGER")
	tbl.AddRow("1", "2")
	var buf bytes.Buffer
	if err := tbl.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "A  LONGER\n1  2\n"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestFormatAny(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "-"},
		{"", "-"},
		{"x", "x"},
		{float64(42), "42"},
		{1.5, "1.5"},
		{false, "false"},
		{[]any{1, 2}, "[2 items]"},
		{map[string]any{}, "-"},
		{map[string]any{"a": 1}, "{1 keys}"},
		{int64(7), "7"},
	}
	for _, tt := range tests {
		if got := formatAny(tt.in); got != tt.want {
			t.Errorf("formatAny(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatValue_Time(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	if got := formatValue(reflect.ValueOf(ts)); got != "2024-03-09 14:05" {
		t.Errorf("formatValue(time) = %q", got)
	}
	if got := formatValue(reflect.ValueOf(time.Time{})); got != "-" {
		t.Errorf("formatValue(zero) = %q", got)
	}
	var p *int
	if got := formatValue(reflect.ValueOf(p)); got != "-" {
		t.Errorf("formatValue(nil ptr) = %q", got)
	}
}
