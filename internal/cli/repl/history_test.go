package repl

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestHistory_Add(t *testing.T) {
	h := NewHistory("", 3)
	for _, cmd := range []string{"a", "b", "b", "c", "d"} {
		h.Add(cmd)
	}
	if got, want := h.Entries(), []string{"b", "c", "d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %q, want %q", got, want)
	}
	if h.Get(0) != "d" || h.Get(2) != "b" || h.Get(3) != "" || h.Get(-1) != "" {
		t.Errorf("Get() = %q %q %q", h.Get(0), h.Get(2), h.Get(3))
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history")

	h := NewHistory(path, 0)
	if h.maxSize != DefaultHistorySize {
		t.Errorf("maxSize = %d", h.maxSize)
	}
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file error = %v", err)
	}
	h.Add("users list")
	h.Add("login --email a@b.c")
	if err := h.Save(); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("permissions = %o", info.Mode().Perm())
	}

	loaded := NewHistory(path, 10)
	if err := loaded.Load(); err != nil {
		t.Fatal(err)
	}
	if got := loaded.Entries(); !reflect.DeepEqual(got, h.Entries()) {
		t.Errorf("loaded = %q, want %q", got, h.Entries())
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("", 5)
	h.Add("x")
	if err := h.Save(); err != nil {
		t.Error(err)
	}
	if err := h.Load(); err != nil {
		t.Error(err)
	}
	if len(h.Entries()) != 1 {
		t.Errorf("Entries() = %q", h.Entries())
	}
}

func TestDefaultHistoryPath(t *testing.T) {
	if p := DefaultHistoryPath(); p != "" && filepath.Base(p) != "history" {
		t.Errorf("DefaultHistoryPath() = %q", p)
	}
}
