package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.Version == "" || info.Commit == "" || info.BuildTime == "" {
		t.Errorf("Get() has empty fields: %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2024-05-01T10:00:00Z"},
		},
	}

	info := Info{Version: "dev", Commit: "unknown", BuildTime: "unknown"}
	fillFromBuildInfo(&info, bi)
	if info.Version != "v1.4.0" || info.Commit != "0123456789ab" || info.BuildTime != "2024-05-01T10:00:00Z" {
		t.Errorf("fillFromBuildInfo() = %+v", info)
	}

	// ldflags values win.
	pinned := Info{Version: "v2.0.0", Commit: "abc", BuildTime: "now"}
	fillFromBuildInfo(&pinned, bi)
	if pinned.Version != "v2.0.0" || pinned.Commit != "abc" || pinned.BuildTime != "now" {
		t.Errorf("ldflags values overwritten: %+v", pinned)
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.Contains(s, Get().Version) || !strings.Contains(s, "built at") {
		t.Errorf("String() = %q", s)
	}
}
