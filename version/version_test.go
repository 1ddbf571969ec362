package version

import (
	"strings"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	info := Get()
	if info.Version != "dev" {
		t.Fatalf("expected default version dev, got %q", info.Version)
	}
}

func TestStringIncludesCommit(t *testing.T) {
	info := &Info{Version: "1.2.0", GitCommit: "abc1234"}
	s := info.String()
	if s != "1.2.0-abc1234" {
		t.Fatalf("expected 1.2.0-abc1234, got %q", s)
	}
}

func TestStringDirtyAndBuildTime(t *testing.T) {
	info := &Info{Version: "1.2.0", GitCommit: "abc1234", IsDirty: true, BuildTime: "2026-01-15T10:00:00Z"}
	s := info.String()
	if !strings.Contains(s, "-dirty") {
		t.Fatalf("expected dirty marker in %q", s)
	}
	if !strings.Contains(s, "built 2026-01-15T10:00:00Z") {
		t.Fatalf("expected build time in %q", s)
	}
}
