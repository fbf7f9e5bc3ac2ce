package version

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version || info.Commit != Commit {
		t.Fatalf("unexpected build info %#v", info)
	}
	if !strings.HasPrefix(info.GoVersion, "go") || !strings.Contains(info.Platform, "/") {
		t.Fatalf("unexpected runtime info %#v", info)
	}
}

func TestFullInfo(t *testing.T) {
	if !strings.Contains(FullInfo(), "version="+Version) || Info() != Version {
		t.Fatalf("unexpected version strings %q %q", Info(), FullInfo())
	}
}
