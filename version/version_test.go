package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func saveAndRestore() func() {
	v, c, b := Version, GitCommit, BuildTime
	return func() {
		Version, GitCommit, BuildTime = v, c, b
	}
}

func TestGetDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit, BuildTime = "dev", "", ""

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev should not be a release")
	}
	if info.GoVersion == "" || info.Platform == "" {
		t.Errorf("expected runtime fields, got %+v", info)
	}
}

func TestGetWithLdflags(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit, BuildTime = "v1.2.0", "abc1234", "2026-01-02T03:04:05Z"

	info := Get()
	if info.GitCommit != "abc1234" {
		t.Errorf("expected ldflags commit to win, got %q", info.GitCommit)
	}
	if info.BuildDate.Year() != 2026 {
		t.Errorf("expected parsed build date, got %v", info.BuildDate)
	}
	if !strings.HasPrefix(info.Short(), "v1.2.0-abc1234") {
		t.Errorf("unexpected short version %q", info.Short())
	}
	if !strings.Contains(info.String(), "built 2026-01-02T03:04:05Z") {
		t.Errorf("unexpected string %q", info.String())
	}
}

func TestApplyBuildSettings(t *testing.T) {
	info := Info{Version: "v1.0.0"}
	applyBuildSettings(&info, []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2026-05-06T07:08:09Z"},
	})
	if info.GitCommit != "0123456" {
		t.Errorf("expected short commit, got %q", info.GitCommit)
	}
	if !info.IsDirty || info.Short() != "v1.0.0-0123456-dirty" {
		t.Errorf("expected dirty build, got %q", info.Short())
	}
	if info.BuildTime != "2026-05-06T07:08:09Z" {
		t.Errorf("expected vcs time, got %q", info.BuildTime)
	}
}

func TestFields(t *testing.T) {
	f := Info{Version: "v1", GitCommit: "abc", GoVersion: "go1.26"}.Fields()
	if f["version"] != "v1" || f["git_commit"] != "abc" {
		t.Errorf("unexpected fields %v", f)
	}
}
