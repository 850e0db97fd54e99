package main

import (
	"reflect"
	"testing"
)

func TestParseRootArgsStopsAtSubcommand(t *testing.T) {
	orig := []string{"run", "-c", "x=y", "reply.txt"}
	root, rest, err := parseRootArgs(orig)
	if err != nil {
		t.Fatalf("parseRootArgs returned error: %v", err)
	}
	if len(root.overrides) != 0 {
		t.Fatalf("expected no overrides, got %v", root.overrides)
	}
	if !reflect.DeepEqual(rest, orig) {
		t.Fatalf("expected rest to preserve args %v, got %v", orig, rest)
	}
}

func TestParseRootArgsExtractsGlobals(t *testing.T) {
	args := []string{
		"-c", "max_turns=3",
		"-c=sandbox_mode=read-only",
		"-config", "/tmp/manta.toml",
		"--workdir", "/srv/app",
		"chat", "fix", "tests",
	}
	root, rest, err := parseRootArgs(args)
	if err != nil {
		t.Fatalf("parseRootArgs returned error: %v", err)
	}
	if !reflect.DeepEqual(root.overrides, []string{"max_turns=3", "sandbox_mode=read-only"}) {
		t.Fatalf("unexpected overrides: %v", root.overrides)
	}
	if root.cfgPath != "/tmp/manta.toml" || root.workdir != "/srv/app" {
		t.Fatalf("unexpected root args: %+v", root)
	}
	if !reflect.DeepEqual(rest, []string{"chat", "fix", "tests"}) {
		t.Fatalf("unexpected rest args: %v", rest)
	}
}

func TestParseRootArgsUnknownFlag(t *testing.T) {
	if _, _, err := parseRootArgs([]string{"--bogus"}); err == nil {
		t.Fatalf("expected error for unknown root flag")
	}
}

func TestPrependOverrides(t *testing.T) {
	got := prependOverrides([]string{"a=1"}, []string{"b=2"})
	if !reflect.DeepEqual(got, []string{"a=1", "b=2"}) {
		t.Fatalf("prependOverrides = %v", got)
	}
}
