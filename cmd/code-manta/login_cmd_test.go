package main

import (
	"bytes"
	"strings"
	"testing"

	"code-manta/internal/config"
)

func TestLoginStoresTokenAndLogoutClearsIt(t *testing.T) {
	root, _ := testRoot(t)
	var out bytes.Buffer
	if err := runLogin(root, []string{"-provider", "anthropic"}, strings.NewReader("sk-test\n"), &out); err != nil {
		t.Fatalf("runLogin: %v", err)
	}
	cfg, err := config.Load(root.cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model.Token != "sk-test" || cfg.Model.Provider != config.ProviderAnthropic {
		t.Fatalf("saved model = %+v", cfg.Model)
	}

	out.Reset()
	if err := runLogin(root, []string{"status"}, strings.NewReader(""), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "token configured") {
		t.Fatalf("status = %q", out.String())
	}

	if err := runLogout(root, &bytes.Buffer{}); err != nil {
		t.Fatalf("runLogout: %v", err)
	}
	cfg, err = config.Load(root.cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model.Token != "" {
		t.Fatalf("token after logout = %q", cfg.Model.Token)
	}
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	root, _ := testRoot(t)
	if err := runLogin(root, nil, strings.NewReader("\n"), &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for empty token")
	}
}
