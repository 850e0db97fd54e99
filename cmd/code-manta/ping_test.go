package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"code-manta/internal/logger"
)

func silenceRootLogger(t *testing.T) {
	t.Helper()
	root := logger.Root()
	prev := root.Out
	root.SetOutput(io.Discard)
	t.Cleanup(func() {
		root.SetOutput(prev)
	})
}

func TestRunPingOpenAI(t *testing.T) {
	silenceRootLogger(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			http.Error(w, "missing auth", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":0,"model":"gpt-test",
"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"pong"}}]}`))
	}))
	t.Cleanup(srv.Close)

	root, _ := testRoot(t)
	var out bytes.Buffer
	args := []string{"-provider", "openai", "-model", "gpt-test", "-base-url", srv.URL, "-token", "test-key", "-timeout", "5"}
	if err := runPing(root, args, &out); err != nil {
		t.Fatalf("runPing: %v", err)
	}
	if strings.TrimSpace(out.String()) != "ok: pong" {
		t.Fatalf("ping output = %q", out.String())
	}
}

func TestRunPingMissingToken(t *testing.T) {
	silenceRootLogger(t)
	root, _ := testRoot(t)
	err := runPing(root, []string{"-provider", "anthropic"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "missing token") {
		t.Fatalf("runPing error = %v", err)
	}
}

func TestRunPingUnreachable(t *testing.T) {
	silenceRootLogger(t)
	root, _ := testRoot(t)
	err := runPing(root, []string{"-provider", "openai", "-token", "k", "-base-url", "ftp://example.invalid"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "unsupported base url scheme") {
		t.Fatalf("runPing error = %v", err)
	}
}
