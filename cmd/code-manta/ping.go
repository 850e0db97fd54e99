package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"code-manta/internal/agent"
)

func pingMain(root rootArgs, args []string) {
	if err := runPing(root, args, os.Stdout); err != nil {
		log.Fatalf("ping failed: %v", err)
	}
}

// runPing 检查模型端点可达，并发送一次最小补全请求。
func runPing(root rootArgs, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ping", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var providerOverride, modelOverride, baseURLOverride, tokenOverride string
	var timeoutSeconds int
	fs.StringVar(&providerOverride, "provider", "", "Provider name (openai|anthropic|echo)")
	fs.StringVar(&modelOverride, "model", "", "Model name (default from config)")
	fs.StringVar(&baseURLOverride, "base-url", "", "Override base URL (trailing /v1 is ok)")
	fs.StringVar(&tokenOverride, "token", "", "Override API token (prefer config.toml)")
	fs.IntVar(&timeoutSeconds, "timeout", 30, "Timeout seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rt, err := loadRuntime(root, nil)
	if err != nil {
		return err
	}
	m := rt.cfg.Model
	if v := strings.TrimSpace(providerOverride); v != "" {
		m.Provider = v
	}
	if v := strings.TrimSpace(modelOverride); v != "" {
		m.Name = v
	}
	if v := strings.TrimSpace(baseURLOverride); v != "" {
		m.URL = v
	}
	if v := strings.TrimSpace(tokenOverride); v != "" {
		m.Token = v
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	if err := agent.CheckEndpointReachable(ctx, m.URL); err != nil {
		return err
	}
	client, err := buildModelClient(m)
	if err != nil {
		if errors.Is(err, errNoCredentials) {
			return fmt.Errorf("missing token for provider %q: set it in ~/.manta/config.toml or the provider env var", m.Provider)
		}
		return err
	}
	got, err := client.Complete(ctx, []agent.Message{
		{Role: agent.RoleSystem, Content: "Reply with exactly: pong"},
		{Role: agent.RoleUser, Content: "ping"},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "ok: %s\n", strings.TrimSpace(got))
	return nil
}
