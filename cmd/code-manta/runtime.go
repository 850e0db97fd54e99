package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"code-manta/internal/agent"
	anthropicmodel "code-manta/internal/agent/anthropic"
	openaimodel "code-manta/internal/agent/openai"
	"code-manta/internal/config"
	"code-manta/internal/conversation"
	"code-manta/internal/logger"
	"code-manta/internal/policy"
	"code-manta/internal/sandbox"
	"code-manta/internal/tools"
	"code-manta/internal/tools/handlers"
)

var log = logger.Named("cli")

// runtimeEnv 汇总一次命令执行所需的配置与沙箱。
type runtimeEnv struct {
	cfg     config.Config
	workdir string
	policy  policy.Policy
	runner  sandbox.SafeRunner
}

func loadRuntime(root rootArgs, overrides []string) (runtimeEnv, error) {
	cfg, err := config.Load(root.cfgPath)
	if err != nil {
		return runtimeEnv{}, fmt.Errorf("load config: %w", err)
	}
	cfg = config.ApplyKVOverrides(cfg, prependOverrides(root.overrides, overrides))
	if cfg.LogLevel != "" {
		if err := logger.SetLevel(cfg.LogLevel); err != nil {
			log.Warnf("ignoring log_level %q: %v", cfg.LogLevel, err)
		}
	}

	workdir := root.workdir
	if strings.TrimSpace(workdir) == "" {
		workdir = cfg.Workdir
	}
	workdir = resolveWorkdir(workdir)

	pol := policy.Policy{SandboxMode: cfg.SandboxMode, ApprovalPolicy: cfg.ApprovalPolicy}
	runner := sandbox.NewRunner(sandbox.Options{
		Mode:    cfg.SandboxMode,
		Workdir: workdir,
		Timeout: time.Duration(cfg.CommandTimeoutSeconds) * time.Second,
	})
	return runtimeEnv{cfg: cfg, workdir: workdir, policy: pol, runner: runner}, nil
}

func (rt runtimeEnv) registry(approver tools.Approver) *tools.Registry {
	return tools.NewRegistry(handlers.Default(handlers.Deps{
		Runner:   rt.runner,
		Policy:   rt.policy,
		Approver: approver,
	})...)
}

func (rt runtimeEnv) history() *conversation.History {
	tk, err := conversation.NewTokenizer(rt.cfg.Encoding)
	if err != nil {
		log.Warnf("tokenizer %s unavailable, using byte estimate: %v", rt.cfg.Encoding, err)
	}
	return conversation.NewHistory(rt.cfg.MaxContextTokens, tk)
}

var errNoCredentials = errors.New("no credentials configured")

// buildModelClient 根据 provider 构造模型客户端；没有凭据时返回 errNoCredentials。
func buildModelClient(m config.Model) (agent.ModelClient, error) {
	switch strings.ToLower(strings.TrimSpace(m.Provider)) {
	case config.ProviderEcho:
		return agent.EchoClient{Prefix: "assistant: "}, nil
	case config.ProviderAnthropic:
		if strings.TrimSpace(m.Token) == "" {
			return nil, errNoCredentials
		}
		client, err := anthropicmodel.New(anthropicmodel.Options{
			Token:   m.Token,
			BaseURL: m.URL,
			Model:   m.Name,
		})
		if err != nil {
			return nil, fmt.Errorf("init anthropic client: %w", err)
		}
		return client, nil
	case config.ProviderOpenAI, "":
		if strings.TrimSpace(m.Token) == "" {
			return nil, errNoCredentials
		}
		client, err := openaimodel.New(openaimodel.Options{
			APIKey:  m.Token,
			BaseURL: m.URL,
			Model:   m.Name,
		})
		if err != nil {
			return nil, fmt.Errorf("init openai client: %w", err)
		}
		return client, nil
	}
	return nil, fmt.Errorf("unknown model provider %q", m.Provider)
}

func resolveWorkdir(input string) string {
	if strings.TrimSpace(input) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "."
		}
		return wd
	}
	if filepath.IsAbs(input) {
		return input
	}
	wd, err := os.Getwd()
	if err != nil {
		return input
	}
	return filepath.Join(wd, input)
}
