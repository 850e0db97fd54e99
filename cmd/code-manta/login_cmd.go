package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"code-manta/internal/config"
)

func loginMain(root rootArgs, args []string) {
	if err := runLogin(root, args, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("login: %v", err)
	}
}

// runLogin 把 token 写入配置文件。"login status" 只报告是否已配置。
func runLogin(root rootArgs, args []string, in io.Reader, out io.Writer) error {
	if len(args) > 0 && args[0] == "status" {
		cfg, err := config.Load(root.cfgPath)
		if err != nil {
			return err
		}
		if strings.TrimSpace(cfg.Model.Token) == "" {
			fmt.Fprintf(out, "not logged in (provider %s)\n", cfg.Model.Provider)
		} else {
			fmt.Fprintf(out, "token configured for provider %s\n", cfg.Model.Provider)
		}
		return nil
	}

	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var provider string
	fs.StringVar(&provider, "provider", "", "Provider to store the token for (openai|anthropic)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return errors.New("empty token: pipe it in, e.g. `printenv OPENAI_API_KEY | code-manta login`")
	}

	cfg, err := config.Load(root.cfgPath)
	if err != nil {
		return err
	}
	if p := strings.TrimSpace(provider); p != "" {
		cfg.Model.Provider = p
	}
	cfg.Model.Token = token
	if err := config.Save(cfg.Source, cfg); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Fprintln(out, "Token saved.")
	return nil
}

func logoutMain(root rootArgs) {
	if err := runLogout(root, os.Stdout); err != nil {
		log.Fatalf("logout: %v", err)
	}
}

func runLogout(root rootArgs, out io.Writer) error {
	cfg, err := config.Load(root.cfgPath)
	if err != nil {
		return err
	}
	cfg.Model.Token = ""
	if err := config.Save(cfg.Source, cfg); err != nil {
		return fmt.Errorf("clear stored token: %w", err)
	}
	fmt.Fprintln(out, "Logged out and cleared stored token.")
	return nil
}
