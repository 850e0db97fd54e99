package main

import (
	"flag"
	"io"
)

type rootArgs struct {
	overrides []string
	cfgPath   string
	workdir   string
}

// parseRootArgs 解析子命令之前的全局参数，遇到第一个非 flag 参数即停止。
func parseRootArgs(args []string) (rootArgs, []string, error) {
	fs := flag.NewFlagSet("code-manta", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var overrides stringSlice
	var root rootArgs
	fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
	fs.StringVar(&root.cfgPath, "config", "", "Path to config file (default ~/.manta/config.toml)")
	fs.StringVar(&root.workdir, "workdir", "", "Working directory for tools (default from config, then cwd)")
	if err := fs.Parse(args); err != nil {
		return rootArgs{}, nil, err
	}
	root.overrides = append([]string{}, overrides...)
	return root, fs.Args(), nil
}

func prependOverrides(root []string, overrides []string) []string {
	merged := append([]string{}, root...)
	return append(merged, overrides...)
}
