package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"code-manta/internal/events"
	"code-manta/internal/logger"
	"code-manta/internal/tools"
)

const usage = `usage: code-manta [-c key=value] [-config path] [-workdir dir] <command> [args]

commands:
  chat [-resume id|-last] [task]   run the agent interactively (default)
  tools                            list registered tools
  parse [file|-]                   extract a tool call from model output
  run [file|-]                     parse and execute a tool call
  patch -path file [-diff file]    apply SEARCH/REPLACE blocks to a file
  ping                             check the configured model endpoint
  sessions [-all]                  list saved sessions
  history [-n N]                   show recent tasks
  login [-provider p] | status     store a token read from stdin
  logout                           clear the stored token`

func main() {
	logger.Configure()
	if logFile, _, err := logger.SetupFile(logger.DefaultLogPath); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		defer logFile.Close()
	}
	if toolsCloser, _, err := tools.SetupToolsLog(tools.DefaultToolsLogPath); err != nil {
		log.Warnf("failed to initialize tools log (%s): %v", tools.DefaultToolsLogPath, err)
	} else if toolsCloser != nil {
		defer toolsCloser.Close()
	}
	if evtCloser := events.SetupEventLog(events.DefaultEventLogPath); evtCloser != nil {
		defer evtCloser.Close()
	}
	if entry, llmCloser, _, err := logger.SetupComponentFile("llm", logger.DefaultLLMLogPath); err != nil {
		log.Warnf("failed to initialize llm log (%s): %v", logger.DefaultLLMLogPath, err)
	} else {
		logger.SetGlobalLLMLogger(logger.NewLLMLogger(entry.Logger))
		defer llmCloser.Close()
	}

	root, rest, err := parseRootArgs(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		fmt.Println(usage)
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, usage)
		log.Fatalf("parse args: %v", err)
	}
	if len(rest) > 0 {
		switch rest[0] {
		case "chat":
			chatMain(root, rest[1:])
			return
		case "tools":
			toolsMain(root, rest[1:])
			return
		case "parse":
			parseMain(root, rest[1:])
			return
		case "run":
			runMain(root, rest[1:])
			return
		case "patch":
			patchMain(root, rest[1:])
			return
		case "ping":
			pingMain(root, rest[1:])
			return
		case "sessions":
			sessionsMain(root, rest[1:])
			return
		case "history":
			historyMain(rest[1:])
			return
		case "login":
			loginMain(root, rest[1:])
			return
		case "logout":
			logoutMain(root)
			return
		case "help":
			fmt.Println(usage)
			return
		}
	}
	chatMain(root, rest)
}
