package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"code-manta/internal/history"
	"code-manta/internal/session"
)

func sessionsMain(root rootArgs, args []string) {
	store, err := session.NewDefault()
	if err != nil {
		log.Fatalf("sessions: %v", err)
	}
	if err := runSessions(root, args, store, os.Stdout); err != nil {
		log.Fatalf("sessions: %v", err)
	}
}

// runSessions 列出保存的会话，默认只显示当前 workdir 的会话。
func runSessions(root rootArgs, args []string, store *session.Store, out io.Writer) error {
	fs := flag.NewFlagSet("sessions", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var all bool
	fs.BoolVar(&all, "all", false, "Show sessions from every workdir")
	if err := fs.Parse(args); err != nil {
		return err
	}
	workdir := ""
	if !all {
		workdir = resolveWorkdir(root.workdir)
	}
	recs, err := store.List(workdir)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(out, "no sessions")
		return nil
	}
	for _, rec := range recs {
		fmt.Fprintf(out, "%s  %s  %s\n",
			rec.ID,
			dimStyle.Render(rec.Updated.Local().Format("2006-01-02 15:04")),
			truncatePreview(firstLine(rec.Task), 1, 60))
	}
	return nil
}

func historyMain(args []string) {
	store, err := history.NewDefault()
	if err != nil {
		log.Fatalf("history: %v", err)
	}
	if err := runHistory(args, store, os.Stdout); err != nil {
		log.Fatalf("history: %v", err)
	}
}

func runHistory(args []string, store *history.Store, out io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var n int
	fs.IntVar(&n, "n", 20, "Number of recent tasks to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	entries, err := store.Recent(n)
	if err != nil {
		return err
	}
	for _, e := range entries {
		outcome := e.Outcome
		if outcome == "" {
			outcome = "-"
		}
		fmt.Fprintf(out, "%s  %-9s  %s\n",
			dimStyle.Render(e.TS.Local().Format("2006-01-02 15:04")),
			outcome,
			truncatePreview(firstLine(e.Task), 1, 80))
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
