package main

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"code-manta/internal/conversation"
	"code-manta/internal/history"
	"code-manta/internal/session"
)

func TestRunChatEchoToolRoundTrip(t *testing.T) {
	root, dir := testRoot(t)
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	// echo 模式会把用户输入原样回显，因此输入一个工具调用即可驱动一次工具执行。
	in := strings.NewReader("<list_files><path>.</path></list_files>\n")
	var out bytes.Buffer
	if err := runChat(context.Background(), root, nil, in, &out); err != nil {
		t.Fatalf("runChat: %v\n%s", err, out.String())
	}
	got := out.String()
	for _, want := range []string{"list_files", "README", "To continue this session"} {
		if !strings.Contains(got, want) {
			t.Fatalf("chat output missing %q:\n%s", want, got)
		}
	}

	home := os.Getenv("HOME")
	store := &session.Store{Dir: filepath.Join(home, ".manta", "sessions")}
	recs, err := store.List("")
	if err != nil || len(recs) != 1 {
		t.Fatalf("sessions = %v, err = %v", recs, err)
	}
	if recs[0].Workdir != dir {
		t.Fatalf("session workdir = %q, want %q", recs[0].Workdir, dir)
	}
	if recs[0].Messages[0].Role != conversation.RoleSystem {
		t.Fatalf("first saved message role = %s", recs[0].Messages[0].Role)
	}

	tasks := &history.Store{Path: filepath.Join(home, ".manta", "history.jsonl")}
	entries, err := tasks.Recent(0)
	if err != nil || len(entries) != 1 {
		t.Fatalf("task log = %v, err = %v", entries, err)
	}
	if entries[0].SessionID != recs[0].ID || entries[0].Outcome != "text" {
		t.Fatalf("task entry = %+v", entries[0])
	}
}

func TestRunChatResumeLast(t *testing.T) {
	root, _ := testRoot(t)
	if err := runChat(context.Background(), root, []string{"first", "task"}, strings.NewReader(""), &bytes.Buffer{}); err != nil {
		t.Fatalf("first chat: %v", err)
	}
	var out bytes.Buffer
	if err := runChat(context.Background(), root, []string{"-last", "second"}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("resumed chat: %v", err)
	}
	if !strings.Contains(out.String(), "resumed session") {
		t.Fatalf("output = %q", out.String())
	}

	store := &session.Store{Dir: filepath.Join(os.Getenv("HOME"), ".manta", "sessions")}
	recs, err := store.List("")
	if err != nil || len(recs) != 1 {
		t.Fatalf("expected the resumed session to be overwritten, got %d records (err %v)", len(recs), err)
	}
	systems := 0
	var users []string
	for _, m := range recs[0].Messages {
		switch m.Role {
		case conversation.RoleSystem:
			systems++
		case conversation.RoleUser:
			users = append(users, m.Content)
		}
	}
	if systems != 1 {
		t.Fatalf("system messages = %d, want 1", systems)
	}
	if len(users) != 2 || users[0] != "first task" || users[1] != "second" {
		t.Fatalf("user messages = %q", users)
	}
	if recs[0].Task != "first task" {
		t.Fatalf("task = %q", recs[0].Task)
	}
}

func TestPromptApprover(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		p := newPromptApprover(bufio.NewReader(strings.NewReader(tc.input)), &out, &sync.Mutex{})
		got, err := p.Approve(context.Background(), "rm -rf build")
		if err != nil {
			t.Fatalf("Approve(%q) error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("Approve(%q) = %v, want %v", tc.input, got, tc.want)
		}
		if !strings.Contains(out.String(), "rm -rf build") {
			t.Fatalf("prompt did not show the command: %q", out.String())
		}
	}
}

func TestSeedHistoryKeepsSystemPinned(t *testing.T) {
	h := conversation.NewHistory(1000, nil)
	seedHistory(h, []conversation.Message{
		{Role: conversation.RoleSystem, Content: "sys"},
		{Role: conversation.RoleUser, Content: "u1"},
		{Role: conversation.RoleAssistant, Content: "a1"},
	})
	ctx := h.Context()
	if len(ctx) != 3 || ctx[0].Role != conversation.RoleSystem || ctx[2].Content != "a1" {
		t.Fatalf("context = %+v", ctx)
	}
}
