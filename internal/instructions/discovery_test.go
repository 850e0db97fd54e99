package instructions

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverOrderAndFallback(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	root := t.TempDir()
	sub := filepath.Join(root, "svc")
	if err := os.MkdirAll(filepath.Join(home, ".manta"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	write := func(path, text string) {
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	write(filepath.Join(home, ".manta", ProjectDocFilename), "global")
	write(filepath.Join(root, FallbackDocFilename), "root agents")
	write(filepath.Join(sub, ProjectDocFilename), "svc manta")
	write(filepath.Join(sub, FallbackDocFilename), "svc agents ignored")

	got := discover(home, sub)
	want := "global\n\nroot agents\n\nsvc manta"
	if got != want {
		t.Fatalf("discover = %q, want %q", got, want)
	}
}

func TestDiscoverNothing(t *testing.T) {
	t.Parallel()
	if got := discover(t.TempDir(), t.TempDir()); got != "" {
		t.Fatalf("discover = %q, want empty", got)
	}
}
