package search

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func TestFindFilesSkipsIgnored(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, "a.txt", "src/b.go", ".git/HEAD", "node_modules/x/index.js")

	got, err := FindFiles(root, 0)
	if err != nil {
		t.Fatalf("FindFiles: %v", err)
	}
	want := []string{"a.txt", "src/", "src/b.go"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestFindFilesLimit(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, "1", "2", "3", "4")

	got, err := FindFiles(root, 2)
	if err != nil {
		t.Fatalf("FindFiles: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %v", got)
	}
}

func TestListDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeTree(t, root, "z.txt", "lib/a.go", ".git/HEAD")

	got, err := ListDir(root)
	if err != nil {
		t.Fatalf("ListDir: %v", err)
	}
	want := []string{"lib/", "z.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestListDirMissing(t *testing.T) {
	t.Parallel()
	if _, err := ListDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
