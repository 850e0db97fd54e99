package tools

import (
	"errors"
	"strings"
	"testing"
)

const paragraphs = `First paragraph with some content
that needs to be replaced.

Second paragraph that also
needs modification.

Third paragraph that should
remain unchanged.

Fourth paragraph that needs
to be updated too.`

func TestApplyDiff_MultipleBlocks(t *testing.T) {
	t.Parallel()

	diff := `<<<<<<< SEARCH
First paragraph with some content
that needs to be replaced.
=======
Updated first paragraph
with new content.
>>>>>>> REPLACE

<<<<<<< SEARCH
Second paragraph that also
needs modification.
=======
Modified second paragraph
with different text.
>>>>>>> REPLACE

<<<<<<< SEARCH
Fourth paragraph that needs
to be updated too.
=======
Final paragraph with
completely new content.
>>>>>>> REPLACE`

	want := `Updated first paragraph
with new content.

Modified second paragraph
with different text.

Third paragraph that should
remain unchanged.

Final paragraph with
completely new content.`

	out, err := ApplyDiff(paragraphs, diff)
	if err != nil {
		t.Fatalf("ApplyDiff: %v", err)
	}
	if out.Content != want {
		t.Fatalf("unexpected content:\n%s", out.Content)
	}
	if len(out.Applied) != 3 || len(out.Skipped) != 0 {
		t.Fatalf("applied=%v skipped=%v", out.Applied, out.Skipped)
	}
}

func TestApplyDiff_MissLeavesContentUnchanged(t *testing.T) {
	t.Parallel()

	diff := `<<<<<<< SEARCH
Non-existent content
that isn't in the file
=======
New content that
shouldn't be applied
>>>>>>> REPLACE`

	out, err := ApplyDiff(paragraphs, diff)
	if err != nil {
		t.Fatalf("ApplyDiff: %v", err)
	}
	if out.Content != paragraphs {
		t.Fatalf("content changed on miss:\n%s", out.Content)
	}
	if out.Changed(paragraphs) {
		t.Fatalf("Changed() should be false")
	}
	if len(out.Skipped) != 1 || out.Skipped[0] != 0 {
		t.Fatalf("skipped = %v", out.Skipped)
	}
}

func TestApplyDiff_OrderDependence(t *testing.T) {
	t.Parallel()

	original := "A\nB\nC"
	b1 := EditBlock{Search: "A", Replace: "A\nX", Index: 0}
	b2 := EditBlock{Search: "X\nB", Replace: "Y", Index: 1}

	forward := ApplyEditBlocks(original, []EditBlock{b1, b2})
	if forward.Content != "A\nY\nC" {
		t.Fatalf("forward = %q, want %q", forward.Content, "A\nY\nC")
	}
	if len(forward.Applied) != 2 {
		t.Fatalf("forward applied = %v", forward.Applied)
	}

	reverse := ApplyEditBlocks(original, []EditBlock{b2, b1})
	if reverse.Content != "A\nX\nB\nC" {
		t.Fatalf("reverse = %q, want %q", reverse.Content, "A\nX\nB\nC")
	}
	if len(reverse.Skipped) != 1 || reverse.Skipped[0] != 1 {
		t.Fatalf("reverse skipped = %v", reverse.Skipped)
	}
}

func TestApplyDiff_ReplacesFirstOccurrenceOnly(t *testing.T) {
	t.Parallel()

	diff := "<<<<<<< SEARCH\nfoo\n=======\nbar\n>>>>>>> REPLACE"
	out, err := ApplyDiff("foo foo\nfoo", diff)
	if err != nil {
		t.Fatalf("ApplyDiff: %v", err)
	}
	if out.Content != "bar foo\nfoo" {
		t.Fatalf("content = %q", out.Content)
	}
}

func TestApplyDiff_WhitespaceIsExact(t *testing.T) {
	t.Parallel()

	diff := "<<<<<<< SEARCH\n  indented\n=======\nflat\n>>>>>>> REPLACE"
	out, err := ApplyDiff("    indented", diff)
	if err != nil {
		t.Fatalf("ApplyDiff: %v", err)
	}
	if out.Content != "  flat" {
		t.Fatalf("content = %q", out.Content)
	}

	out, err = ApplyDiff("\tindented", diff)
	if err != nil {
		t.Fatalf("ApplyDiff: %v", err)
	}
	if len(out.Skipped) != 1 {
		t.Fatalf("tab-indented text should not match space-indented search")
	}
}

func TestApplyDiff_EmptyReplaceDeletes(t *testing.T) {
	t.Parallel()

	diff := "<<<<<<< SEARCH\nremove me\n\n=======\n>>>>>>> REPLACE"
	out, err := ApplyDiff("keep\nremove me\n\nkeep too", diff)
	if err != nil {
		t.Fatalf("ApplyDiff: %v", err)
	}
	if out.Content != "keep\n\nkeep too" {
		t.Fatalf("content = %q", out.Content)
	}
}

func TestApplyDiff_EmptySearch(t *testing.T) {
	t.Parallel()

	diff := "<<<<<<< SEARCH\n=======\nfresh\n>>>>>>> REPLACE"
	out, err := ApplyDiff("", diff)
	if err != nil {
		t.Fatalf("ApplyDiff: %v", err)
	}
	if out.Content != "fresh" {
		t.Fatalf("empty file should take the replacement, got %q", out.Content)
	}

	out, err = ApplyDiff("existing", diff)
	if err != nil {
		t.Fatalf("ApplyDiff: %v", err)
	}
	if out.Content != "existing" || len(out.Skipped) != 1 {
		t.Fatalf("empty search on non-empty file must be skipped: %#v", out)
	}
}

func TestParseEditBlocks_NoBlocks(t *testing.T) {
	t.Parallel()

	blocks, err := ParseEditBlocks("just prose, no markers")
	if err != nil {
		t.Fatalf("ParseEditBlocks: %v", err)
	}
	if len(blocks) != 0 {
		t.Fatalf("blocks = %#v", blocks)
	}
}

func TestParseEditBlocks_StructureFaults(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing separator":    "<<<<<<< SEARCH\na\n>>>>>>> REPLACE",
		"missing replace":      "<<<<<<< SEARCH\na\n=======\nb",
		"separator first":      "=======\nb\n>>>>>>> REPLACE",
		"replace first":        ">>>>>>> REPLACE",
		"nested search":        "<<<<<<< SEARCH\na\n<<<<<<< SEARCH\n=======\nb\n>>>>>>> REPLACE",
		"duplicate separator":  "<<<<<<< SEARCH\na\n=======\nb\n=======\nc\n>>>>>>> REPLACE",
		"second block unended": "<<<<<<< SEARCH\na\n=======\nb\n>>>>>>> REPLACE\n\n<<<<<<< SEARCH\nc",
	}
	for name, diff := range cases {
		_, err := ParseEditBlocks(diff)
		var structErr *DiffStructureError
		if !errors.As(err, &structErr) {
			t.Fatalf("%s: expected DiffStructureError, got %v", name, err)
		}
		if !strings.Contains(err.Error(), "malformed diff") {
			t.Fatalf("%s: unexpected message %q", name, err.Error())
		}
	}
}

func TestParseEditBlocks_Indexes(t *testing.T) {
	t.Parallel()

	diff := "<<<<<<< SEARCH\na\n=======\nb\n>>>>>>> REPLACE\n\n<<<<<<< SEARCH\nc\nd\n=======\ne\n>>>>>>> REPLACE\n"
	blocks, err := ParseEditBlocks(diff)
	if err != nil {
		t.Fatalf("ParseEditBlocks: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("len = %d", len(blocks))
	}
	if blocks[1].Index != 1 || blocks[1].Search != "c\nd" || blocks[1].Replace != "e" {
		t.Fatalf("unexpected block: %#v", blocks[1])
	}
}

func TestUnifiedDiff(t *testing.T) {
	t.Parallel()

	if got := UnifiedDiff("a.txt", "same\n", "same\n"); got != "" {
		t.Fatalf("expected empty diff, got %q", got)
	}
	got := UnifiedDiff("a.txt", "one\ntwo\n", "one\nTWO\n")
	for _, want := range []string{"--- a/a.txt", "+++ b/a.txt", "-two", "+TWO"} {
		if !strings.Contains(got, want) {
			t.Fatalf("diff missing %q:\n%s", want, got)
		}
	}
}
