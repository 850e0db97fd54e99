package tools

import (
	"fmt"
	"strings"
)

// SEARCH/REPLACE markers. Each must occupy a line of its own.
const (
	SearchMarker    = "<<<<<<< SEARCH"
	SeparatorMarker = "======="
	ReplaceMarker   = ">>>>>>> REPLACE"
)

// EditBlock is one SEARCH/REPLACE pair, in diff order.
type EditBlock struct {
	Search  string
	Replace string
	Index   int
}

// DiffStructureError reports missing or out-of-order markers.
type DiffStructureError struct {
	Line   int
	Reason string
}

func (e *DiffStructureError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed diff at line %d: %s", e.Line, e.Reason)
	}
	return "malformed diff: " + e.Reason
}

type diffState int

const (
	stateOutside diffState = iota
	stateSearch
	stateReplace
)

// ParseEditBlocks splits diff text into ordered edit blocks. Text outside
// blocks is ignored; a diff without any block yields no blocks and no error.
func ParseEditBlocks(diff string) ([]EditBlock, error) {
	lines := strings.Split(diff, "\n")
	var (
		blocks  []EditBlock
		search  []string
		replace []string
		state   = stateOutside
	)
	for i, raw := range lines {
		lineNo := i + 1
		switch strings.TrimSpace(raw) {
		case SearchMarker:
			if state != stateOutside {
				return nil, &DiffStructureError{Line: lineNo, Reason: "SEARCH marker inside an unfinished block"}
			}
			state = stateSearch
			search, replace = nil, nil
			continue
		case SeparatorMarker:
			switch state {
			case stateOutside:
				return nil, &DiffStructureError{Line: lineNo, Reason: "separator without a preceding SEARCH marker"}
			case stateReplace:
				return nil, &DiffStructureError{Line: lineNo, Reason: "duplicate separator in block"}
			}
			state = stateReplace
			continue
		case ReplaceMarker:
			switch state {
			case stateOutside:
				return nil, &DiffStructureError{Line: lineNo, Reason: "REPLACE marker without a preceding SEARCH marker"}
			case stateSearch:
				return nil, &DiffStructureError{Line: lineNo, Reason: "REPLACE marker before separator"}
			}
			blocks = append(blocks, EditBlock{
				Search:  strings.Join(search, "\n"),
				Replace: strings.Join(replace, "\n"),
				Index:   len(blocks),
			})
			state = stateOutside
			continue
		}

		switch state {
		case stateSearch:
			search = append(search, raw)
		case stateReplace:
			replace = append(replace, raw)
		}
	}
	if state != stateOutside {
		return nil, &DiffStructureError{Reason: fmt.Sprintf("block %d is not terminated by a REPLACE marker", len(blocks)+1)}
	}
	return blocks, nil
}

// PatchOutcome is the result of applying edit blocks to a working copy.
type PatchOutcome struct {
	Content string
	Applied []int
	Skipped []int
}

func (o PatchOutcome) Changed(original string) bool {
	return o.Content != original
}

// ApplyEditBlocks applies blocks in order. Each block replaces the first exact
// occurrence of its search text in the current working copy, so later blocks
// see the output of earlier ones. A block whose search text is absent is
// skipped. An empty search text matches only an empty working copy.
func ApplyEditBlocks(content string, blocks []EditBlock) PatchOutcome {
	out := PatchOutcome{Content: content}
	for _, b := range blocks {
		if b.Search == "" {
			if out.Content == "" {
				out.Content = b.Replace
				out.Applied = append(out.Applied, b.Index)
			} else {
				out.Skipped = append(out.Skipped, b.Index)
			}
			continue
		}
		idx := strings.Index(out.Content, b.Search)
		if idx < 0 {
			out.Skipped = append(out.Skipped, b.Index)
			continue
		}
		out.Content = out.Content[:idx] + b.Replace + out.Content[idx+len(b.Search):]
		out.Applied = append(out.Applied, b.Index)
	}
	return out
}

// ApplyDiff parses diff and applies it to content.
func ApplyDiff(content, diff string) (PatchOutcome, error) {
	blocks, err := ParseEditBlocks(diff)
	if err != nil {
		return PatchOutcome{Content: content}, err
	}
	return ApplyEditBlocks(content, blocks), nil
}
