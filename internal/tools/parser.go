package tools

import "sort"

// Parser extracts a single tool call from model output. Only tags whose name
// is in the allowed set are recognised; every other tag is ignored.
type Parser struct {
	allowed []string
}

func NewParser(allowed []string) *Parser {
	seen := make(map[string]struct{}, len(allowed))
	names := make([]string, 0, len(allowed))
	for _, name := range allowed {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return &Parser{allowed: names}
}

// Parse returns the call whose complete outer block opens earliest in text.
// ok is false when no allowed block exists or the winning block has an
// unclosed parameter tag; callers treat both as plain conversational text.
func (p *Parser) Parse(text string) (ParsedTool, bool) {
	if p == nil || text == "" {
		return ParsedTool{}, false
	}

	bestName := ""
	bestStart := -1
	bestInner := ""
	for _, name := range p.allowed {
		inner, start, ok := scanBlock(text, name)
		if !ok {
			continue
		}
		if bestStart < 0 || start < bestStart {
			bestName, bestStart, bestInner = name, start, inner
		}
	}
	if bestStart < 0 {
		return ParsedTool{}, false
	}

	params, keys, ok := scanParams(bestInner)
	if !ok {
		return ParsedTool{}, false
	}
	return ParsedTool{Name: bestName, Params: params, Keys: keys}, true
}

// Allowed returns the recognised tool names, sorted.
func (p *Parser) Allowed() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.allowed...)
}
