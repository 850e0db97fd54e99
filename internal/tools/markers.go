package tools

import (
	"strings"
)

// scanBlock locates the first <name>...</name> span in text. The first opening
// tag pairs with the first closing tag after it; same-name nesting is not
// supported. start is the offset of the opening tag.
func scanBlock(text, name string) (inner string, start int, ok bool) {
	if name == "" {
		return "", -1, false
	}
	open := "<" + name + ">"
	closing := "</" + name + ">"

	start = strings.Index(text, open)
	if start < 0 {
		return "", -1, false
	}
	body := start + len(open)
	end := strings.Index(text[body:], closing)
	if end < 0 {
		return "", -1, false
	}
	return text[body : body+end], start, true
}

// scanParams walks the inner span of a tool block and collects every
// <key>value</key> pair. A parameter tag that never closes fails the whole
// scan: callers never see a partially populated map.
func scanParams(inner string) (map[string]string, []string, bool) {
	params := make(map[string]string)
	var keys []string

	pos := 0
	for pos < len(inner) {
		lt := strings.IndexByte(inner[pos:], '<')
		if lt < 0 {
			break
		}
		lt += pos
		key, tagEnd, isTag := readOpenTag(inner, lt)
		if !isTag {
			pos = lt + 1
			continue
		}
		closing := "</" + key + ">"
		end := strings.Index(inner[tagEnd:], closing)
		if end < 0 {
			return nil, nil, false
		}
		value := strings.TrimSpace(inner[tagEnd : tagEnd+end])
		if _, seen := params[key]; !seen {
			params[key] = value
			keys = append(keys, key)
		}
		pos = tagEnd + end + len(closing)
	}
	return params, keys, true
}

// readOpenTag reports whether text[at:] starts with <identifier>, returning
// the identifier and the offset just past '>'.
func readOpenTag(text string, at int) (string, int, bool) {
	i := at + 1
	for i < len(text) && isTagNameByte(text[i]) {
		i++
	}
	if i == at+1 || i >= len(text) || text[i] != '>' {
		return "", 0, false
	}
	return text[at+1 : i], i + 1, true
}

func isTagNameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-':
		return true
	}
	return false
}
