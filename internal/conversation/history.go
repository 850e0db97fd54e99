package conversation

import (
	"sync"

	"code-manta/internal/logger"
)

// DefaultMaxTokens is the default context budget.
const DefaultMaxTokens = 32000

var historyLog = logger.Named("conversation")

type entry struct {
	msg    Message
	tokens int
}

// History is a bounded conversation buffer. A system message set with
// AddSystemMessage is pinned at index 0 and never evicted; every other
// message is dropped oldest-first once the token budget is exceeded.
type History struct {
	mu        sync.Mutex
	maxTokens int
	tokenizer Tokenizer
	entries   []entry
	hasSystem bool
	total     int
}

func NewHistory(maxTokens int, tokenizer Tokenizer) *History {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if tokenizer == nil {
		tokenizer = ApproxTokenizer{}
	}
	return &History{maxTokens: maxTokens, tokenizer: tokenizer}
}

// AddSystemMessage sets the pinned system message, replacing any earlier one.
func (h *History) AddSystemMessage(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.newEntry(RoleSystem, text)
	if h.hasSystem {
		h.total -= h.entries[0].tokens
		h.entries[0] = e
	} else {
		h.entries = append([]entry{e}, h.entries...)
		h.hasSystem = true
	}
	h.total += e.tokens
	h.evict()
}

func (h *History) AddMessage(role Role, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e := h.newEntry(role, text)
	h.entries = append(h.entries, e)
	h.total += e.tokens
	h.evict()
}

// Context returns a copy of the buffered messages, oldest first.
func (h *History) Context() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Message, 0, len(h.entries))
	for _, e := range h.entries {
		out = append(out, e.msg)
	}
	return out
}

func (h *History) TotalTokens() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *History) MaxTokens() int { return h.maxTokens }

// Clear drops everything except the pinned system message.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.hasSystem {
		h.entries = nil
		h.total = 0
		return
	}
	h.entries = h.entries[:1]
	h.total = h.entries[0].tokens
}

func (h *History) newEntry(role Role, text string) entry {
	return entry{msg: Message{Role: role, Content: text}, tokens: len(h.tokenizer.Encode(text))}
}

// evict 从最早的非 system 消息开始移除，直到预算内或无可移除消息。
func (h *History) evict() {
	for h.total > h.maxTokens {
		idx := h.oldestEvictable()
		if idx < 0 {
			historyLog.Warnf("context over budget: %d > %d tokens with nothing evictable", h.total, h.maxTokens)
			return
		}
		h.total -= h.entries[idx].tokens
		h.entries = append(h.entries[:idx], h.entries[idx+1:]...)
	}
}

func (h *History) oldestEvictable() int {
	start := 0
	if h.hasSystem {
		start = 1
	}
	if start < len(h.entries) {
		return start
	}
	return -1
}
