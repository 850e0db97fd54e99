package tools

import (
	"strings"
	"sync"

	"code-manta/internal/logger"
)

// Registry owns the registered tools and is the dispatch boundary for them.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	r.RegisterMany(tools...)
	return r
}

// Register binds tool by its name. Registering a name that is already bound
// replaces the earlier tool (last registration wins); the replaced tool keeps
// its position in DescribeAll.
func (r *Registry) Register(tool Tool) {
	if tool == nil {
		return
	}
	name := tool.Name()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		logger.Named("tools").Warnf("tool %s registered twice; replacing previous binding", name)
	} else {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool
}

func (r *Registry) RegisterMany(tools ...Tool) {
	for _, t := range tools {
		r.Register(t)
	}
}

func (r *Registry) Tool(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// DescribeAll 按注册顺序拼接所有工具描述，用于构建系统提示词。
func (r *Registry) DescribeAll() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	parts := make([]string, 0, len(r.order))
	for _, name := range r.order {
		desc := strings.TrimSpace(r.tools[name].Description())
		if desc == "" {
			continue
		}
		parts = append(parts, desc)
	}
	return strings.Join(parts, "\n\n")
}

// ParseCall parses model text against the currently registered names.
func (r *Registry) ParseCall(text string) (string, map[string]string, bool) {
	call, ok := NewParser(r.Names()).Parse(text)
	if !ok {
		return "", nil, false
	}
	return call.Name, call.Params, true
}
