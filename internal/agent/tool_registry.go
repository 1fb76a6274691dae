package agent

import (
	"fmt"
	"sort"
	"sync"

	"github.com/reactrun/reactor/internal/models"
)

// ToolRegistry holds every Tool an Agent can call, keyed by the
// (toolbox, name) pair models.Tool.QualifiedName identifies — tools are
// grouped into toolboxes, so a bare name is not globally unique.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]models.Tool // QualifiedName -> Tool
}

// NewToolRegistry returns an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]models.Tool)}
}

// Register adds or replaces a tool under its qualified name.
func (r *ToolRegistry) Register(t models.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.QualifiedName()] = t
}

// Unregister removes a tool. Unregistering an unknown qualified name is a
// no-op.
func (r *ToolRegistry) Unregister(qualifiedName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, qualifiedName)
}

// Get looks up a tool by its qualified "toolbox.name" identity.
func (r *ToolRegistry) Get(qualifiedName string) (models.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[qualifiedName]
	return t, ok
}

// List returns every registered tool, ordered by qualified name for
// deterministic prompt rendering.
func (r *ToolRegistry) List() []models.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QualifiedName() < out[j].QualifiedName() })
	return out
}

// ByToolbox groups every registered tool by its ToolboxName, for the
// prompt template's "available tools" section. Toolbox keys and the
// tools within each are both returned in deterministic, sorted order.
func (r *ToolRegistry) ByToolbox() map[string][]models.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	grouped := make(map[string][]models.Tool)
	for _, t := range r.tools {
		box := t.ToolboxName
		if box == "" {
			box = models.DefaultToolboxName
		}
		grouped[box] = append(grouped[box], t)
	}
	for box := range grouped {
		sort.Slice(grouped[box], func(i, j int) bool { return grouped[box][i].Name < grouped[box][j].Name })
	}
	return grouped
}

// ErrToolNotFound is returned when a qualified name has no registered
// tool.
type ErrToolNotFound struct {
	QualifiedName string
}

func (e *ErrToolNotFound) Error() string {
	return fmt.Sprintf("tool not found: %s", e.QualifiedName)
}
