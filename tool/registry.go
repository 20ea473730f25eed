package tool

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrDuplicateTool is returned when two tools share an id.
	ErrDuplicateTool = errors.New("tool: duplicate tool id")
	// ErrEmptyToolID is returned for a tool without an id.
	ErrEmptyToolID = errors.New("tool: empty tool id")
)

// Registry maps tool ids to tools. It is built once and never mutated, so it
// is safe for concurrent reads without locking.
type Registry struct {
	tools map[string]Tool
	ids   []string
}

// NewRegistry builds a registry from tools. Ids must be non-empty and unique.
func NewRegistry(tools ...Tool) (*Registry, error) {
	reg := &Registry{tools: make(map[string]Tool, len(tools))}
	for i, t := range tools {
		if t == nil {
			return nil, fmt.Errorf("tool[%d]: %w", i, ErrEmptyToolID)
		}
		id := t.Spec().ID
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("tool[%d]: %w", i, ErrEmptyToolID)
		}
		if _, exists := reg.tools[id]; exists {
			return nil, fmt.Errorf("tool[%d] %q: %w", i, id, ErrDuplicateTool)
		}
		reg.tools[id] = t
		reg.ids = append(reg.ids, id)
	}
	slices.Sort(reg.ids)
	return reg, nil
}

// MustRegistry is NewRegistry for static tool sets; a collision is a
// programming error.
func MustRegistry(tools ...Tool) *Registry {
	reg, err := NewRegistry(tools...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Lookup returns the tool registered under id.
func (r *Registry) Lookup(id string) (Tool, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.tools[id]
	return t, ok
}

// IDs returns registered ids in sorted order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.ids)
}

// Specs returns every tool spec in id order.
func (r *Registry) Specs() []Spec {
	if r == nil {
		return nil
	}
	specs := make([]Spec, 0, len(r.ids))
	for _, id := range r.ids {
		specs = append(specs, r.tools[id].Spec())
	}
	return specs
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.ids)
}
