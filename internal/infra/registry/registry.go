// Package registry builds the immutable table of tool descriptors.
package registry

import (
	"strings"
	"time"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

// Binding attaches execution behavior to a tool.
type Binding struct {
	Handler   domain.Handler
	Formatter domain.Formatter
}

// Options configures a registry build.
type Options struct {
	Bindings     map[domain.ToolName]Binding
	SearchEngine string
}

// Registry is a read-only, ordered set of descriptors.
type Registry struct {
	order       []domain.ToolName
	descriptors map[domain.ToolName]domain.ToolDescriptor
}

func New(opts Options) *Registry {
	engine := strings.ToLower(strings.TrimSpace(opts.SearchEngine))
	refresh := domain.NewKeywordSet(refreshKeywords...)

	r := &Registry{
		order:       append([]domain.ToolName(nil), domain.ToolOrder...),
		descriptors: make(map[domain.ToolName]domain.ToolDescriptor, len(domain.ToolOrder)),
	}
	for _, name := range domain.ToolOrder {
		table := tables[name]
		desc := domain.ToolDescriptor{
			Name:             name,
			Label:            table.label,
			StrongKeywords:   domain.NewKeywordSet(table.strong...),
			WeakKeywords:     domain.NewKeywordSet(table.weak...),
			StrongWeight:     domain.DefaultStrongWeight,
			WeakWeight:       domain.DefaultWeakWeight,
			MinScore:         domain.DefaultMinScore,
			MinLengthTrigger: table.minLengthTrigger,
			Cooldown:         time.Duration(table.cooldownSeconds) * time.Second,
			RefreshKeywords:  refresh,
			RequiresAPIKey:   table.requiresAPIKey,
			NoDataMessage:    table.noDataMessage,
			CooldownMessage:  table.cooldownMessage,
		}
		if len(table.tokenOverlap) > 0 {
			desc.TokenOverlap = domain.NewKeywordSet(table.tokenOverlap...)
		}
		if name == domain.ToolWebSearch {
			desc.Available = func() bool { return engine == domain.DefaultSearchEngine }
		}
		if binding, ok := opts.Bindings[name]; ok {
			desc.Handler = binding.Handler
			desc.Formatter = binding.Formatter
		}
		r.descriptors[name] = desc
	}
	return r
}

// Lookup returns the descriptor for name.
func (r *Registry) Lookup(name domain.ToolName) (domain.ToolDescriptor, bool) {
	if r == nil {
		return domain.ToolDescriptor{}, false
	}
	desc, ok := r.descriptors[name]
	return desc, ok
}

// Descriptors returns every descriptor in registry order.
func (r *Registry) Descriptors() []domain.ToolDescriptor {
	if r == nil {
		return nil
	}
	out := make([]domain.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.descriptors[name])
	}
	return out
}

// Names returns the registered tool names in order.
func (r *Registry) Names() []domain.ToolName {
	if r == nil {
		return nil
	}
	return append([]domain.ToolName(nil), r.order...)
}
