// Package registry holds the fixed, compile-time-known set of template packs
// and provides read-only lookup over it. A Registry is built once at process
// start and passed explicitly to the validator, resolver and routers; it is
// never mutated afterwards, so concurrent reads need no synchronization.
package registry

import (
	"sort"

	"github.com/OpenVertical/vertical/internal/pack/model"
)

// Registry is a read-only lookup table from pack key to pack content.
type Registry struct {
	packs map[string]*model.TemplatePack
	keys  []string
}

// NewRegistry builds the registry with all shipped packs.
func NewRegistry() *Registry {
	return newRegistryWith(
		padraoPack(),
		juridicoPack(),
		comercioPack(),
	)
}

func newRegistryWith(packs ...*model.TemplatePack) *Registry {
	r := &Registry{packs: make(map[string]*model.TemplatePack, len(packs))}
	for _, p := range packs {
		r.packs[p.Metadata.Key] = p
		r.keys = append(r.keys, p.Metadata.Key)
	}
	sort.Strings(r.keys)
	return r
}

// GetPackByKey returns the pack for the given key. The second return value
// reports whether the key is known; an unknown key is absence, not an error.
func (r *Registry) GetPackByKey(key string) (*model.TemplatePack, bool) {
	p, ok := r.packs[key]
	return p, ok
}

// GetPackKeys returns all registered pack keys in sorted order.
func (r *Registry) GetPackKeys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// GetAllPackSummaries returns lightweight projections of every pack, suitable
// for selection UIs. Summaries carry counts and module lists, never the full
// nested entity arrays.
func (r *Registry) GetAllPackSummaries() []model.PackSummary {
	summaries := make([]model.PackSummary, 0, len(r.keys))
	for _, key := range r.keys {
		p := r.packs[key]
		modules := make([]model.ModuleKey, len(p.Modules))
		copy(modules, p.Modules)
		summaries = append(summaries, model.PackSummary{
			Key:              p.Metadata.Key,
			Name:             p.Metadata.Name,
			Description:      p.Metadata.Description,
			Icon:             p.Metadata.Icon,
			Color:            p.Metadata.Color,
			Version:          p.Metadata.Version,
			ServiceTypeCount: len(p.ServiceTypes),
			WorkflowCount:    len(p.Workflows),
			Modules:          modules,
		})
	}
	return summaries
}
