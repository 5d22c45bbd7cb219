package resolver

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/pkg/models"
)

// registryKey identifies an entity. A nil scope is the repository-global
// table of synthesized stand-ins.
type registryKey struct {
	scope *models.Project
	name  string
	arity int
}

func keyOf(scope *models.Project, name string, arity int) registryKey {
	return registryKey{scope: scope, name: parser.StripGenericSuffix(strings.TrimSpace(name)), arity: arity}
}

// EntityRegistry memoizes declared entities per project and synthesized
// stand-ins globally. It is safe for concurrent use.
type EntityRegistry struct {
	mu      sync.RWMutex
	entries map[registryKey]models.Entity
	created []models.Entity
}

func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{entries: make(map[registryKey]models.Entity)}
}

// Register stores e under (scope, name, arity), replacing any previous entry.
func (r *EntityRegistry) Register(scope *models.Project, name string, arity int, e models.Entity) {
	r.mu.Lock()
	r.entries[keyOf(scope, name, arity)] = e
	r.mu.Unlock()
}

// Lookup returns the entity registered under exactly (scope, name, arity).
func (r *EntityRegistry) Lookup(scope *models.Project, name string, arity int) models.Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[keyOf(scope, name, arity)]
}

// Resolve looks names up as seen from inside project: first the project's
// own registrations, then each direct project reference in declared order,
// then the global stand-in table. Within a tier the names are tried in order.
func (r *EntityRegistry) Resolve(project *models.Project, names []string, arity int) models.Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tiers := make([]*models.Project, 0, 2+len(refsOf(project)))
	if project != nil {
		tiers = append(tiers, project)
		tiers = append(tiers, project.ProjectReferences...)
	}
	tiers = append(tiers, nil)

	for _, scope := range tiers {
		for _, name := range names {
			if e, ok := r.entries[keyOf(scope, name, arity)]; ok {
				return e
			}
		}
	}
	return nil
}

// Synthesize returns the global stand-in class for (name, arity), creating
// it on first use.
func (r *EntityRegistry) Synthesize(name string, arity int, primitive bool) models.Entity {
	key := keyOf(nil, name, arity)

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok {
		return e
	}

	c := &models.Class{
		EntityBase: models.EntityBase{
			Name:        key.name,
			IsExternal:  !primitive,
			IsPrimitive: primitive,
		},
		ClassType:         models.ClassTypeClass,
		GenericParameters: placeholderGenerics(arity),
	}
	r.entries[key] = c
	r.created = append(r.created, c)
	return c
}

// Created returns every synthesized stand-in in creation order.
func (r *EntityRegistry) Created() []models.Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Entity, len(r.created))
	copy(out, r.created)
	return out
}

func refsOf(p *models.Project) []*models.Project {
	if p == nil {
		return nil
	}
	return p.ProjectReferences
}

// placeholderGenerics returns generic parameters named T0, T1, ...
func placeholderGenerics(n int) []*models.GenericParameter {
	if n <= 0 {
		return nil
	}
	out := make([]*models.GenericParameter, n)
	for i := range out {
		out[i] = &models.GenericParameter{Name: fmt.Sprintf("T%d", i)}
	}
	return out
}
