package resolver

import (
	"strings"
	"sync"

	"github.com/dxworks/honeydew/pkg/models"
)

// NamespaceSeparator splits a dotted namespace name.
const NamespaceSeparator = "."

// NamespaceTree holds the single repository-wide namespace tree. It is safe
// for concurrent use.
type NamespaceTree struct {
	mu     sync.Mutex
	byName map[string]*models.Namespace
	roots  []*models.Namespace
}

func NewNamespaceTree() *NamespaceTree {
	return &NamespaceTree{byName: make(map[string]*models.Namespace)}
}

// GetOrAdd returns the node for fullName, creating it and every missing
// ancestor. It returns nil for the global namespace ("").
func (t *NamespaceTree) GetOrAdd(fullName string) *models.Namespace {
	var segments []string
	for _, s := range strings.Split(fullName, NamespaceSeparator) {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var parent *models.Namespace
	full := ""
	for i, seg := range segments {
		if i == 0 {
			full = seg
		} else {
			full += NamespaceSeparator + seg
		}
		ns, ok := t.byName[full]
		if !ok {
			ns = &models.Namespace{Name: seg, FullName: full, Parent: parent}
			t.byName[full] = ns
			if parent == nil {
				t.roots = append(t.roots, ns)
			} else {
				parent.ChildNamespaces = append(parent.ChildNamespaces, ns)
			}
		}
		parent = ns
	}
	return parent
}

// Lookup returns the node for fullName without creating it.
func (t *NamespaceTree) Lookup(fullName string) *models.Namespace {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byName[strings.TrimSpace(fullName)]
}

// AddEntity appends e to the entities declared directly in ns.
func (t *NamespaceTree) AddEntity(ns *models.Namespace, e models.Entity) {
	if ns == nil {
		return
	}
	t.mu.Lock()
	ns.Entities = append(ns.Entities, e)
	t.mu.Unlock()
}

// Roots returns the namespaces without a parent, in creation order.
func (t *NamespaceTree) Roots() []*models.Namespace {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*models.Namespace, len(t.roots))
	copy(out, t.roots)
	return out
}

// Walk finds fullName by descending from roots through ChildNamespaces.
func Walk(roots []*models.Namespace, fullName string) *models.Namespace {
	level := roots
	var found *models.Namespace
	for _, seg := range strings.Split(fullName, NamespaceSeparator) {
		found = nil
		for _, ns := range level {
			if ns.Name == seg {
				found = ns
				break
			}
		}
		if found == nil {
			return nil
		}
		level = found.ChildNamespaces
	}
	return found
}
