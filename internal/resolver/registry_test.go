package resolver

import (
	"testing"

	"github.com/dxworks/honeydew/pkg/models"
)

func TestEntityRegistry_ResolveOrder(t *testing.T) {
	lib := &models.Project{Name: "Lib"}
	app := &models.Project{Name: "App", ProjectReferences: []*models.Project{lib}}
	other := &models.Project{Name: "Other"}

	inLib := &models.Class{EntityBase: models.EntityBase{Name: "N.Thing"}}
	inApp := &models.Class{EntityBase: models.EntityBase{Name: "N.Thing"}}
	inOther := &models.Class{EntityBase: models.EntityBase{Name: "N.Only"}}

	r := NewEntityRegistry()
	r.Register(lib, "N.Thing", 0, inLib)
	r.Register(other, "N.Only", 0, inOther)

	if got := r.Resolve(app, []string{"N.Thing"}, 0); got != inLib {
		t.Errorf("Resolve via reference = %v, want Lib's class", got)
	}
	r.Register(app, "N.Thing", 0, inApp)
	if got := r.Resolve(app, []string{"N.Thing"}, 0); got != inApp {
		t.Errorf("Resolve own project = %v, want App's class", got)
	}
	if got := r.Resolve(app, []string{"N.Only"}, 0); got != nil {
		t.Errorf("Resolve unreferenced project = %v, want nil", got)
	}
	if got := r.Resolve(app, []string{"N.Thing"}, 1); got != nil {
		t.Errorf("Resolve wrong arity = %v, want nil", got)
	}
}

func TestEntityRegistry_GenericKey(t *testing.T) {
	p := &models.Project{}
	repo := &models.Class{EntityBase: models.EntityBase{Name: "N.Repo<T>"}}
	r := NewEntityRegistry()
	r.Register(p, "N.Repo<T>", 1, repo)

	if got := r.Lookup(p, "N.Repo", 1); got != repo {
		t.Errorf("Lookup(N.Repo, 1) = %v, want N.Repo<T>", got)
	}
	if got := r.Lookup(p, "N.Repo<int>", 1); got != repo {
		t.Errorf("Lookup(N.Repo<int>, 1) = %v, want N.Repo<T>", got)
	}
}

func TestEntityRegistry_Synthesize(t *testing.T) {
	r := NewEntityRegistry()

	a := r.Synthesize("Dictionary", 2, false)
	b := r.Synthesize("Dictionary", 2, false)
	if a != b {
		t.Error("Synthesize did not memoize")
	}
	c := a.(*models.Class)
	if !c.IsExternal || c.IsPrimitive || c.IsInternal {
		t.Errorf("flags: external=%v primitive=%v internal=%v", c.IsExternal, c.IsPrimitive, c.IsInternal)
	}
	if len(c.GenericParameters) != 2 || c.GenericParameters[1].Name != "T1" {
		t.Errorf("generic params = %v", c.GenericParameters)
	}

	prim := r.Synthesize("int", 0, true).(*models.Class)
	if !prim.IsPrimitive || prim.IsExternal {
		t.Errorf("int flags: primitive=%v external=%v", prim.IsPrimitive, prim.IsExternal)
	}

	created := r.Created()
	if len(created) != 2 || created[0] != a || created[1] != prim {
		t.Errorf("Created() = %v", created)
	}
	if got := r.Resolve(&models.Project{}, []string{"Dictionary"}, 2); got != a {
		t.Errorf("global tier = %v, want stand-in", got)
	}
}
