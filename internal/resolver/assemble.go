package resolver

import (
	"log/slog"
	"strings"

	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/pkg/models"
)

// indexedEntity is a Class or Interface reachable by name from pass 4.
type indexedEntity struct {
	project *models.Project
	entity  models.Entity
}

// assembleProject builds files, entities and namespace membership for one
// project, and merges partial fragments.
func (r *run) assembleProject(ps *projectState) {
	var present []string
	seen := make(map[string]bool)

	for _, unit := range ps.raw.CompilationUnits {
		if unit == nil {
			continue
		}
		fp := &filePair{
			file: &models.File{
				FilePath:    unit.FilePath,
				LinesOfCode: convertLOC(unit.LinesOfCode),
				Project:     ps.project,
			},
			unit: unit,
		}
		ps.files = append(ps.files, fp)
		ps.project.Files = append(ps.project.Files, fp.file)

		for _, decl := range unit.Declarations {
			if decl == nil {
				continue
			}
			e := r.newEntity(ps, decl, fp)
			fp.file.Entities = append(fp.file.Entities, e)
			ps.decls = append(ps.decls, &declPair{entity: e, raw: decl, file: fp})

			if ns := strings.TrimSpace(decl.ContainingNamespace); ns != "" && !seen[ns] {
				seen[ns] = true
				present = append(present, ns)
			}
			r.registerDeclared(ps, decl, e)
		}
	}

	for _, name := range present {
		ns := r.tree.GetOrAdd(name)
		replaced := false
		for i, existing := range ps.project.Namespaces {
			if existing.FullName == ns.FullName {
				ps.project.Namespaces[i] = ns
				replaced = true
				break
			}
		}
		if !replaced {
			ps.project.Namespaces = append(ps.project.Namespaces, ns)
		}
	}
}

func (r *run) newEntity(ps *projectState, decl *parser.Declaration, fp *filePair) models.Entity {
	filePath := decl.FilePath
	if filePath == "" {
		filePath = fp.unit.FilePath
	}
	base := models.EntityBase{
		Name:           decl.Name,
		FilePath:       filePath,
		AccessModifier: decl.AccessModifier,
		Modifier:       decl.Modifier,
		Modifiers:      decl.Modifiers,
		IsInternal:     true,
		LinesOfCode:    convertLOC(decl.LinesOfCode),
		File:           fp.file,
		Namespace:      r.tree.GetOrAdd(decl.ContainingNamespace),
	}
	mergeMetrics(&base.Metrics, decl.Metrics)

	var e models.Entity
	switch ps.adapter.Classify(decl) {
	case parser.KindInterface:
		e = &models.Interface{EntityBase: base}
	case parser.KindEnum:
		e = &models.Enum{EntityBase: base, Type: decl.UnderlyingType}
	case parser.KindDelegate:
		e = &models.Delegate{EntityBase: base}
	default:
		e = &models.Class{EntityBase: base, ClassType: classTypeOf(decl.Type)}
	}
	r.tree.AddEntity(base.Namespace, e)
	return e
}

func classTypeOf(keyword string) models.ClassType {
	switch strings.ToLower(strings.TrimSpace(keyword)) {
	case "struct", "structure", "record struct":
		return models.ClassTypeStruct
	case "record", "record class":
		return models.ClassTypeRecord
	}
	return models.ClassTypeClass
}

// registerDeclared records e in the project scope. A Class or Interface whose
// key is already held by a fragment of the same kind becomes a partial of it
// and the first fragment stays registered. Any other collision overwrites.
func (r *run) registerDeclared(ps *projectState, decl *parser.Declaration, e models.Entity) {
	arity := ps.adapter.GenericArity(decl)
	key := keyOf(ps.project, decl.Name, arity)

	if existing := ps.partials[key]; len(existing) > 0 && mergeable(existing[0], e) {
		for _, other := range existing {
			linkPartials(other, e)
		}
		ps.partials[key] = append(existing, e)
		return
	}
	if existing := ps.partials[key]; len(existing) > 0 {
		r.logger.Debug("declaration replaces previous registration",
			slog.String("project", ps.project.Name),
			slog.String("name", decl.Name),
			slog.String("previous", string(existing[0].Kind())),
			slog.String("kind", string(e.Kind())),
		)
	}
	ps.partials[key] = []models.Entity{e}
	r.entities.Register(ps.project, decl.Name, arity, e)
}

func mergeable(a, b models.Entity) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	return a.Kind() == models.KindClass || a.Kind() == models.KindInterface
}

func linkPartials(a, b models.Entity) {
	switch x := a.(type) {
	case *models.Class:
		y := b.(*models.Class)
		x.Partials = append(x.Partials, y)
		y.Partials = append(y.Partials, x)
	case *models.Interface:
		y := b.(*models.Interface)
		x.Partials = append(x.Partials, y)
		y.Partials = append(y.Partials, x)
	}
}

// connectProjects runs after every project is assembled: it resolves project
// references, wires solutions and builds the name index used by pass 4.
func (r *run) connectProjects() {
	for _, ps := range r.projects {
		for _, ref := range ps.raw.ProjectReferences {
			if target, ok := r.byPath[ref]; ok {
				ps.project.ProjectReferences = append(ps.project.ProjectReferences, target.project)
			} else {
				ps.project.ExternalProjectReferences = append(ps.project.ExternalProjectReferences, ref)
			}
		}
	}

	for _, raw := range r.raw.Solutions {
		if raw == nil {
			continue
		}
		s := &models.Solution{FilePath: raw.FilePath, Repository: r.repo}
		for _, path := range raw.ProjectsPaths {
			ps, ok := r.byPath[path]
			if !ok {
				r.logger.Debug("solution project not found",
					slog.String("solution", raw.FilePath),
					slog.String("project", path),
				)
				continue
			}
			s.Projects = append(s.Projects, ps.project)
			ps.project.Solutions = append(ps.project.Solutions, s)
		}
		r.repo.Solutions = append(r.repo.Solutions, s)
	}

	r.names = make(map[string][]indexedEntity)
	for _, ps := range r.projects {
		for _, d := range ps.decls {
			switch d.entity.(type) {
			case *models.Class, *models.Interface:
				name := parser.StripGenericSuffix(d.entity.Base().Name)
				r.names[name] = append(r.names[name], indexedEntity{project: ps.project, entity: d.entity})
			}
		}
	}

	r.refreshRoots()
}

// candidates returns the classes and interfaces named name, ordered by
// visibility from ps: its own project, its references, then everything else.
// When name is not indexed verbatim, the first qualified form from hints
// that is indexed is used instead.
func (r *run) candidates(ps *projectState, name string, hints []string) []models.Entity {
	var all []indexedEntity
	for _, q := range qualify(parser.StripGenericSuffix(strings.TrimSpace(name)), hints) {
		if all = r.names[q]; len(all) > 0 {
			break
		}
	}
	if len(all) == 0 {
		return nil
	}

	out := make([]models.Entity, 0, len(all))
	taken := make([]bool, len(all))
	take := func(p *models.Project) {
		for i, ie := range all {
			if !taken[i] && ie.project == p {
				taken[i] = true
				out = append(out, ie.entity)
			}
		}
	}
	take(ps.project)
	for _, ref := range ps.project.ProjectReferences {
		take(ref)
	}
	for i, ie := range all {
		if !taken[i] {
			out = append(out, ie.entity)
		}
	}
	return out
}

func convertLOC(l parser.LinesOfCode) models.LinesOfCode {
	return models.LinesOfCode{Source: l.SourceLines, Comment: l.CommentLines, Empty: l.EmptyLines}
}
