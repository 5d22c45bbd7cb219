package resolver

import "github.com/dxworks/honeydew/pkg/models"

// Stats counts what a linked repository holds.
type Stats struct {
	Solutions  int `json:"solutions"`
	Projects   int `json:"projects"`
	Files      int `json:"files"`
	Namespaces int `json:"namespaces"`
	Entities   int `json:"entities"`
	Methods    int `json:"methods"`
	Fields     int `json:"fields"`
	Calls      int `json:"calls"`
	Accesses   int `json:"accesses"`
	Created    int `json:"created"`
}

// Summarize walks repo and counts its nodes and edges. Calls and accesses are
// counted once, from the caller side.
func Summarize(repo *models.Repository) Stats {
	var s Stats
	if repo == nil {
		return s
	}
	s.Solutions = len(repo.Solutions)
	s.Projects = len(repo.Projects)
	s.Created = len(repo.CreatedEntities)

	var countNS func([]*models.Namespace)
	countNS = func(list []*models.Namespace) {
		for _, ns := range list {
			s.Namespaces++
			countNS(ns.ChildNamespaces)
		}
	}
	countNS(repo.Namespaces)

	var countMethod func(*models.Method)
	countMethod = func(m *models.Method) {
		s.Methods++
		s.Calls += len(m.OutgoingCalls)
		s.Accesses += len(m.FieldAccesses)
		for _, lf := range m.LocalFunctions {
			countMethod(lf)
		}
	}

	for _, p := range repo.Projects {
		s.Files += len(p.Files)
		for _, f := range p.Files {
			for _, e := range f.Entities {
				s.Entities++
				for _, m := range MethodsOf(e) {
					countMethod(m)
				}
				s.Fields += len(FieldsOf(e))
			}
		}
	}
	return s
}

// MethodsOf lists every top-level callable of e: methods, constructors, the
// destructor and property accessors. Local functions are reached through
// their containing method.
func MethodsOf(e models.Entity) []*models.Method {
	var out []*models.Method
	switch v := e.(type) {
	case *models.Class:
		out = append(out, v.Methods...)
		out = append(out, v.Constructors...)
		if v.Destructor != nil {
			out = append(out, v.Destructor)
		}
		for _, p := range v.Properties {
			out = append(out, p.Accessors...)
		}
	case *models.Interface:
		out = append(out, v.Methods...)
		for _, p := range v.Properties {
			out = append(out, p.Accessors...)
		}
	}
	return out
}

// FieldsOf lists the fields of e followed by the fields embedded in its
// properties.
func FieldsOf(e models.Entity) []*models.Field {
	var out []*models.Field
	switch v := e.(type) {
	case *models.Class:
		out = append(out, v.Fields...)
		for _, p := range v.Properties {
			out = append(out, &p.Field)
		}
	case *models.Interface:
		for _, p := range v.Properties {
			out = append(out, &p.Field)
		}
	}
	return out
}
