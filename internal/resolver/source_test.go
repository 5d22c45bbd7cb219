package resolver

import (
	"testing"

	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/internal/parser/csharp"
	"github.com/dxworks/honeydew/pkg/models"
)

const modelSource = `
namespace Project1.Models {
    public class MyModel {
        public int Value;
    }
}
`

const serviceSource = `
using Project1.Models;

namespace Project1.Services {
    public class CreateService {
        public MyModel Create(int n) {
            var x = Build(n);
            Save(x);
            return x;
        }

        private MyModel Build(int n) {
            var model = new MyModel();
            model.Value = n;
            return model;
        }

        private void Save(MyModel model) { }
    }

    public static class Numbers {
        public static int Twice(this int value, int factor = 2) => value * factor;
    }
}
`

func parseSource(t *testing.T, path, src string) *parser.CompilationUnit {
	t.Helper()
	u, err := csharp.New().Parse(parser.FileInput{Path: path, Content: []byte(src)})
	if err != nil {
		t.Fatalf("Parse(%s): %v", path, err)
	}
	return u
}

func methodNamed(methods []*models.Method, name string) *models.Method {
	for _, m := range methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func TestLink_ParsedServiceCallsEachOther(t *testing.T) {
	build := func() *parser.Repository {
		return &parser.Repository{Projects: []*parser.Project{
			project("Project1", "Project1/Project1.csproj", nil,
				parseSource(t, "Project1/Models/MyModel.cs", modelSource),
				parseSource(t, "Project1/Services/CreateService.cs", serviceSource),
			),
		}}
	}

	linkBoth(t, build, func(t *testing.T, repo *models.Repository) {
		model, ok := findEntity(repo, "Project1.Models.MyModel").(*models.Class)
		if !ok {
			t.Fatal("MyModel not linked as a class")
		}
		service, ok := findEntity(repo, "Project1.Services.CreateService").(*models.Class)
		if !ok {
			t.Fatal("CreateService not linked as a class")
		}
		create := methodNamed(service.Methods, "Create")
		buildM := methodNamed(service.Methods, "Build")
		save := methodNamed(service.Methods, "Save")
		if create == nil || buildM == nil || save == nil {
			t.Fatalf("service methods = %v", service.Methods)
		}

		calls := []struct {
			caller *models.Method
			index  int
			want   *models.Method
		}{
			{create, 0, buildM},
			{create, 1, save},
		}
		for _, tt := range calls {
			if len(tt.caller.OutgoingCalls) <= tt.index {
				t.Errorf("%s calls = %d, want more than %d", tt.caller.Name, len(tt.caller.OutgoingCalls), tt.index)
				continue
			}
			if got := tt.caller.OutgoingCalls[tt.index].Called; got != tt.want {
				t.Errorf("%s call %d resolved to %v, want the declared %s", tt.caller.Name, tt.index, got, tt.want.Name)
			}
		}

		if len(create.LocalVariables) != 1 || create.LocalVariables[0].Type.Name != "MyModel" || create.LocalVariables[0].Type.Entity != model {
			t.Errorf("Create locals = %+v, want x typed as the declared MyModel", create.LocalVariables)
		}
		if got := save.Parameters[0].Type.Entity; got != model {
			t.Errorf("Save parameter entity = %v, want the declared MyModel", got)
		}
		if got := create.ReturnValue.Type.Entity; got != model {
			t.Errorf("Create return entity = %v, want the declared MyModel", got)
		}

		for _, e := range repo.CreatedEntities {
			switch e.Base().Name {
			case "var", "MyModel", "Project1.Models.MyModel", "CreateService", "Project1.Services.CreateService":
				t.Errorf("stand-in created for %q", e.Base().Name)
			}
		}
	})
}

func TestLink_NewOnClassWithoutConstructor(t *testing.T) {
	build := func() *parser.Repository {
		return &parser.Repository{Projects: []*parser.Project{
			project("Project1", "Project1/Project1.csproj", nil,
				parseSource(t, "Project1/Models/MyModel.cs", modelSource),
				parseSource(t, "Project1/Services/CreateService.cs", serviceSource),
			),
		}}
	}

	linkBoth(t, build, func(t *testing.T, repo *models.Repository) {
		model := findEntity(repo, "Project1.Models.MyModel").(*models.Class)
		service := findEntity(repo, "Project1.Services.CreateService").(*models.Class)
		buildM := methodNamed(service.Methods, "Build")

		var ctorCall *models.MethodCall
		for _, c := range buildM.OutgoingCalls {
			if c.Called.Name == "MyModel" {
				ctorCall = c
			}
		}
		if ctorCall == nil {
			t.Fatalf("Build calls = %v, want a MyModel constructor call", buildM.OutgoingCalls)
		}
		ctor := ctorCall.Called
		if ctor.Owner != model || ctor.Type != models.MethodKindConstructor {
			t.Errorf("constructor owner = %v kind = %q, want the declared class and constructor", ctor.Owner, ctor.Type)
		}
		if len(model.Constructors) != 1 || model.Constructors[0] != ctor {
			t.Errorf("MyModel constructors = %v, want the implicit one", model.Constructors)
		}
		if len(ctor.IncomingCalls) != 1 || ctor.IncomingCalls[0] != ctorCall {
			t.Errorf("constructor incoming calls = %v", ctor.IncomingCalls)
		}
		if model.Base().IsExternal {
			t.Error("declared MyModel flagged external")
		}
	})
}

func TestLink_ParsedExtensionMethod(t *testing.T) {
	build := func() *parser.Repository {
		return &parser.Repository{Projects: []*parser.Project{
			project("Project1", "Project1/Project1.csproj", nil,
				parseSource(t, "Project1/Services/CreateService.cs", serviceSource),
			),
		}}
	}

	linkBoth(t, build, func(t *testing.T, repo *models.Repository) {
		numbers := findEntity(repo, "Project1.Services.Numbers").(*models.Class)
		twice := methodNamed(numbers.Methods, "Twice")
		if twice == nil || len(twice.Parameters) != 2 {
			t.Fatalf("Twice = %+v", twice)
		}
		if twice.Type != models.MethodKindExtension {
			t.Errorf("Twice kind = %q, want %q", twice.Type, models.MethodKindExtension)
		}
		if got := twice.Parameters[0].Modifier; got != models.ParamThis {
			t.Errorf("first parameter modifier = %q, want %q", got, models.ParamThis)
		}
		if got := twice.Parameters[1].DefaultValue; got != "2" {
			t.Errorf("factor default = %q, want %q", got, "2")
		}
	})
}
