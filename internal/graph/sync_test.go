package graph

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/dxworks/honeydew/internal/export"
)

func TestScalarProperties(t *testing.T) {
	got := scalarProperties(map[string]any{
		"signature": "Run(int)",
		"cc":        3,
		"external":  true,
		"labels":    []string{"Red", "Green"},
		"empty":     []string{},
		"metrics":   map[string]any{"weight": 2.5, "nested": map[string]any{"x": 1}},
		"skip":      struct{}{},
	})
	want := map[string]any{
		"signature":     "Run(int)",
		"cc":            3,
		"external":      true,
		"metric_weight": 2.5,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("scalarProperties[%q] = %v, want %v", k, got[k], v)
		}
	}
	if labels, ok := got["labels"].([]string); !ok || len(labels) != 2 {
		t.Errorf("labels = %v", got["labels"])
	}
	for _, k := range []string{"empty", "skip", "metrics"} {
		if _, ok := got[k]; ok {
			t.Errorf("scalarProperties kept %q", k)
		}
	}
}

func TestNodeAndEdgeParams(t *testing.T) {
	repoID := export.RepositoryID("r")
	a, b := uuid.New(), uuid.New()
	nodes := nodeParams(repoID, []*export.Node{{ID: a, Kind: "class", Name: "A", QualifiedName: "N.A"}})
	if nodes[0]["id"] != a.String() || nodes[0]["repositoryId"] != repoID.String() {
		t.Errorf("node params = %v", nodes[0])
	}
	edges := edgeParams(repoID, []*export.Edge{{SourceID: a, TargetID: b, Type: export.EdgeCalls}})
	if edges[0]["edgeType"] != "CALLS" || edges[0]["targetId"] != b.String() {
		t.Errorf("edge params = %v", edges[0])
	}
}

func TestCallQuery(t *testing.T) {
	tests := []struct {
		direction string
		depth     int
		contains  string
		unions    bool
	}{
		{"callers", 2, "*1..2", false},
		{"callees", 0, "*1..3", false},
		{"both", 50, "*1..3", true},
	}
	for _, tt := range tests {
		q := callQuery(tt.direction, tt.depth)
		if !strings.Contains(q, tt.contains) {
			t.Errorf("callQuery(%q, %d) lacks %q:\n%s", tt.direction, tt.depth, tt.contains, q)
		}
		if got := strings.Contains(q, "UNION"); got != tt.unions {
			t.Errorf("callQuery(%q) UNION = %v, want %v", tt.direction, got, tt.unions)
		}
	}
}
