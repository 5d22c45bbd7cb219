package resolver

import (
	"encoding/json"
	"testing"

	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/pkg/models"
)

func TestMergeMetrics(t *testing.T) {
	var m models.Metrics
	mergeMetrics(&m, nil)
	if m != nil {
		t.Errorf("empty source allocated metrics: %v", m)
	}

	mergeMetrics(&m, []*parser.Metric{
		{Name: "loc", Value: float64(12)},
		{Name: "ratio", Value: 0.5},
		{Name: "tag", Value: "hot"},
		{Name: "big", Value: json.Number("42")},
		{Name: "", Value: 1},
		nil,
	})
	mergeMetrics(&m, []*parser.Metric{{Name: "loc", Value: 13}})

	tests := []struct {
		name string
		want any
	}{
		{"loc", 13},
		{"ratio", 0.5},
		{"tag", "hot"},
		{"big", 42},
	}
	for _, tt := range tests {
		if got := m[tt.name]; got != tt.want {
			t.Errorf("metrics[%q] = %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
		}
	}
	if len(m) != 4 {
		t.Errorf("len(metrics) = %d, want 4", len(m))
	}
}
