package resolver

import (
	"encoding/json"

	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/pkg/models"
)

// mergeMetrics copies raw metric values into dst, creating it on first use.
// A later value for the same name wins.
func mergeMetrics(dst *models.Metrics, src []*parser.Metric) {
	for _, m := range src {
		if m == nil || m.Name == "" {
			continue
		}
		if *dst == nil {
			*dst = make(models.Metrics, len(src))
		}
		(*dst)[m.Name] = metricValue(m.Value)
	}
}

// metricValue normalizes decoded numbers: integral values become int and
// the rest float64. Anything else is kept as-is.
func metricValue(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
		return n
	case float32:
		return metricValue(float64(n))
	case int64:
		return int(n)
	case int32:
		return int(n)
	case uint64:
		return int(n)
	}
	return v
}
