package otel

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Point is one metric data point flattened for display.
type Point struct {
	Name      string
	ToolID    string
	ErrorCode string
	// Count is the counter value, or the number of histogram samples.
	Count uint64
	// Sum is the histogram sum; zero for counters.
	Sum float64
}

// Snapshot collects the current metrics as points sorted by name, tool
// and error code.
func (t *Telemetry) Snapshot(ctx context.Context) ([]Point, error) {
	rm, err := t.Collect(ctx)
	if err != nil {
		return nil, err
	}
	return Points(rm), nil
}

// Points flattens the int64 sums and float64 histograms in rm.
func Points(rm metricdata.ResourceMetrics) []Point {
	var points []Point
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					p := newPoint(m.Name, dp.Attributes)
					p.Count = uint64(dp.Value)
					points = append(points, p)
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					p := newPoint(m.Name, dp.Attributes)
					p.Count = dp.Count
					p.Sum = dp.Sum
					points = append(points, p)
				}
			}
		}
	}

	sort.Slice(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.ToolID != b.ToolID {
			return a.ToolID < b.ToolID
		}
		return a.ErrorCode < b.ErrorCode
	})
	return points
}

func newPoint(name string, attrs attribute.Set) Point {
	p := Point{Name: name}
	if v, ok := attrs.Value("tool_id"); ok {
		p.ToolID = v.AsString()
	}
	if v, ok := attrs.Value("error_code"); ok {
		p.ErrorCode = v.AsString()
	}
	return p
}
