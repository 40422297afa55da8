package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderIncludesExportSeries(t *testing.T) {
	IncExportStarted()
	IncExportCompleted()
	ObserveExportDurationMs(300)
	ObserveExportBytes(100 << 10)

	out := Render()
	for _, want := range []string{
		"# TYPE export_started_total counter",
		"export_duration_ms_bucket{le=\"500\"}",
		"export_duration_ms_bucket{le=\"+Inf\"}",
		"export_bytes_count",
		"resume_mutations_total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{1, 10})
	h.Observe(0.5)
	h.Observe(5)
	h.Observe(50)

	snap := h.Snapshot()
	if snap.count != 3 || snap.sum != 55.5 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("unexpected bucket counts %v", snap.counts)
	}

	out := renderHistogram(t, snap)
	if !strings.Contains(out, "h_bucket{le=\"10\"} 2") || !strings.Contains(out, "h_bucket{le=\"+Inf\"} 3") {
		t.Fatalf("unexpected cumulative output:\n%s", out)
	}
}

func renderHistogram(t *testing.T, snap histogramSnapshot) string {
	t.Helper()
	var buf bytes.Buffer
	writeHistogram(&buf, "h", "test", snap)
	return buf.String()
}
