package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestInfoWritesJSONFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(zapcore.AddSync(&buf))
	defer SetOutput(zapcore.AddSync(os.Stdout))

	Info("export.completed", map[string]any{"resume_id": "resume_1", "bytes": 42})

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["msg"] != "export.completed" || line["level"] != "info" {
		t.Fatalf("unexpected envelope: %v", line)
	}
	if line["resume_id"] != "resume_1" || line["bytes"] != float64(42) {
		t.Fatalf("unexpected fields: %v", line)
	}
	if _, ok := line["ts"]; !ok {
		t.Fatalf("expected ts field")
	}
}
