package metrics

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestNew_FunctionNameDimension(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "brand-search")
	r := New(Namespace)
	if r.dimensions["FunctionName"] != "brand-search" {
		t.Errorf("expected FunctionName dimension brand-search, got %q", r.dimensions["FunctionName"])
	}
}

func TestRecorder_FlushOutput(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	var buf bytes.Buffer

	rec := NewWithWriter(Namespace, &buf)
	rec.Dimension("Operation", "category")
	rec.Metric("LatencyMs", 1234.5, UnitMilliseconds)
	rec.Count("RequestCount")
	rec.Property("statusCode", 200)
	rec.Flush()

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("failed to parse EMF output as JSON: %v\nOutput: %s", err, buf.String())
	}

	awsMap, ok := doc["_aws"].(map[string]any)
	if !ok {
		t.Fatal("missing _aws directive in EMF output")
	}
	if _, ok := awsMap["Timestamp"]; !ok {
		t.Error("missing Timestamp in _aws directive")
	}
	cwArr, ok := awsMap["CloudWatchMetrics"].([]any)
	if !ok || len(cwArr) != 1 {
		t.Fatalf("CloudWatchMetrics should hold one entry, got %v", awsMap["CloudWatchMetrics"])
	}
	cw := cwArr[0].(map[string]any)
	if cw["Namespace"] != Namespace {
		t.Errorf("expected namespace %s, got %v", Namespace, cw["Namespace"])
	}
	defs := cw["Metrics"].([]any)
	if len(defs) != 2 || defs[0].(map[string]any)["Name"] != "LatencyMs" {
		t.Errorf("metric definitions not sorted by name: %v", defs)
	}

	if doc["Operation"] != "category" {
		t.Errorf("expected Operation=category, got %v", doc["Operation"])
	}
	if doc["LatencyMs"] != 1234.5 {
		t.Errorf("expected LatencyMs=1234.5, got %v", doc["LatencyMs"])
	}
	if doc["RequestCount"] != float64(1) {
		t.Errorf("expected RequestCount=1, got %v", doc["RequestCount"])
	}
	if doc["statusCode"] != float64(200) {
		t.Errorf("expected statusCode=200, got %v", doc["statusCode"])
	}
}

func TestRecorder_FlushEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter("Test", &buf).Flush()
	if buf.Len() != 0 {
		t.Errorf("expected no output for empty recorder, got: %s", buf.String())
	}
}

func TestRecorder_Since(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := NewWithWriter("Test", &bytes.Buffer{})
	rec.now = func() time.Time { return start.Add(1500 * time.Millisecond) }
	rec.Since("UpstreamLatencyMs", start)

	if v := rec.values["UpstreamLatencyMs"]; v != 1500 {
		t.Errorf("expected 1500ms, got %v", v)
	}
	if rec.metrics["UpstreamLatencyMs"].Unit != UnitMilliseconds {
		t.Errorf("expected unit Milliseconds, got %s", rec.metrics["UpstreamLatencyMs"].Unit)
	}
}

func TestRecorder_Chaining(t *testing.T) {
	rec := NewWithWriter("Test", &bytes.Buffer{}).
		Dimension("Provider", "runway").
		Metric("Duration", 100, UnitMilliseconds).
		Count("Calls").
		Property("taskId", "xyz")

	if rec.dimensions["Provider"] != "runway" {
		t.Error("chaining Dimension failed")
	}
	if rec.values["Duration"] != 100 {
		t.Error("chaining Metric failed")
	}
	if rec.values["Calls"] != 1 {
		t.Error("chaining Count failed")
	}
	if rec.properties["taskId"] != "xyz" {
		t.Error("chaining Property failed")
	}
}
