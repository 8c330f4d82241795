package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevelFiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})
	l.Info("should not appear")
	l.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Error("Info was logged below the warn threshold")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("Warn was not logged at the warn threshold")
	}
}

func TestParseLevelUnknownDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "not-a-level", Output: &buf})
	l.Debug("debug message")
	l.Info("info message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Error("Debug was logged despite an unrecognized level defaulting to info")
	}
	if !strings.Contains(out, "info message") {
		t.Error("Info was not logged under the default info level")
	}
}

func TestJSONHandlerProducesParseableLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf})
	l.Info("hello")

	var parsed map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &parsed); err != nil {
		t.Fatalf("default (non-pretty) output was not valid JSON: %v\noutput: %s", err, buf.String())
	}
	if parsed["msg"] != "hello" {
		t.Errorf("msg field = %v, want hello", parsed["msg"])
	}
}

func TestPrettyHandlerProducesNonJSONText(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf, Pretty: true})
	l.Info("hello")

	var parsed map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &parsed); err == nil {
		t.Error("Pretty output parsed as JSON; want human-readable text")
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("pretty output missing message: %s", buf.String())
	}
}

func TestWithFieldsAreChainableAndAccumulate(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf})
	l = l.WithRunID("run-1").WithNode("foo").WithForm("full_0_1")
	l.Info("compiled")

	var parsed map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &parsed); err != nil {
		t.Fatalf("output was not valid JSON: %v", err)
	}
	if parsed["run_id"] != "run-1" {
		t.Errorf("run_id = %v, want run-1", parsed["run_id"])
	}
	if parsed["node"] != "foo" {
		t.Errorf("node = %v, want foo", parsed["node"])
	}
	if parsed["form"] != "full_0_1" {
		t.Errorf("form = %v, want full_0_1", parsed["form"])
	}
}

func TestWithDoesNotMutateReceiver(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: "info", Output: &buf})
	derived := base.WithNode("foo")

	base.Info("base message")
	derived.Info("derived message")

	var baseFields, derivedFields map[string]interface{}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	json.Unmarshal([]byte(lines[0]), &baseFields)
	json.Unmarshal([]byte(lines[1]), &derivedFields)

	if _, ok := baseFields["node"]; ok {
		t.Error("base logger's message carries the node field added via WithNode on the derived logger")
	}
	if derivedFields["node"] != "foo" {
		t.Errorf("derived logger's node field = %v, want foo", derivedFields["node"])
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf}).WithNode("stashed")
	ctx := l.WithContext(context.Background())

	got := FromContext(ctx)
	got.Info("from context")

	var parsed map[string]interface{}
	json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &parsed)
	if parsed["node"] != "stashed" {
		t.Errorf("logger retrieved from context lost its node field: %v", parsed)
	}
}

func TestFromContextWithoutAttachedLoggerReturnsDefault(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil {
		t.Fatal("FromContext(background) returned nil")
	}
}
