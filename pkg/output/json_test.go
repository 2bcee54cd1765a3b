package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ccollicutt/wotlog/pkg/parser"
)

func TestNewJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewJSONFormatter() returned nil")
	}
	if f.Name() != "json" {
		t.Errorf("Name() = %q, want %q", f.Name(), "json")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	report := createTestReport(t)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	for _, key := range []string{"source", "result", "message", "metadata", "analyzedAt"} {
		if _, ok := parsed[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if parsed["message"] != nil {
		t.Errorf("message = %v, want null", parsed["message"])
	}
}

func TestJSONFormatter_Format_Quiet(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{Quiet: true})
	report := createTestReport(t)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	for _, key := range []string{"detectedColumns", "boostInterpretation", "full", "highLoad", "rows", "highLoadRows", "sample"} {
		if _, ok := parsed[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if _, ok := parsed["analyzedAt"]; ok {
		t.Error("quiet output includes analyzedAt")
	}

	var cols map[string]*string
	if err := json.Unmarshal(parsed["detectedColumns"], &cols); err != nil {
		t.Fatal(err)
	}
	if cols["throttle"] != nil {
		t.Errorf("throttle = %q, want null", *cols["throttle"])
	}
	if _, ok := cols["ignition"]; !ok {
		t.Error("unresolved channel key omitted, want null")
	}

	var boost BoostInterpretation
	if err := json.Unmarshal(parsed["boostInterpretation"], &boost); err != nil {
		t.Fatal(err)
	}
	if boost.Unit == nil || *boost.Unit != "kpa" {
		t.Errorf("unit = %v, want kpa", boost.Unit)
	}
}

func TestJSONFormatter_Quiet_Idempotent(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{Quiet: true})

	var first, second bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(t), &first); err != nil {
		t.Fatal(err)
	}
	if err := f.Format(context.Background(), createTestReport(t), &second); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Errorf("reruns differ:\n%s\n---\n%s", first.String(), second.String())
	}
}

func TestJSONFormatter_Failure(t *testing.T) {
	report, err := NewFailureReport("one-column.csv", "", parser.ErrHeaderNotFound)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := NewJSONFormatter(FormatOptions{}).Format(context.Background(), report, &buf); err != nil {
		t.Fatal(err)
	}
	var parsed Report
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if parsed.Result != nil {
		t.Error("result != null on failure")
	}
	if parsed.Message == nil || *parsed.Message != Advisory {
		t.Errorf("message = %v, want advisory", parsed.Message)
	}

	buf.Reset()
	if err := NewJSONFormatter(FormatOptions{Quiet: true}).Format(context.Background(), report, &buf); err != nil {
		t.Fatal(err)
	}
	var msg string
	if err := json.Unmarshal(buf.Bytes(), &msg); err != nil {
		t.Fatalf("quiet failure output is not a JSON string: %v", err)
	}
	if !strings.Contains(msg, "Kopfzeile") || !strings.Contains(msg, "header row") {
		t.Errorf("advisory is not bilingual: %q", msg)
	}
}
