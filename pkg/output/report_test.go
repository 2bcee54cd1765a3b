package output

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/ccollicutt/wotlog/pkg/parser"
)

func TestIsParseFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"header not found", parser.ErrHeaderNotFound, true},
		{"wrapped no rows", fmt.Errorf("parsing table: %w", parser.ErrNoUsableRows), true},
		{"io error", os.ErrNotExist, false},
		{"too large", parser.ErrInputTooLarge, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsParseFailure(tt.err); got != tt.want {
				t.Errorf("IsParseFailure() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewFailureReport(t *testing.T) {
	err := fmt.Errorf("locating header: %w", parser.ErrHeaderNotFound)

	report, ferr := NewFailureReport("export.csv", "note", err)
	if ferr != nil {
		t.Fatalf("NewFailureReport() error = %v", ferr)
	}
	if !report.Failed() {
		t.Error("Failed() = false")
	}
	if report.Message == nil || *report.Message != Advisory {
		t.Errorf("Message = %v, want advisory", report.Message)
	}
	if report.Payload() != Advisory {
		t.Errorf("Payload() = %v, want advisory", report.Payload())
	}
}

func TestNewFailureReport_OtherError(t *testing.T) {
	report, err := NewFailureReport("export.csv", "", os.ErrPermission)
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("error = %v, want os.ErrPermission", err)
	}
	if report != nil {
		t.Error("report != nil for non-parse error")
	}
}

func TestNewReport(t *testing.T) {
	report := createTestReport(t)

	if report.Failed() {
		t.Fatal("Failed() = true")
	}
	if report.Message != nil {
		t.Error("Message set on successful report")
	}
	if report.Note != "2nd gear" {
		t.Errorf("Note = %q", report.Note)
	}
	if report.Metadata == nil || report.Metadata.Delimiter != "," || len(report.Metadata.Fields) != 4 {
		t.Errorf("Metadata = %+v", report.Metadata)
	}
	if report.AnalyzedAt.IsZero() {
		t.Error("AnalyzedAt is zero")
	}
	if len(report.Result.Sample) != 2 {
		t.Errorf("len(Sample) = %d, want 2", len(report.Result.Sample))
	}
}
