package output

import (
	"context"
	"testing"

	"github.com/ccollicutt/wotlog/pkg/analyzer"
	"github.com/ccollicutt/wotlog/pkg/config"
)

const exampleLog = "Time,RPM,Pedal,Boost(kPa)\n0,800,10,101.3\n1,6000,95,210.0\n"

func analyzeLog(t *testing.T, data string) *analyzer.Analysis {
	t.Helper()
	a, err := analyzer.New(config.DefaultConfig())
	if err != nil {
		t.Fatalf("analyzer.New() error = %v", err)
	}
	result, err := a.Analyze(context.Background(), analyzer.RawLog{Data: []byte(data), Note: "2nd gear"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return result
}

func createTestReport(t *testing.T) *Report {
	t.Helper()
	return NewReport("pull.csv", analyzeLog(t, exampleLog), BuildOptions{SampleCap: 10, Precision: 3})
}
