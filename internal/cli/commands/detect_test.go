package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/wotlog/pkg/config"
)

const twinBoostLog = "Time,RPM,Pedal,Boost(kPa),Boost Target\n0,800,10,101.3,100\n1,6000,95,210.0,215\n"

func TestRunDetect_Text(t *testing.T) {
	path := writeLog(t, t.TempDir(), "pull.csv", "Exported by LogTool 2.1\n\n"+pullLog)

	out, err := execute(t, NewDetectCommand(quietGlobals()), path)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	for _, want := range []string{
		"File: " + path,
		`Header: line 3, delimiter ",", 4 columns`,
		"Rows: 2",
		"  rpm       RPM (score 100)",
		"  boost     Boost(kPa) (score 60)",
		"  lambda    (not found)",
		"Boost: kpa, absolute",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "candidate") {
		t.Error("candidates listed without --all")
	}
}

func TestRunDetect_All(t *testing.T) {
	path := writeLog(t, t.TempDir(), "pull.csv", twinBoostLog)

	out, err := execute(t, NewDetectCommand(quietGlobals()), "--all", path)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(out, "candidate Boost Target (score 60)") {
		t.Errorf("missing alternative boost column:\n%s", out)
	}
}

func TestRunDetect_JSON(t *testing.T) {
	path := writeLog(t, t.TempDir(), "pull.csv", twinBoostLog)

	out, err := execute(t, NewDetectCommand(quietGlobals()), "-o", "json", "--all", path)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	var result DetectOutput
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if result.Delimiter != "," || result.TokenCount != 5 || result.Rows != 2 {
		t.Errorf("header = %q/%d, rows = %d", result.Delimiter, result.TokenCount, result.Rows)
	}
	if len(result.Channels) != 8 {
		t.Fatalf("got %d channels, want 8", len(result.Channels))
	}

	var boost *ChannelReport
	for i := range result.Channels {
		if result.Channels[i].Channel == "boost" {
			boost = &result.Channels[i]
		}
	}
	if boost == nil || boost.Field == nil || *boost.Field != "Boost(kPa)" {
		t.Fatalf("boost channel = %+v, want Boost(kPa)", boost)
	}
	if len(boost.Candidates) != 2 || boost.Candidates[1].Field != "Boost Target" {
		t.Errorf("boost candidates = %+v", boost.Candidates)
	}
	if result.Boost.Unit == nil || *result.Boost.Unit != "kpa" {
		t.Errorf("boost unit = %v, want kpa", result.Boost.Unit)
	}
}

func TestRunDetect_UnitsRow(t *testing.T) {
	path := writeLog(t, t.TempDir(), "pull.csv", "Time;RPM;Pedal;Boost\ns;1/min;%;psi\n0;800;10;0.5\n1;6000;95;18\n")

	out, err := execute(t, NewDetectCommand(quietGlobals()), path)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(out, "  boost     Boost [psi] (score 100)") {
		t.Errorf("expected boost unit from units row:\n%s", out)
	}
	if !strings.Contains(out, "Boost: psi, gauge") {
		t.Errorf("expected gauge psi:\n%s", out)
	}
}

func TestRunDetect_Advisory(t *testing.T) {
	path := writeLog(t, t.TempDir(), "notes.txt", "not a datalog\n")

	out, err := execute(t, NewDetectCommand(quietGlobals()), path)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}
	if !strings.Contains(out, "Kopfzeile") {
		t.Errorf("expected advisory:\n%s", out)
	}
}

func TestRunDetect_MissingFile(t *testing.T) {
	_, err := execute(t, NewDetectCommand(quietGlobals()), "/nonexistent/pull.csv")
	if err == nil || !strings.Contains(err.Error(), "datalog not found") {
		t.Errorf("Expected not found error, got: %v", err)
	}
}

func TestRunDetect_InvalidOutput(t *testing.T) {
	path := writeLog(t, t.TempDir(), "pull.csv", pullLog)

	if _, err := execute(t, NewDetectCommand(quietGlobals()), "-o", "yaml", path); err == nil {
		t.Error("Expected error for unknown output format")
	}
}

func TestWriteStarterConfig_Success(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "pull.csv", pullLog)
	configPath := filepath.Join(dir, "wotlog.yaml")

	out, err := execute(t, NewDetectCommand(quietGlobals()), "-w", configPath, path)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(out, "Wrote starter config to: "+configPath) {
		t.Errorf("missing write confirmation:\n%s", out)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	if !strings.HasPrefix(string(content), "# wotlog configuration") {
		t.Errorf("missing header comment:\n%s", content)
	}

	cfg, err := config.Load(context.Background(), configPath)
	if err != nil {
		t.Fatalf("starter config does not load: %v", err)
	}
	if got := cfg.Resolver.Synonyms["boost"]; len(got) != 1 || got[0] != "Boost(kPa)" {
		t.Errorf("boost synonyms = %v, want [Boost(kPa)]", got)
	}
	if _, ok := cfg.Resolver.Synonyms["lambda"]; ok {
		t.Error("unresolved channel should not be pinned")
	}
}

func TestWriteStarterConfig_PinnedColumnsScoreExact(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "pull.csv", pullLog)
	configPath := filepath.Join(dir, "wotlog.yaml")

	if _, err := execute(t, NewDetectCommand(quietGlobals()), "-w", configPath, path); err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	g := quietGlobals()
	g.ConfigPath = configPath

	out, err := execute(t, NewDetectCommand(g), path)
	if err != nil {
		t.Fatalf("detect with starter config failed: %v", err)
	}
	if !strings.Contains(out, "  boost     Boost(kPa) (score 100)") {
		t.Errorf("pinned boost column should match exactly:\n%s", out)
	}
}

func TestWriteStarterConfig_NoOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "pull.csv", pullLog)
	configPath := writeLog(t, dir, "existing.yaml", "# existing config\n")

	_, err := execute(t, NewDetectCommand(quietGlobals()), "-w", configPath, path)
	if err == nil {
		t.Fatal("Expected error when file exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected 'already exists' error, got: %v", err)
	}

	content, _ := os.ReadFile(configPath)
	if string(content) != "# existing config\n" {
		t.Error("Existing file was modified")
	}
}
