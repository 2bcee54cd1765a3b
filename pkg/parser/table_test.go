package parser

import (
	"errors"
	"testing"
)

func parse(t *testing.T, text string) (*Table, error) {
	t.Helper()
	lines := SplitLines(NormalizeText([]byte(text)))
	loc, err := LocateHeader(lines, DefaultScanOptions())
	if err != nil {
		t.Fatalf("LocateHeader() error = %v", err)
	}
	return ParseTable(lines, loc)
}

func TestParseTable_Basic(t *testing.T) {
	table, err := parse(t, "Time,RPM,Pedal,Boost(kPa)\n0,800,10,101.3\n1,3000,95,180\n")
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}

	wantFields := []string{"Time", "RPM", "Pedal", "Boost(kPa)"}
	if len(table.Fields) != len(wantFields) {
		t.Fatalf("Fields = %v, want %v", table.Fields, wantFields)
	}
	for i, f := range wantFields {
		if table.Fields[i] != f {
			t.Errorf("Fields[%d] = %q, want %q", i, table.Fields[i], f)
		}
	}
	if len(table.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(table.Rows))
	}
	if table.Rows[1]["Boost(kPa)"] != "180" {
		t.Errorf("Rows[1][Boost(kPa)] = %q, want 180", table.Rows[1]["Boost(kPa)"])
	}
	if table.Retried {
		t.Error("Retried = true, want false")
	}
	if table.Delimiter != ',' {
		t.Errorf("Delimiter = %q, want ','", table.Delimiter)
	}
}

func TestParseTable_PreambleAndBlankLines(t *testing.T) {
	table, err := parse(t, "Logged 2024-05-01\nCar: Golf\n\nTime;RPM;Boost\n\n0;800;101\n   \n1;900;105\n")
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(table.Rows))
	}
	if table.Rows[0]["RPM"] != "800" || table.Rows[1]["RPM"] != "900" {
		t.Errorf("RPM cells = %q,%q, want 800,900", table.Rows[0]["RPM"], table.Rows[1]["RPM"])
	}
}

func TestParseTable_RaggedRowsRetry(t *testing.T) {
	table, err := parse(t, "Time,RPM,Boost\n0,800,101\n1,900\n")
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if !table.Retried {
		t.Error("Retried = false, want true")
	}
	if len(table.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(table.Rows))
	}
	if _, ok := table.Rows[1]["Boost"]; ok {
		t.Errorf("Rows[1] has Boost cell %q, want absent", table.Rows[1]["Boost"])
	}
}

func TestParseTable_UnitsRow(t *testing.T) {
	table, err := parse(t, "Time;RPM;Boost\ns;1/min;kPa\n0;800;101\n")
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if got := table.Unit("Boost"); got != "kPa" {
		t.Errorf("Unit(Boost) = %q, want kPa", got)
	}
	if got := table.Unit("Missing"); got != "" {
		t.Errorf("Unit(Missing) = %q, want empty", got)
	}
	if len(table.Rows) != 1 {
		t.Errorf("len(Rows) = %d, want 1 (units row removed)", len(table.Rows))
	}
}

func TestParseTable_TextualFirstRowKept(t *testing.T) {
	table, err := parse(t, "Time,RPM,Pedal,Boost\nn/a,n/a,n/a,n/a\n0,800,10,101\n")
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if table.Units != nil {
		t.Errorf("Units = %v, want none", table.Units)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2 (textual row kept as data)", len(table.Rows))
	}
	if table.Rows[0]["RPM"] != "n/a" {
		t.Errorf("Rows[0][RPM] = %q, want n/a", table.Rows[0]["RPM"])
	}
}

func TestParseTable_TrailingFooterDropped(t *testing.T) {
	table, err := parse(t, "Time,RPM,Pedal,Boost\n0,800,10,101\n1,6000,95,210\nEnd of log\n")
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if !table.Retried {
		t.Error("Retried = false, want true")
	}
	if len(table.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(table.Rows))
	}
	if table.SkippedLines != 1 {
		t.Errorf("SkippedLines = %d, want 1", table.SkippedLines)
	}
}

func TestIsUnit(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"s", true},
		{"1/min", true},
		{"%", true},
		{"kPa", true},
		{"[°C]", true},
		{"(psi)", true},
		{"Lambda", true},
		{"n/a", false},
		{"Golf", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsUnit(tt.in); got != tt.want {
			t.Errorf("IsUnit(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTable_DuplicateAndEmptyHeaders(t *testing.T) {
	lines := []string{"RPM,RPM,,Boost", "1,2,3,4"}
	table, err := ParseTable(lines, HeaderLocation{LineIndex: 0, Delimiter: ',', TokenCount: 4})
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}

	want := []string{"RPM", "RPM_1", "column_3", "Boost"}
	for i, f := range want {
		if table.Fields[i] != f {
			t.Errorf("Fields[%d] = %q, want %q", i, table.Fields[i], f)
		}
	}
	if table.Rows[0]["RPM_1"] != "2" {
		t.Errorf("Rows[0][RPM_1] = %q, want 2", table.Rows[0]["RPM_1"])
	}
}

func TestParseTable_HeaderOnly(t *testing.T) {
	lines := []string{"Time,RPM,Boost"}
	_, err := ParseTable(lines, HeaderLocation{LineIndex: 0, Delimiter: ',', TokenCount: 3})
	if !errors.Is(err, ErrNoUsableRows) {
		t.Errorf("ParseTable() error = %v, want ErrNoUsableRows", err)
	}
}

func TestParseTable_OutOfRange(t *testing.T) {
	_, err := ParseTable([]string{"a,b,c"}, HeaderLocation{LineIndex: 5, Delimiter: ','})
	if !errors.Is(err, ErrNoUsableRows) {
		t.Errorf("ParseTable() error = %v, want ErrNoUsableRows", err)
	}
}

func TestParseTable_QuotedFields(t *testing.T) {
	lines := []string{`"Time","Engine Speed, rpm","Boost"`, `0,"800",101`}
	table, err := ParseTable(lines, HeaderLocation{LineIndex: 0, Delimiter: ',', TokenCount: 3})
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if len(table.Fields) != 3 || table.Fields[1] != "Engine Speed, rpm" {
		t.Fatalf("Fields = %v, want quoted comma kept in field name", table.Fields)
	}
	if table.Rows[0]["Engine Speed, rpm"] != "800" {
		t.Errorf("cell = %q, want 800", table.Rows[0]["Engine Speed, rpm"])
	}
}

func TestInferDelimiter(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  rune
	}{
		{
			name:  "semicolon",
			lines: []string{"a;b;c", "1;2;3", "4;5;6"},
			want:  ';',
		},
		{
			name:  "semicolon with decimal commas",
			lines: []string{"Time;RPM;Boost", "0,5;800;1,2", "1,0;900;1,3"},
			want:  ';',
		},
		{
			name:  "tab",
			lines: []string{"a\tb", "1\t2"},
			want:  '\t',
		},
		{
			name:  "no candidate",
			lines: []string{"abc", "def"},
			want:  ',',
		},
		{
			name:  "empty",
			lines: nil,
			want:  ',',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferDelimiter(tt.lines); got != tt.want {
				t.Errorf("InferDelimiter() = %q, want %q", got, tt.want)
			}
		})
	}
}
