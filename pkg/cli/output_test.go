package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type usageRow struct {
	Name string `json:"name" yaml:"name"`
	Used int    `json:"used" yaml:"used"`
}

type usageTable []usageRow

func (u usageTable) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(u))
	for _, r := range u {
		rows = append(rows, []string{r.Name, FormatUsage(r.Used, 100)})
	}
	return []string{"BUFFER", "USAGE"}, rows
}

func TestOutput_JSON(t *testing.T) {
	var buf bytes.Buffer

	err := Output(usageRow{Name: "rx", Used: 42}, OutputOptions{
		Format: FormatJSON,
		Writer: &buf,
	})
	if err != nil {
		t.Fatalf("Output error: %v", err)
	}

	var result usageRow
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if result.Name != "rx" || result.Used != 42 {
		t.Errorf("result = %+v", result)
	}
}

func TestOutput_YAML(t *testing.T) {
	var buf bytes.Buffer

	err := Output(usageRow{Name: "rx", Used: 42}, OutputOptions{
		Format: FormatYAML,
		Writer: &buf,
	})
	if err != nil {
		t.Fatalf("Output error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "name: rx") || !strings.Contains(output, "used: 42") {
		t.Errorf("unexpected YAML output: %s", output)
	}
}

func TestOutput_DefaultFormat(t *testing.T) {
	var buf bytes.Buffer

	// Empty format should default to YAML
	if err := Output(map[string]string{"key": "value"}, OutputOptions{Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}
	if !strings.Contains(buf.String(), "key: value") {
		t.Errorf("Default format should be YAML, got: %s", buf.String())
	}
}

func TestOutput_Table(t *testing.T) {
	var buf bytes.Buffer

	data := usageTable{{Name: "rx", Used: 25}, {Name: "tx", Used: 100}}
	if err := Output(data, OutputOptions{Format: FormatTable, Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"BUFFER", "USAGE", "rx", "25/100 (25%)", "100/100 (100%)"} {
		if !strings.Contains(output, want) {
			t.Errorf("table output missing %q:\n%s", want, output)
		}
	}
}

func TestOutput_TableUnsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := Output(map[string]int{"a": 1}, OutputOptions{Format: FormatTable, Writer: &buf}); err == nil {
		t.Error("Output should fail for a result without Table()")
	}
}

func TestOutput_Raw(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{"bytes", []byte("1234567890"), "1234567890"},
		{"string", "raw string data", "raw string data"},
		{"fallback", map[string]int{"count": 42}, "count: 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Output(tt.data, OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
				t.Fatalf("Output error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestOutput_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer

	err := Output("data", OutputOptions{
		Format: "invalid",
		Writer: &buf,
	})
	if err == nil {
		t.Error("Output should fail for unsupported format")
	}
}

func TestOutput_ToFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "output.json")

	err := Output(map[string]string{"key": "value"}, OutputOptions{
		Format: FormatJSON,
		File:   filePath,
	})
	if err != nil {
		t.Fatalf("Output error: %v", err)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}

	var result map[string]string
	if err := json.Unmarshal(content, &result); err != nil {
		t.Fatalf("Invalid JSON in file: %v", err)
	}
	if result["key"] != "value" {
		t.Errorf("key = %q, want %q", result["key"], "value")
	}
}

func TestOutput_JSONIndent(t *testing.T) {
	var buf bytes.Buffer

	err := Output(map[string]string{"key": "value"}, OutputOptions{
		Format: FormatJSON,
		Writer: &buf,
		Indent: "    ", // 4 spaces
	})
	if err != nil {
		t.Fatalf("Output error: %v", err)
	}
	if !strings.Contains(buf.String(), "    ") {
		t.Errorf("Output should be indented, got: %s", buf.String())
	}
}

func TestSelectFormat(t *testing.T) {
	tests := []struct {
		json, table bool
		want        OutputFormat
	}{
		{false, false, FormatYAML},
		{true, false, FormatJSON},
		{false, true, FormatTable},
		{true, true, FormatJSON},
	}
	for _, tt := range tests {
		if got := SelectFormat(tt.json, tt.table); got != tt.want {
			t.Errorf("SelectFormat(%v, %v) = %q, want %q", tt.json, tt.table, got, tt.want)
		}
	}
}
