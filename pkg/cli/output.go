package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	// FormatYAML outputs as YAML (default for terminal)
	FormatYAML OutputFormat = "yaml"
	// FormatJSON outputs as JSON
	FormatJSON OutputFormat = "json"
	// FormatTable outputs results implementing Tabler as a bordered table
	FormatTable OutputFormat = "table"
	// FormatRaw writes bytes and strings as is, anything else as YAML
	FormatRaw OutputFormat = "raw"
)

// SelectFormat picks the format for the --json and --table flags. JSON wins
// when both are set.
func SelectFormat(asJSON, asTable bool) OutputFormat {
	switch {
	case asJSON:
		return FormatJSON
	case asTable:
		return FormatTable
	default:
		return FormatYAML
	}
}

// Tabler is implemented by results that can render as a table.
type Tabler interface {
	Table() (headers []string, rows [][]string)
}

// OutputOptions configures output behavior
type OutputOptions struct {
	// Format is the output format (yaml, json, table, raw)
	Format OutputFormat

	// File is the output file path (empty for stdout)
	File string

	// Indent is the indentation for JSON output
	Indent string

	// Writer is an optional custom writer (overrides File)
	Writer io.Writer
}

type formatter func(w io.Writer, result any, opts OutputOptions) error

var formatters = map[OutputFormat]formatter{
	"":          writeYAML,
	FormatYAML:  writeYAML,
	FormatJSON:  writeJSON,
	FormatTable: writeTable,
	FormatRaw:   writeRaw,
}

// Output writes the result in the requested format to opts.Writer, opts.File
// or stdout, in that order of preference.
func Output(result any, opts OutputOptions) error {
	format, ok := formatters[opts.Format]
	if !ok {
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}

	w := opts.Writer
	if w == nil && opts.File != "" {
		f, err := os.Create(opts.File)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if w == nil {
		w = os.Stdout
	}
	return format(w, result, opts)
}

func writeJSON(w io.Writer, result any, opts OutputOptions) error {
	indent := opts.Indent
	if indent == "" {
		indent = "  "
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", indent)
	return enc.Encode(result)
}

func writeYAML(w io.Writer, result any, _ OutputOptions) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func writeTable(w io.Writer, result any, _ OutputOptions) error {
	tb, ok := result.(Tabler)
	if !ok {
		return fmt.Errorf("result of type %T cannot be shown as a table", result)
	}
	headers, rows := tb.Table()
	styles := NewStyles(DefaultTheme)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.Border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.Label.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func writeRaw(w io.Writer, result any, opts OutputOptions) error {
	switch v := result.(type) {
	case []byte:
		_, err := w.Write(v)
		return err
	case string:
		_, err := io.WriteString(w, v)
		return err
	default:
		return writeYAML(w, result, opts)
	}
}

// Status lines. Success, info and warning go to stdout next to command
// output; errors and verbose traces go to stderr.

var statusStyles = struct {
	ok, info, warn, err lipgloss.Style
}{
	ok:   lipgloss.NewStyle().Foreground(DefaultTheme.Primary),
	info: lipgloss.NewStyle().Foreground(DefaultTheme.Dim),
	warn: lipgloss.NewStyle().Foreground(DefaultTheme.Warn),
	err:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f5f")),
}

// PrintSuccess prints a success message with checkmark
func PrintSuccess(format string, args ...any) {
	fmt.Println(statusStyles.ok.Render("✓") + " " + fmt.Sprintf(format, args...))
}

// PrintError prints an error message to stderr
func PrintError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, statusStyles.err.Render("Error:")+" "+fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...any) {
	fmt.Println(statusStyles.info.Render("ℹ " + fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...any) {
	fmt.Println(statusStyles.warn.Render("⚠") + " " + fmt.Sprintf(format, args...))
}

// PrintVerbose prints verbose output to stderr
func PrintVerbose(verbose bool, format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}
