// Package report renders aggregation results: the statistics text
// block, the tool invocation CSV files, and the console summary table.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/weni-ai/conversation-analyzer/pkg/analytics"
	"github.com/weni-ai/conversation-analyzer/pkg/config"
)

// ParamColumnPrefix is prepended to parameter names in CSV headers.
const ParamColumnPrefix = "param_"

// fixedColumns lead every tool CSV, before the parameter columns.
var fixedColumns = []string{"function_name", "action_group_name", "execution_type"}

// Files lists the report artifacts written for one run.
type Files struct {
	Statistics string
	Combined   string
	PerTool    []string
}

// WriteStatistics renders the invocation statistics block. The same
// block goes to the console and to the statistics file.
func WriteStatistics(w io.Writer, st *analytics.State) error {
	var b strings.Builder
	b.WriteString("CONVERSATION ANALYSIS STATISTICS\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	writeCountSection(&b, "AGENT INVOCATIONS", "agent invocations", st.SortedAgentCounts(), st.TotalAgentInvocations())
	b.WriteString("\n")
	writeCountSection(&b, "TOOL INVOCATIONS", "tool invocations", st.SortedToolCounts(), st.TotalToolInvocations())

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCountSection(b *strings.Builder, title, noun string, counts []analytics.NameCount, total int) {
	b.WriteString(title + ":\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	if len(counts) == 0 {
		fmt.Fprintf(b, "  No %s found\n", noun)
		return
	}
	for _, nc := range counts {
		fmt.Fprintf(b, "  %s: %d\n", nc.Name, nc.Count)
	}
	fmt.Fprintf(b, "\nTotal %s: %d\n", noun, total)
}

// WriteToolCSV writes rows as CSV with the fixed columns first, then
// one param_<name> column per entry in paramCols. Parameters a row
// never saw render as empty cells.
func WriteToolCSV(w io.Writer, rows []analytics.ToolRow, paramCols []string) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(fixedColumns)+len(paramCols))
	header = append(header, fixedColumns...)
	for _, col := range paramCols {
		header = append(header, ParamColumnPrefix+col)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, 0, len(header))
	for _, row := range rows {
		record = record[:0]
		record = append(record, row.FunctionName, row.ActionGroupName, row.ExecutionType)
		for _, col := range paramCols {
			record = append(record, row.Parameters[col])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFiles renders every report artifact into dir. The statistics
// file is always written; the CSV files only when tool rows exist.
// All file names share one timestamp so a run's artifacts sort
// together.
func WriteFiles(dir string, st *analytics.State, now time.Time) (*Files, error) {
	ts := now.Format(config.FileTimestampFormat)
	files := &Files{}

	var buf bytes.Buffer
	if err := WriteStatistics(&buf, st); err != nil {
		return nil, err
	}
	statsPath := filepath.Join(dir, fmt.Sprintf("conversation_statistics_%s.txt", ts))
	if err := os.WriteFile(statsPath, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("failed to write statistics file: %w", err)
	}
	files.Statistics = statsPath

	if len(st.ToolRows) == 0 {
		return files, nil
	}

	cols := st.ParamColumns()

	buf.Reset()
	if err := WriteToolCSV(&buf, st.ToolRows, cols); err != nil {
		return nil, err
	}
	combinedPath := filepath.Join(dir, fmt.Sprintf("tool_invocations_%s.csv", ts))
	if err := os.WriteFile(combinedPath, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("failed to write tool invocations CSV: %w", err)
	}
	files.Combined = combinedPath

	for _, fn := range st.ToolFunctions() {
		buf.Reset()
		if err := WriteToolCSV(&buf, st.RowsFor(fn), cols); err != nil {
			return nil, err
		}
		toolPath := filepath.Join(dir, fmt.Sprintf("tool_%s_%s.csv", sanitizeFilename(fn), ts))
		if err := os.WriteFile(toolPath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("failed to write CSV for tool %s: %w", fn, err)
		}
		files.PerTool = append(files.PerTool, toolPath)
	}

	return files, nil
}

// sanitizeFilename keeps tool-derived file names filesystem safe.
// Anything outside letters, digits, dot, dash and underscore becomes
// an underscore.
func sanitizeFilename(name string) string {
	if name == "" {
		return "unknown"
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
