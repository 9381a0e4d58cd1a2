package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/weni-ai/conversation-analyzer/pkg/pipeline"
)

// WriteRunSummary renders the end-of-run accounting table. Processed
// and skipped counts sit side by side so dropped work is never silent.
func WriteRunSummary(w io.Writer, sum *pipeline.Summary) {
	fmt.Fprintf(w, "\nRUN SUMMARY:\n")

	table := newConsoleTable(w, []string{"Stage", "Processed", "Skipped"})
	_ = table.Append(summaryRow("Conversations", sum.ConversationsProcessed, sum.ConversationsSkipped))
	_ = table.Append(summaryRow("Agent messages", sum.AgentMessagesProcessed, sum.AgentMessagesSkipped))
	_ = table.Append(summaryRow("Trace records", sum.TraceRecordsClassified, sum.TraceRecordsSkipped))
	_ = table.Render()
}

func summaryRow(stage string, processed, skipped int) []string {
	return []string{
		stage,
		humanize.Comma(int64(processed)),
		humanize.Comma(int64(skipped)),
	}
}

// newConsoleTable builds a table writer with the formatting shared by
// all console tables.
func newConsoleTable(w io.Writer, headers []string) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
