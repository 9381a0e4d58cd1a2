// Package analytics folds classified trace events into the running
// tallies the reports are rendered from. State is threaded explicitly
// through the pipeline; nothing here touches the network or the clock.
package analytics

import (
	"sort"

	"github.com/weni-ai/conversation-analyzer/pkg/trace"
)

// NameCount pairs an agent or tool name with its invocation count.
type NameCount struct {
	Name  string
	Count int
}

// ToolRow is the flattened record of a single tool invocation. Rows
// keep the order invocations were seen in.
type ToolRow struct {
	FunctionName    string
	ActionGroupName string
	ExecutionType   string
	Parameters      map[string]string
}

// State accumulates classified trace events over one run. Every event
// folded in lands in exactly one counter, so the totals always
// reconcile against TotalEvents.
type State struct {
	AgentCounts  map[string]int
	ToolCounts   map[string]int
	ToolRows     []ToolRow
	Unclassified int
	TotalEvents  int

	paramKeys map[string]struct{}
}

// NewState returns an empty aggregation state.
func NewState() *State {
	return &State{
		AgentCounts: make(map[string]int),
		ToolCounts:  make(map[string]int),
		paramKeys:   make(map[string]struct{}),
	}
}

// Fold merges one classified event into the state.
func (s *State) Fold(ev trace.Event) {
	s.TotalEvents++

	switch ev.Kind {
	case trace.KindAgentInvocation:
		s.AgentCounts[ev.AgentName]++
	case trace.KindToolInvocation:
		s.ToolCounts[ev.FunctionName]++
		// Copy the parameters so the row owns its data.
		row := ToolRow{
			FunctionName:    ev.FunctionName,
			ActionGroupName: ev.ActionGroupName,
			ExecutionType:   ev.ExecutionType,
			Parameters:      make(map[string]string, len(ev.Parameters)),
		}
		for k, v := range ev.Parameters {
			row.Parameters[k] = v
			s.paramKeys[k] = struct{}{}
		}
		s.ToolRows = append(s.ToolRows, row)
	default:
		s.Unclassified++
	}
}

// SortedAgentCounts returns agent invocation counts ordered by count
// descending, ties broken by name.
func (s *State) SortedAgentCounts() []NameCount {
	return sortedCounts(s.AgentCounts)
}

// SortedToolCounts returns tool invocation counts ordered by count
// descending, ties broken by name.
func (s *State) SortedToolCounts() []NameCount {
	return sortedCounts(s.ToolCounts)
}

func sortedCounts(counts map[string]int) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ParamColumns returns every parameter name seen across the whole run,
// sorted alphabetically. The full set is only known once every event
// has been folded, which is why rendering waits for the end of the run.
func (s *State) ParamColumns() []string {
	cols := make([]string, 0, len(s.paramKeys))
	for k := range s.paramKeys {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// ToolFunctions returns the distinct tool function names in the order
// they were first seen.
func (s *State) ToolFunctions() []string {
	seen := make(map[string]struct{}, len(s.ToolCounts))
	out := make([]string, 0, len(s.ToolCounts))
	for _, row := range s.ToolRows {
		if _, ok := seen[row.FunctionName]; ok {
			continue
		}
		seen[row.FunctionName] = struct{}{}
		out = append(out, row.FunctionName)
	}
	return out
}

// RowsFor returns the rows for a single tool function, keeping their
// original order.
func (s *State) RowsFor(function string) []ToolRow {
	rows := make([]ToolRow, 0, s.ToolCounts[function])
	for _, row := range s.ToolRows {
		if row.FunctionName == function {
			rows = append(rows, row)
		}
	}
	return rows
}

// TotalAgentInvocations returns the number of agent invocation events
// folded so far.
func (s *State) TotalAgentInvocations() int {
	total := 0
	for _, c := range s.AgentCounts {
		total += c
	}
	return total
}

// TotalToolInvocations returns the number of tool invocation events
// folded so far.
func (s *State) TotalToolInvocations() int {
	total := 0
	for _, c := range s.ToolCounts {
		total += c
	}
	return total
}
