// Package trace classifies raw agent trace records returned by the
// Weni traces API. Trace records are loosely structured JSON whose
// shape varies by invocation type, so classification walks the nested
// objects instead of binding to a fixed schema.
package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Kind identifies which invocation shape a trace record matched.
type Kind int

const (
	// KindUnclassified marks records that decode but match neither
	// invocation shape (model reasoning, observations, and so on).
	KindUnclassified Kind = iota
	// KindAgentInvocation marks a delegation to a collaborator agent.
	KindAgentInvocation
	// KindToolInvocation marks a function call into an action group.
	KindToolInvocation
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindAgentInvocation:
		return "agent_invocation"
	case KindToolInvocation:
		return "tool_invocation"
	default:
		return "unclassified"
	}
}

// Event is the classified form of a single raw trace record. Only the
// fields for the matched Kind are populated.
type Event struct {
	Kind Kind

	// Agent invocation fields.
	AgentName string

	// Tool invocation fields.
	FunctionName    string
	ActionGroupName string
	ExecutionType   string
	Parameters      map[string]string
}

// Classify inspects one raw trace record and extracts the invocation
// it describes, if any. Records that are not JSON objects return an
// error; records that are objects but match neither invocation shape
// come back as KindUnclassified. A record carrying both shapes counts
// as an agent invocation.
func Classify(raw json.RawMessage) (Event, error) {
	var record map[string]interface{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return Event{}, fmt.Errorf("trace record is not an object: %w", err)
	}
	if record == nil {
		return Event{}, errors.New("trace record is null")
	}

	// Invocations live under trace.orchestrationTrace.invocationInput.
	// Lookups on a nil map return the zero value, so a missing or
	// mistyped level just falls through to unclassified.
	trc, _ := record["trace"].(map[string]interface{})
	orch, _ := trc["orchestrationTrace"].(map[string]interface{})
	input, _ := orch["invocationInput"].(map[string]interface{})

	if agent, ok := input["agentCollaboratorInvocationInput"].(map[string]interface{}); ok {
		ev := Event{Kind: KindAgentInvocation, AgentName: "unknown"}
		if name, ok := agent["agentCollaboratorName"].(string); ok {
			ev.AgentName = name
		}
		return ev, nil
	}

	if action, ok := input["actionGroupInvocationInput"].(map[string]interface{}); ok {
		ev := Event{
			Kind:         KindToolInvocation,
			FunctionName: "unknown",
			Parameters:   make(map[string]string),
		}
		if name, ok := action["function"].(string); ok {
			ev.FunctionName = name
		}
		ev.ActionGroupName, _ = action["actionGroupName"].(string)
		ev.ExecutionType, _ = action["executionType"].(string)
		if params, ok := action["parameters"].([]interface{}); ok {
			for _, entry := range params {
				p, ok := entry.(map[string]interface{})
				if !ok {
					continue
				}
				name, _ := p["name"].(string)
				ev.Parameters[name] = paramValue(p["value"])
			}
		}
		return ev, nil
	}

	return Event{Kind: KindUnclassified}, nil
}

// paramValue renders a parameter value the way it should appear in a
// CSV cell. Values are usually strings, but numbers and booleans show
// up in the wild.
func paramValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		// Nested arrays and objects keep their JSON form.
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}
