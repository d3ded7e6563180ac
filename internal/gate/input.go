package gate

import (
	"encoding/json"
	"io"
)

// ToolEvent describes a tool invocation the agent is about to perform.
type ToolEvent struct {
	ToolName  string          `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
	parsed    map[string]interface{}
}

// ParseToolEvent reads a single tool invocation event from a reader.
//
// Parsing is fail-open: malformed JSON, an empty stream, or missing fields
// return nil instead of an error, and a nil event always evaluates to Allow.
// A broken gate must never stall the agent on a benign call.
func ParseToolEvent(reader io.Reader) *ToolEvent {
	var raw struct {
		ToolName  string          `json:"tool_name"`
		ToolInput json.RawMessage `json:"tool_input"`

		// legacy camelCase aliases used by older hook payloads
		AliasToolName  string          `json:"toolName"`
		AliasToolInput json.RawMessage `json:"toolInput"`
	}
	if err := json.NewDecoder(reader).Decode(&raw); err != nil {
		return nil
	}

	event := &ToolEvent{
		ToolName:  raw.ToolName,
		ToolInput: raw.ToolInput,
	}
	if event.ToolName == "" {
		event.ToolName = raw.AliasToolName
	}
	if len(event.ToolInput) == 0 {
		event.ToolInput = raw.AliasToolInput
	}

	if len(event.ToolInput) > 0 {
		var parsed map[string]interface{}
		if err := json.Unmarshal(event.ToolInput, &parsed); err == nil {
			event.parsed = parsed
		}
	}

	return event
}

// GetStringArg retrieves a string argument from the tool input.
// Returns the value and true if found, empty string and false if not found.
func (t *ToolEvent) GetStringArg(name string) (string, bool) {
	if t.parsed == nil {
		return "", false
	}

	value, ok := t.parsed[name]
	if !ok {
		return "", false
	}

	strValue, ok := value.(string)
	if !ok {
		return "", false
	}

	return strValue, true
}
