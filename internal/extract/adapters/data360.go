package adapters

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ppiankov/claimmark/internal/claims"
)

// Data360Tool is the tool name of the Data360 get_data call
const Data360Tool = "data360_get_data"

// Data360Options matches the Data360 get_data result shape
var Data360Options = DataPointOptions{
	DataKey:    "data",
	ClaimIDKey: "claim_id",
	ValueKey:   "OBS_VALUE",
	CountryKey: "REF_AREA",
	DateKey:    "TIME_PERIOD",
}

// NewData360Adapter creates the Data360 get_data adapter
func NewData360Adapter() *DataPointAdapter {
	return NewDataPointAdapter(Data360Tool, Data360Options)
}

// SessionOutputs finds Data360 get_data outputs in a chat transcript
func SessionOutputs(messages []byte) ([][]byte, error) {
	return ToolOutputs(messages, Data360Tool)
}

// ToolOutputs scans a JSON array of chat messages for completed outputs of tool.
//
// Each message may carry a "parts" array. A part counts when its type names the
// tool ("tool-<name>" or any type containing the name), its output is an object
// whose "data" is an array, and its state is absent, "output-available" or
// "output-error". Parts wrapped as {"type":"data-thinking","data":{...}} are
// unwrapped first. Outputs are returned in transcript order.
func ToolOutputs(messages []byte, tool string) ([][]byte, error) {
	if !gjson.ValidBytes(messages) {
		return nil, fmt.Errorf("session: invalid JSON")
	}
	doc := gjson.ParseBytes(messages)
	if !doc.IsArray() {
		return nil, fmt.Errorf("session: expected an array of messages")
	}

	var outputs [][]byte
	doc.ForEach(func(_, message gjson.Result) bool {
		message.Get("parts").ForEach(func(_, part gjson.Result) bool {
			if !part.IsObject() {
				return true
			}
			if isToolPart(part, tool) {
				outputs = append(outputs, []byte(part.Get("output").Raw))
				return true
			}
			if part.Get("type").String() == "data-thinking" {
				inner := part.Get("data")
				if inner.IsObject() && isToolPart(inner, tool) {
					outputs = append(outputs, []byte(inner.Get("output").Raw))
				}
			}
			return true
		})
		return true
	})

	return outputs, nil
}

func isToolPart(p gjson.Result, tool string) bool {
	typ := p.Get("type")
	if typ.Type != gjson.String || !strings.Contains(typ.Str, tool) {
		return false
	}

	output := p.Get("output")
	if !output.IsObject() || !output.Get("data").IsArray() {
		return false
	}

	state := p.Get("state")
	if !state.Exists() {
		return true
	}
	return state.Type == gjson.String && (state.Str == "output-available" || state.Str == "output-error")
}

// IngestSession ingests every Data360 output found in messages, falling back
// to initial when messages holds no entries. It returns the number of claims
// registered.
func IngestSession(store *claims.Store, messages, initial []byte) (int, error) {
	src := initial
	if hasMessages(messages) {
		src = messages
	}
	if !hasMessages(src) {
		return 0, nil
	}

	outputs, err := SessionOutputs(src)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, out := range outputs {
		n, err := store.Ingest(Data360Tool, out)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func hasMessages(b []byte) bool {
	r := gjson.ParseBytes(b)
	return r.IsArray() && len(r.Array()) > 0
}
