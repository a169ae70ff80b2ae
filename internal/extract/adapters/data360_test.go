package adapters

import (
	"testing"

	"github.com/ppiankov/claimmark/internal/claims"
)

const session = `[
  {"role": "user", "parts": [{"type": "text", "text": "GDP of Kenya?"}]},
  {"role": "assistant", "parts": [
    {"type": "tool-data360_get_data", "state": "output-available",
     "output": {"data": [{"claim_id": "a", "OBS_VALUE": 1}]}},
    {"type": "tool-data360_get_data", "state": "input-streaming",
     "output": {"data": [{"claim_id": "skipped", "OBS_VALUE": 0}]}},
    {"type": "data-thinking", "data": {
      "type": "tool-data360_get_data",
      "output": {"data": [{"claim_id": "b", "OBS_VALUE": 2}]}}},
    {"type": "tool-other", "output": {"data": []}},
    {"type": "dynamic-data360_get_data-v2", "state": "output-error",
     "output": {"data": [{"claim_id": "c", "OBS_VALUE": 3}]}},
    {"type": "tool-data360_get_data", "output": {"data": "not a list"}},
    {"type": "tool-data360_get_data", "state": null, "output": {"data": []}},
    "stray"
  ]},
  {"role": "assistant"}
]`

func TestSessionOutputs(t *testing.T) {
	outputs, err := SessionOutputs([]byte(session))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(outputs) != 3 {
		t.Fatalf("Expected 3 outputs, got %d", len(outputs))
	}

	a := NewData360Adapter()
	var ids []string
	for _, out := range outputs {
		entries, err := a.Extract(out)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
	}

	want := []string{"a", "b", "c"}
	if len(ids) != len(want) {
		t.Fatalf("Expected ids %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Expected ids %v, got %v", want, ids)
			break
		}
	}
}

func TestSessionOutputs_Invalid(t *testing.T) {
	if _, err := SessionOutputs([]byte(`{"parts": []}`)); err == nil {
		t.Error("Expected error for non-array transcript")
	}
	if _, err := SessionOutputs([]byte(`[`)); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestIngestSession(t *testing.T) {
	store := claims.NewStore(nil)
	NewRegistry().Install(store)

	n, err := IngestSession(store, []byte(`[]`), []byte(session))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 claims from initial messages, got %d", n)
	}

	store.Clear()
	live := `[{"parts": [{"type": "tool-data360_get_data", "output": {"data": [{"claim_id": "live", "OBS_VALUE": 9}]}}]}]`
	n, err = IngestSession(store, []byte(live), []byte(session))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != 1 || !store.Has("live") || store.Has("a") {
		t.Errorf("Expected only live messages ingested, got n=%d", n)
	}

	n, err = IngestSession(store, nil, nil)
	if err != nil || n != 0 {
		t.Errorf("Expected nothing ingested, got n=%d err=%v", n, err)
	}
}
