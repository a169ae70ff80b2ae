package adapters

import (
	"fmt"
	"sort"

	"github.com/ppiankov/claimmark/internal/claims"
	"github.com/ppiankov/claimmark/internal/model"
)

// Adapter turns one tool's raw output into claims
type Adapter interface {
	claims.Extractor

	// Tool returns the tool name whose output this adapter reads
	Tool() string
}

// Registry manages tool-output adapters
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates a registry with the built-in adapters
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make(map[string]Adapter),
	}

	// Register built-in adapters
	registry.Register(NewData360Adapter())

	return registry
}

// Register adds an adapter, replacing any adapter for the same tool
func (r *Registry) Register(adapter Adapter) {
	r.adapters[adapter.Tool()] = adapter
}

// RegisterConfig adds a data-point adapter for each configured tool
func (r *Registry) RegisterConfig(cfgs []model.ExtractorConfig) error {
	for i, cfg := range cfgs {
		if cfg.Tool == "" {
			return fmt.Errorf("extractor %d: tool is required", i)
		}
		if cfg.ClaimIDKey == "" || cfg.ValueKey == "" {
			return fmt.Errorf("extractor %s: claim_id_key and value_key are required", cfg.Tool)
		}
		r.Register(NewDataPointAdapter(cfg.Tool, DataPointOptions{
			DataKey:    cfg.DataKey,
			ClaimIDKey: cfg.ClaimIDKey,
			ValueKey:   cfg.ValueKey,
			CountryKey: cfg.CountryKey,
			DateKey:    cfg.DateKey,
		}))
	}
	return nil
}

// Find returns the adapter for tool
func (r *Registry) Find(tool string) (Adapter, bool) {
	a, ok := r.adapters[tool]
	return a, ok
}

// Tools lists registered tool names in order
func (r *Registry) Tools() []string {
	tools := make([]string, 0, len(r.adapters))
	for t := range r.adapters {
		tools = append(tools, t)
	}
	sort.Strings(tools)
	return tools
}

// Install registers every adapter with the store as the extractor for its tool
func (r *Registry) Install(store *claims.Store) int {
	for _, tool := range r.Tools() {
		store.RegisterExtractor(tool, r.adapters[tool])
	}
	return len(r.adapters)
}
