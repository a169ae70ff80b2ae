// Package claims holds the registry of source-of-truth claims that document
// spans are verified against.
package claims

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/claimmark/internal/model"
	"github.com/ppiankov/claimmark/internal/util"
)

// ErrNoExtractor is returned by Ingest when no extractor is registered for the tool
var ErrNoExtractor = errors.New("no extractor registered for tool")

// Extractor turns one raw tool output into claim entries
type Extractor interface {
	Extract(raw []byte) ([]model.ClaimEntry, error)
}

// ExtractorFunc adapts a function to the Extractor interface
type ExtractorFunc func(raw []byte) ([]model.ClaimEntry, error)

// Extract calls f(raw)
func (f ExtractorFunc) Extract(raw []byte) ([]model.ClaimEntry, error) {
	return f(raw)
}

// Store is a concurrency-safe registry of claims keyed by id.
// Registering an existing id replaces its claim.
type Store struct {
	mu         sync.RWMutex
	claims     map[string]model.Claim
	extractors map[string]Extractor
	subs       map[*Subscription]struct{}
	revision   uint64
	log        logrus.FieldLogger

	fpRevision uint64
	fp         string
}

// NewStore creates an empty store. A nil logger discards output.
func NewStore(log logrus.FieldLogger) *Store {
	return &Store{
		claims:     make(map[string]model.Claim),
		extractors: make(map[string]Extractor),
		subs:       make(map[*Subscription]struct{}),
		log:        util.LoggerOr(log),
	}
}

// Register stores claim under id and notifies subscribers
func (s *Store) Register(id string, claim model.Claim) {
	s.RegisterMany([]model.ClaimEntry{{ID: id, Claim: claim}})
}

// RegisterMany stores every entry and notifies subscribers once.
// An empty list changes nothing and emits no event.
func (s *Store) RegisterMany(entries []model.ClaimEntry) {
	if len(entries) == 0 {
		return
	}

	s.mu.Lock()
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		s.claims[e.ID] = e.Claim
		ids = append(ids, e.ID)
	}
	s.revision++
	ev := Event{Kind: EventRegistered, IDs: ids, Revision: s.revision}
	s.notify(ev)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"count": len(ids), "revision": ev.Revision}).Debug("claims registered")
}

// RegisterExtractor binds an extractor to a tool name, replacing any previous one
func (s *Store) RegisterExtractor(tool string, ex Extractor) {
	s.mu.Lock()
	s.extractors[tool] = ex
	s.mu.Unlock()
}

// HasExtractor reports whether tool has an extractor
func (s *Store) HasExtractor(tool string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.extractors[tool]
	return ok
}

// Ingest runs the tool's extractor over raw output and registers the result.
// It returns the number of claims registered.
func (s *Store) Ingest(tool string, raw []byte) (int, error) {
	s.mu.RLock()
	ex, ok := s.extractors[tool]
	s.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("ingest %s: %w", tool, ErrNoExtractor)
	}

	entries, err := ex.Extract(raw)
	if err != nil {
		return 0, fmt.Errorf("ingest %s: %w", tool, err)
	}

	s.RegisterMany(entries)
	s.log.WithFields(logrus.Fields{"tool": tool, "count": len(entries)}).Info("ingested tool output")
	return len(entries), nil
}

// Get returns the claim registered under id
func (s *Store) Get(id string) (model.Claim, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.claims[id]
	return c, ok
}

// Has reports whether id is registered
func (s *Store) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Snapshot returns a copy of all claims
func (s *Store) Snapshot() map[string]model.Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.Claim, len(s.claims))
	for id, c := range s.claims {
		out[id] = c
	}
	return out
}

// Entries returns all claims ordered by id
func (s *Store) Entries() []model.ClaimEntry {
	snap := s.Snapshot()
	out := make([]model.ClaimEntry, 0, len(snap))
	for id, c := range snap {
		out = append(out, model.ClaimEntry{ID: id, Claim: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered claims
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.claims)
}

// Revision increases on every change; equal revisions mean equal contents
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Fingerprint returns a stable digest of the registered claims.
// Stores with the same contents share a fingerprint regardless of history.
func (s *Store) Fingerprint() string {
	s.mu.RLock()
	if s.fp != "" && s.fpRevision == s.revision {
		fp := s.fp
		s.mu.RUnlock()
		return fp
	}
	rev := s.revision
	s.mu.RUnlock()

	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, e := range s.Entries() {
		// Values that cannot be encoded still contribute their id and a marker
		if err := enc.Encode(e); err != nil {
			fmt.Fprintf(h, "%s:%v\n", e.ID, e.Claim.Value)
		}
	}
	fp := hex.EncodeToString(h.Sum(nil))

	s.mu.Lock()
	if s.revision == rev {
		s.fp, s.fpRevision = fp, rev
	}
	s.mu.Unlock()
	return fp
}

// Clear removes every claim and notifies subscribers. Extractors are kept.
func (s *Store) Clear() {
	s.mu.Lock()
	s.claims = make(map[string]model.Claim)
	s.revision++
	s.notify(Event{Kind: EventCleared, Revision: s.revision})
	s.mu.Unlock()

	s.log.Debug("claims cleared")
}

// LoadJSON registers claims from a JSON document. Two shapes are accepted:
// an object keyed by id ({"gdp": {"value": 1}}) or a list of entries
// ([{"id": "gdp", "claim": {"value": 1}}]).
func (s *Store) LoadJSON(r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read claims: %w", err)
	}

	entries, err := decodeEntries(data)
	if err != nil {
		return 0, err
	}

	s.RegisterMany(entries)
	return len(entries), nil
}

func decodeEntries(data []byte) ([]model.ClaimEntry, error) {
	var list []model.ClaimEntry
	if err := json.Unmarshal(data, &list); err == nil {
		out := list[:0]
		for _, e := range list {
			if e.ID != "" {
				out = append(out, e)
			}
		}
		return out, nil
	}

	var byID map[string]model.Claim
	if err := json.Unmarshal(data, &byID); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]model.ClaimEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.ClaimEntry{ID: id, Claim: byID[id]})
	}
	return out, nil
}
