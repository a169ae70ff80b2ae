package claims

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimmark/internal/model"
)

func TestStore_RegisterAndGet(t *testing.T) {
	s := NewStore(nil)

	s.Register("gdp", model.Claim{Value: 2100, Country: "KEN"})
	c, ok := s.Get("gdp")
	require.True(t, ok)
	assert.Equal(t, 2100, c.Value)
	assert.True(t, s.Has("gdp"))
	assert.False(t, s.Has("pop"))

	s.Register("gdp", model.Claim{Value: 2200})
	c, _ = s.Get("gdp")
	assert.Equal(t, 2200, c.Value, "re-registering replaces")
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, uint64(2), s.Revision())
}

func TestStore_RegisterManyEmptyIsSilent(t *testing.T) {
	s := NewStore(nil)
	sub := s.Subscribe(4)
	defer sub.Close()

	s.RegisterMany(nil)
	s.RegisterMany([]model.ClaimEntry{})

	assert.Equal(t, uint64(0), s.Revision())
	select {
	case ev := <-sub.C:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestStore_SubscribersSeeChanges(t *testing.T) {
	s := NewStore(nil)
	a := s.Subscribe(4)
	b := s.Subscribe(4)
	defer a.Close()
	defer b.Close()

	s.RegisterMany([]model.ClaimEntry{
		{ID: "x", Claim: model.Claim{Value: 1}},
		{ID: "y", Claim: model.Claim{Value: 2}},
	})
	s.Clear()

	for _, sub := range []*Subscription{a, b} {
		ev := <-sub.C
		assert.Equal(t, EventRegistered, ev.Kind)
		assert.Equal(t, []string{"x", "y"}, ev.IDs)
		assert.Equal(t, uint64(1), ev.Revision)

		ev = <-sub.C
		assert.Equal(t, EventCleared, ev.Kind)
		assert.Equal(t, uint64(2), ev.Revision)
	}
	assert.Equal(t, 0, s.Len())
}

func TestStore_FullSubscriberDoesNotBlock(t *testing.T) {
	s := NewStore(nil)
	sub := s.Subscribe(1)
	defer sub.Close()

	s.Register("a", model.Claim{Value: 1})
	s.Register("b", model.Claim{Value: 2}) // dropped

	ev := <-sub.C
	assert.Equal(t, uint64(1), ev.Revision)
	assert.Equal(t, uint64(2), s.Revision(), "revision lets the subscriber resync")
}

func TestSubscription_CloseTwice(t *testing.T) {
	s := NewStore(nil)
	sub := s.Subscribe(1)
	sub.Close()
	sub.Close()

	_, open := <-sub.C
	assert.False(t, open)

	s.Register("a", model.Claim{Value: 1})
}

func TestStore_Ingest(t *testing.T) {
	s := NewStore(nil)

	n, err := s.Ingest("data360_get_data", []byte(`{}`))
	assert.Zero(t, n)
	assert.True(t, errors.Is(err, ErrNoExtractor))
	assert.Equal(t, uint64(0), s.Revision(), "store untouched")

	s.RegisterExtractor("tool", ExtractorFunc(func(raw []byte) ([]model.ClaimEntry, error) {
		return []model.ClaimEntry{{ID: string(raw), Claim: model.Claim{Value: "v"}}}, nil
	}))
	assert.True(t, s.HasExtractor("tool"))

	n, err = s.Ingest("tool", []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, s.Has("k"))

	boom := errors.New("boom")
	s.RegisterExtractor("bad", ExtractorFunc(func([]byte) ([]model.ClaimEntry, error) { return nil, boom }))
	_, err = s.Ingest("bad", nil)
	assert.ErrorIs(t, err, boom)
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := NewStore(nil)
	s.Register("a", model.Claim{Value: 1})

	snap := s.Snapshot()
	delete(snap, "a")
	assert.True(t, s.Has("a"))
}

func TestStore_Entries(t *testing.T) {
	s := NewStore(nil)
	s.Register("b", model.Claim{Value: 2})
	s.Register("a", model.Claim{Value: 1})

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)
}

func TestStore_LoadJSON(t *testing.T) {
	s := NewStore(nil)

	n, err := s.LoadJSON(strings.NewReader(`{"gdp": {"value": 12.5, "country": "KEN", "date": "2022-06-01"}, "pop": {"value": "54M"}}`))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	c, ok := s.Get("gdp")
	require.True(t, ok)
	assert.Equal(t, 12.5, c.Value)
	assert.Equal(t, "KEN", c.Country)

	n, err = s.LoadJSON(strings.NewReader(`[{"id": "rate", "claim": {"value": "42%"}}, {"id": "", "claim": {"value": 1}}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, s.Has("rate"))

	_, err = s.LoadJSON(strings.NewReader(`"nope"`))
	assert.Error(t, err)
}

func TestStore_ConcurrentUse(t *testing.T) {
	s := NewStore(nil)
	sub := s.Subscribe(8)
	defer sub.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Register(string(rune('a'+i)), model.Claim{Value: i})
			_ = s.Snapshot()
			_ = s.Has("a")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 16, s.Len())
	assert.Equal(t, uint64(16), s.Revision())
}

func TestStore_Fingerprint(t *testing.T) {
	a := NewStore(nil)
	b := NewStore(nil)

	empty := a.Fingerprint()
	assert.Equal(t, empty, b.Fingerprint())

	a.Register("gdp", model.Claim{Value: 1.5})
	a.Register("pop", model.Claim{Value: 10, Country: "KEN"})
	b.RegisterMany([]model.ClaimEntry{
		{ID: "pop", Claim: model.Claim{Value: 10, Country: "KEN"}},
		{ID: "gdp", Claim: model.Claim{Value: 1.5}},
	})

	fp := a.Fingerprint()
	assert.NotEqual(t, empty, fp)
	assert.Equal(t, fp, b.Fingerprint(), "same contents, different history")
	assert.Equal(t, fp, a.Fingerprint(), "memoized value is stable")

	a.Register("gdp", model.Claim{Value: 1.6})
	assert.NotEqual(t, fp, a.Fingerprint())
}
