package warm_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hier/internal/classpool"
	"hier/internal/hierarchy"
	"hier/internal/provider/fixture"
	"hier/internal/testkit"
	"hier/internal/warm"
)

type recordingSink struct {
	mu     sync.Mutex
	events []warm.Event
}

func (s *recordingSink) OnEvent(ev warm.Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordingSink) final() map[string]warm.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]warm.Status)
	for _, ev := range s.events {
		if ev.Status == warm.StatusDone || ev.Status == warm.StatusError {
			out[ev.ID] = ev.Status
		}
	}
	return out
}

func newResolver(t *testing.T) *hierarchy.Resolver {
	t.Helper()
	fp, err := fixture.NewBuiltin("jdk17")
	require.NoError(t, err)
	return hierarchy.New(classpool.New(fp))
}

func TestPrefetchWarmsPool(t *testing.T) {
	r := newResolver(t)
	ids := []string{"java.util.ArrayList", "java.util.HashMap", "java.lang.Integer", "int", "java.lang.String[]"}
	sink := &recordingSink{}

	results, err := warm.Prefetch(context.Background(), r, ids, warm.Options{Jobs: 3, Progress: sink})
	require.NoError(t, err)
	require.Len(t, results, len(ids))
	for i, res := range results {
		assert.Equal(t, ids[i], res.ID)
		require.NoError(t, res.Err)
		assert.NotNil(t, res.Class)
	}
	assert.Equal(t, 3, results[0].Superclass)
	assert.Equal(t, 6, results[0].Interfaces)
	assert.Zero(t, results[3].Superclass, "primitives have no chain")

	final := sink.final()
	for _, id := range ids {
		assert.Equal(t, warm.StatusDone, final[id], id)
	}

	// every superclass and interface met on the way is cached too
	_, ok := r.Pool().Lookup("java/util/AbstractCollection")
	assert.True(t, ok)
	_, ok = r.Pool().Lookup("java/lang/Iterable")
	assert.True(t, ok)
	require.NoError(t, testkit.CheckPoolInvariants(r.Pool()))
}

func TestPrefetchKeepGoing(t *testing.T) {
	r := newResolver(t)
	ids := []string{"java.lang.Integer", "com.example.Missing", "void[]", "java.lang.Float"}
	sink := &recordingSink{}

	results, err := warm.Prefetch(context.Background(), r, ids, warm.Options{Jobs: 2, Progress: sink, KeepGoing: true})
	require.NoError(t, err)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, classpool.ErrNotFound)
	assert.Error(t, results[2].Err)
	assert.NoError(t, results[3].Err)

	final := sink.final()
	assert.Equal(t, warm.StatusError, final["com.example.Missing"])
	assert.Equal(t, warm.StatusDone, final["java.lang.Float"])
}

func TestPrefetchStopsOnFirstError(t *testing.T) {
	r := newResolver(t)
	_, err := warm.Prefetch(context.Background(), r, []string{"com.example.Missing"}, warm.Options{Jobs: 1})
	require.ErrorIs(t, err, classpool.ErrNotFound)
}

func TestPrefetchCancelled(t *testing.T) {
	r := newResolver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := warm.Prefetch(ctx, r, []string{"java.lang.Integer", "java.lang.Float"}, warm.Options{Jobs: 1})
	require.ErrorIs(t, err, context.Canceled)
	for _, res := range results {
		assert.ErrorIs(t, res.Err, context.Canceled)
	}
	assert.True(t, r.Pool().IsEmpty())
}

func TestPrefetchEmpty(t *testing.T) {
	results, err := warm.Prefetch(context.Background(), newResolver(t), nil, warm.Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}
