package counters

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scidepot/depot/errors"
)

func TestKindNamesRoundTrip(t *testing.T) {
	for _, kind := range Kinds() {
		parsed, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
}

func TestParseKindUnknown(t *testing.T) {
	_, err := ParseKind("spacecraft")
	assert.ErrorIs(t, err, errors.ErrUnknownKind)
}

func TestAllocatorRefusesWhenUnset(t *testing.T) {
	a := NewAllocator()

	_, err := a.NextID(KindArticle)
	assert.ErrorIs(t, err, errors.ErrCountersUnset)
	_, err = a.CurrentID(KindArticle)
	assert.ErrorIs(t, err, errors.ErrCountersUnset)
}

func TestAllocatorSequence(t *testing.T) {
	a := NewAllocator()
	require.NoError(t, a.SetID(KindArticle, 10))
	a.MarkInitialized()

	id, err := a.NextID(KindArticle)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)

	id, err = a.NextID(KindArticle)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	current, err := a.CurrentID(KindArticle)
	require.NoError(t, err)
	assert.Equal(t, int64(12), current)
}

func TestAllocatorKindsAreIndependent(t *testing.T) {
	a := NewAllocator()
	require.NoError(t, a.SetID(KindArticle, 100))
	require.NoError(t, a.SetID(KindAuthor, 5))
	a.MarkInitialized()

	id, err := a.NextID(KindAuthor)
	require.NoError(t, err)
	assert.Equal(t, int64(6), id)

	current, err := a.CurrentID(KindArticle)
	require.NoError(t, err)
	assert.Equal(t, int64(100), current, "allocating one kind must not touch another")
}

func TestAllocatorSetIDNeverLowers(t *testing.T) {
	a := NewAllocator()
	require.NoError(t, a.SetID(KindFile, 50))
	require.NoError(t, a.SetID(KindFile, 20))
	a.MarkInitialized()

	current, err := a.CurrentID(KindFile)
	require.NoError(t, err)
	assert.Equal(t, int64(50), current)
}

func TestAllocatorRejectsUnknownKind(t *testing.T) {
	a := NewAllocator()
	a.MarkInitialized()

	assert.ErrorIs(t, a.SetID(Kind(999), 1), errors.ErrUnknownKind)
	_, err := a.NextID(Kind(-1))
	assert.ErrorIs(t, err, errors.ErrUnknownKind)
}

func TestAllocatorConcurrentNextIDDistinct(t *testing.T) {
	const workers = 16
	const perWorker = 200

	a := NewAllocator()
	a.MarkInitialized()

	var wg sync.WaitGroup
	issued := make(chan int64, workers*perWorker)
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := 0; m < perWorker; m++ {
				id, err := a.NextID(KindArticle)
				assert.NoError(t, err)
				issued <- id
			}
		}()
	}
	wg.Wait()
	close(issued)

	seen := make(map[int64]bool, workers*perWorker)
	var max int64
	for id := range issued {
		assert.False(t, seen[id], "identifier %d issued twice", id)
		seen[id] = true
		if id > max {
			max = id
		}
	}
	assert.Len(t, seen, workers*perWorker)

	current, err := a.CurrentID(KindArticle)
	require.NoError(t, err)
	assert.Equal(t, max, current, "current must equal the maximum issued")
}
