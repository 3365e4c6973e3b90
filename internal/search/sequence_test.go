package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequencerStaleDetection(t *testing.T) {
	var seq Sequencer

	first := seq.Next()
	assert.True(t, seq.Latest(first))

	second := seq.Next()
	assert.False(t, seq.Latest(first), "older sequence must be stale once a newer one is issued")
	assert.True(t, seq.Latest(second))
}

func TestSequencerConcurrentIssue(t *testing.T) {
	var seq Sequencer
	var wg sync.WaitGroup

	const n = 100
	results := make([]uint64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = seq.Next()
		}(i)
	}
	wg.Wait()

	seen := make(map[uint64]struct{}, n)
	var latestCount int
	for _, s := range results {
		_, dup := seen[s]
		assert.False(t, dup, "sequence numbers must be unique")
		seen[s] = struct{}{}
		if seq.Latest(s) {
			latestCount++
		}
	}
	assert.Equal(t, 1, latestCount, "exactly one issued sequence is the newest")
}
