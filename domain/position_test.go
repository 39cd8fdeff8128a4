package domain

import (
	"sync"
	"testing"
)

func TestNextPositionStrictlyIncreasing(t *testing.T) {
	prev := NextPosition()
	for i := 0; i < 1000; i++ {
		next := NextPosition()
		if next <= prev {
			t.Fatalf("position went backwards: %d after %d", next, prev)
		}
		prev = next
	}
}

func TestNextPositionUniqueUnderConcurrency(t *testing.T) {
	const workers = 8
	const perWorker = 500

	var wg sync.WaitGroup
	results := make([][]int64, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			out := make([]int64, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				out = append(out, NextPosition())
			}
			results[w] = out
		}(w)
	}
	wg.Wait()

	seen := make(map[int64]struct{}, workers*perWorker)
	for _, out := range results {
		for _, p := range out {
			if _, dup := seen[p]; dup {
				t.Fatalf("duplicate position %d", p)
			}
			seen[p] = struct{}{}
		}
	}
}
