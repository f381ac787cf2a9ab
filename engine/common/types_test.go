package common

import (
	"sync"
	"testing"

	"github.com/bmizerany/assert"
)

func TestIDAllocatorConcurrent(t *testing.T) {
	a := NewIDAllocator(1)
	var wait sync.WaitGroup
	var lock sync.Mutex
	seen := map[uint32]bool{}
	for i := 0; i < 8; i++ {
		wait.Add(1)
		go func() {
			defer wait.Done()
			for j := 0; j < 1000; j++ {
				id := a.Next()
				lock.Lock()
				assert.Tf(t, !seen[id], "id %d allocated twice", id)
				seen[id] = true
				lock.Unlock()
			}
		}()
	}
	wait.Wait()
	assert.Equal(t, 8000, len(seen))
	assert.Equal(t, uint32(8000), a.Last())
}

func TestNextUniqueIDMonotonic(t *testing.T) {
	first := NextUniqueID()
	second := NextUniqueID()
	assert.T(t, second > first)
	assert.T(t, NextAttackInstance() < NextAttackInstance())
}
