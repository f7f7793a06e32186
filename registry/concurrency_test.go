// Package registry_test verifies thread-safety of the registry under
// concurrent readers and writers.
package registry_test

import (
	"sync"
	"testing"

	"github.com/katalvlaran/gclp/composition"
	"github.com/katalvlaran/gclp/registry"
	"github.com/stretchr/testify/require"
)

// TestConcurrentAddAndRead mixes AddPhase with Candidates/Size calls.
func TestConcurrentAddAndRead(t *testing.T) {
	reg := registry.New()
	target := comp(t, map[string]float64{"Fe": 1, "O": 1})

	const num = 100
	var wg sync.WaitGroup
	wg.Add(2 * num)

	for i := 0; i < num; i++ {
		go func(i int) {
			defer wg.Done()
			c, err := composition.FromSymbols(map[string]float64{"Fe": float64(i + 1), "O": float64(num - i)})
			require.NoError(t, err)
			_, err = reg.AddPhase(c, -float64(i)/num)
			require.NoError(t, err)
		}(i)

		go func() {
			defer wg.Done()
			_ = reg.Candidates(target)
			_ = reg.Size()
		}()
	}
	wg.Wait()

	// Every Fe/O ratio is distinct, plus the two elements.
	require.Len(t, reg.Candidates(target), num+2)
}
