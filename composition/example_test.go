package composition_test

import (
	"fmt"

	"github.com/katalvlaran/gclp/composition"
)

// ExampleFromSymbols shows canonicalization of an unnormalized input.
func ExampleFromSymbols() {
	c, err := composition.FromSymbols(map[string]float64{"O": 3, "Fe": 2})
	if err != nil {
		panic(err)
	}
	fmt.Println(c)
	fmt.Println(c.Len(), c.IsPure())
	// Output:
	// O0.6Fe0.4
	// 2 false
}
