package plasma

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// seedMix decorrelates the second PCG word from the seed.
const seedMix = 0x9e3779b97f4a7c15

// NewSource returns the deterministic random source used for initialization.
// The same seed always produces the same particles and waves.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^seedMix)
}

func uniform(src rand.Source, min, max float64) distuv.Uniform {
	return distuv.Uniform{Min: min, Max: max, Src: src}
}
