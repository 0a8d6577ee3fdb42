package space

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
)

// Sampler draws independent uniform variates for each parameter. It carries
// its own seeded source so runs are reproducible.
type Sampler struct {
	src rand.Source
}

// NewSampler creates a sampler with an explicitly seeded source.
func NewSampler(seed uint64) *Sampler {
	return &Sampler{src: rand.NewSource(seed)}
}

// Sample draws n rows over the space. Each column is uniform on the
// parameter's [Low, High]; columns are independent.
func (s *Sampler) Sample(space *model.ParameterSpace, n int) [][]float64 {
	dists := make([]distuv.Uniform, len(space.Parameters))
	for i, p := range space.Parameters {
		dists[i] = distuv.Uniform{Min: p.Low, Max: p.High, Src: s.src}
	}

	rows := make([][]float64, n)
	for r := range rows {
		row := make([]float64, len(dists))
		for c := range dists {
			row[c] = dists[c].Rand()
		}
		rows[r] = row
	}
	return rows
}
