package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
)

// Summary describes the rows inside the target cost window.
type Summary struct {
	Count        int
	CostMin      float64
	CostMax      float64
	DistanceMean float64
	DistanceStd  float64

	// Nearest is the row with the smallest development distance: the
	// cheapest-to-reach parameter combination achieving the target cost.
	NearestDistance float64
	NearestCost     float64
	NearestValues   map[string]float64
}

// Summarize computes window statistics. rows and distances must be parallel;
// an empty selection is explicitly refused rather than yielding NaN.
func Summarize(rows [][]float64, distances []float64, space *model.ParameterSpace) (*Summary, error) {
	if len(rows) == 0 {
		return nil, model.ErrEmptyWindow
	}

	costCol := len(space.Parameters)
	costs := make([]float64, len(rows))
	for i, row := range rows {
		costs[i] = row[costCol]
	}

	mean, std := stat.MeanStdDev(distances, nil)
	if len(distances) < 2 {
		std = 0
	}

	nearest := floats.MinIdx(distances)
	values := make(map[string]float64, len(space.Parameters))
	for _, p := range space.Parameters {
		values[p.Name] = rows[nearest][p.Column]
	}

	return &Summary{
		Count:           len(rows),
		CostMin:         floats.Min(costs),
		CostMax:         floats.Max(costs),
		DistanceMean:    mean,
		DistanceStd:     std,
		NearestDistance: distances[nearest],
		NearestCost:     rows[nearest][costCol],
		NearestValues:   values,
	}, nil
}
