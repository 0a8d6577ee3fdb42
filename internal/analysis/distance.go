package analysis

import (
	"math"
	"sort"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
)

// Metric selects the distance computation over the normalized hypercube.
type Metric string

const (
	// MetricCityblock is the L1 distance divided by the dimension count.
	MetricCityblock Metric = "cityblock"
	// MetricEuclidean is the L2 distance divided by sqrt(dimension count).
	MetricEuclidean Metric = "euclidean"
	// MetricSum is the plain signed sum of normalized coordinates. Not a
	// true metric; it can be negative and is used when direction matters.
	MetricSum Metric = "sum"
)

// DistanceOptions configures normalization and the metric.
type DistanceOptions struct {
	Metric       Metric
	LogNormalize bool
}

// Principal returns the parameter display names ordered by their position in
// the active declared table. This is the default axis ordering for distance
// computation.
func Principal(space *model.ParameterSpace) []string {
	names := make([]string, len(space.Parameters))
	order := make([]model.Parameter, len(space.Parameters))
	copy(order, space.Parameters)
	sort.SliceStable(order, func(i, j int) bool { return order[i].InputIdx < order[j].InputIdx })
	for i, p := range order {
		names[i] = p.Name
	}
	return names
}

// Distances computes the development distance of every row to the reference
// point. Each principal parameter value v is mapped to the unit interval via
// u = (v-reference)/(limit-reference), or
// u = log10(v/reference)/log10(limit/reference) under log normalization, so
// the reference always maps to 0. Both normalizations divide out the metric
// by the dimension count (cityblock) or its square root (euclidean) so the
// maximum achievable distance is 1.
func Distances(rows [][]float64, space *model.ParameterSpace, principal []string, opts DistanceOptions) ([]float64, error) {
	params := make([]model.Parameter, len(principal))
	for i, name := range principal {
		p, ok := space.ByName(name)
		if !ok {
			return nil, &model.ConfigurationError{Parameter: name, Reason: "not part of the parameter space"}
		}
		if opts.LogNormalize {
			if p.Reference <= 0 || p.Limit/p.Reference <= 0 {
				return nil, &model.ConfigurationError{
					Parameter: name,
					Reason:    "log normalization requires a positive reference and a positive limit/reference ratio",
				}
			}
		}
		params[i] = p
	}

	dims := float64(len(params))
	distances := make([]float64, len(rows))
	u := make([]float64, len(params))

	for r, row := range rows {
		for i, p := range params {
			u[i] = normalize(row[p.Column], p.Reference, p.Limit, opts.LogNormalize)
		}

		switch opts.Metric {
		case MetricCityblock, "":
			var sum float64
			for _, v := range u {
				sum += math.Abs(v)
			}
			distances[r] = sum / dims
		case MetricEuclidean:
			var sum float64
			for _, v := range u {
				sum += v * v
			}
			distances[r] = math.Sqrt(sum) / math.Sqrt(dims)
		case MetricSum:
			// Signed sum, normalized like cityblock but without absolute
			// values, so it can be negative.
			var sum float64
			for _, v := range u {
				sum += v
			}
			distances[r] = sum / dims
		default:
			return nil, &model.ConfigurationError{Parameter: string(opts.Metric), Reason: "unknown distance metric"}
		}
	}
	return distances, nil
}

func normalize(v, reference, limit float64, logNormalize bool) float64 {
	if logNormalize {
		return math.Log10(v/reference) / math.Log10(limit/reference)
	}
	return (v - reference) / (limit - reference)
}
