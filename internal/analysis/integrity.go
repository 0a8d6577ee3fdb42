// Package analysis implements the distance-based sensitivity stages that
// consume an evaluated dataset: integrity checking, target-window filtering,
// normalized distance computation, curve smoothing, and window summaries.
package analysis

import (
	"github.com/solarfuels-group/montecarlo-cli/internal/model"
)

// CheckIntegrity validates every parameter column of the dataset against its
// declared bounds: observed minimum and maximum must lie within [low, high],
// and the reference and limit must each be one of the two range endpoints.
// Violations are configuration or programmer errors and are never retried.
func CheckIntegrity(ds *model.Dataset) error {
	for _, p := range ds.Space.Parameters {
		minV, maxV := ds.Rows[0][p.Column], ds.Rows[0][p.Column]
		for _, row := range ds.Rows[1:] {
			v := row[p.Column]
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}

		if minV < p.Low {
			return &model.IntegrityError{Parameter: p.Name, Kind: "minimum", Value: minV, Low: p.Low, High: p.High}
		}
		if maxV > p.High {
			return &model.IntegrityError{Parameter: p.Name, Kind: "maximum", Value: maxV, Low: p.Low, High: p.High}
		}
		if p.Reference != p.Low && p.Reference != p.High {
			return &model.IntegrityError{Parameter: p.Name, Kind: "reference", Value: p.Reference, Low: p.Low, High: p.High}
		}
		if p.Limit != p.Low && p.Limit != p.High {
			return &model.IntegrityError{Parameter: p.Name, Kind: "limit", Value: p.Limit, Low: p.Low, High: p.High}
		}
	}
	return nil
}
