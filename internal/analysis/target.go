package analysis

import (
	"math"
	"sort"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
)

// SortByCost returns the dataset rows sorted ascending by the cost column.
// The returned slice shares row storage with the dataset; the dataset itself
// is not reordered.
func SortByCost(ds *model.Dataset) [][]float64 {
	col := ds.CostColumn()
	sorted := make([][]float64, len(ds.Rows))
	copy(sorted, ds.Rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i][col] < sorted[j][col]
	})
	return sorted
}

// FilterWindow selects the contiguous run of cost-sorted rows whose cost
// falls in the target window. Window endpoint order is irrelevant. A window
// entirely outside the observed cost range yields model.ErrEmptyWindow;
// callers must not compute statistics on the empty selection.
func FilterWindow(ds *model.Dataset, win model.Window) ([][]float64, error) {
	low, high := win.Low, win.High
	if low > high {
		low, high = high, low
	}

	sorted := SortByCost(ds)
	col := ds.CostColumn()
	costs := make([]float64, len(sorted))
	for i, row := range sorted {
		costs[i] = row[col]
	}

	lo := nearestIndex(costs, low)
	hi := nearestIndex(costs, high)
	if lo >= hi {
		return nil, model.ErrEmptyWindow
	}
	return sorted[lo:hi], nil
}

// nearestIndex locates the insertion point of v in the ascending slice and
// steps back one position when the left neighbor is strictly closer.
func nearestIndex(sorted []float64, v float64) int {
	idx := sort.SearchFloat64s(sorted, v)
	if idx > 0 && (idx == len(sorted) || math.Abs(v-sorted[idx-1]) < math.Abs(v-sorted[idx])) {
		return idx - 1
	}
	return idx
}
