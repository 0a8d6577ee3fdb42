package analysis

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/mat"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
)

// CurveOptions configures the distance-to-cost curve smoothing.
type CurveOptions struct {
	Distance        DistanceOptions
	ReductionFactor int // window = floor(N / ReductionFactor), default 25
	PolyOrder       int // polynomial order, default 4
}

// Curve is the distance-ordered cost curve with its smoothed counterpart.
// Distances ascend; Costs and Smoothed are parallel to it.
type Curve struct {
	Distances []float64
	Costs     []float64
	Smoothed  []float64
}

// SmoothCurve computes the development distance for every row of the full
// dataset, orders rows by distance, and applies a Savitzky-Golay filter to
// the cost column. The window length floor(N/reductionFactor) is bumped to
// the next odd integer when even.
func SmoothCurve(ds *model.Dataset, principal []string, opts CurveOptions) (*Curve, error) {
	if opts.ReductionFactor <= 0 {
		opts.ReductionFactor = 25
	}
	if opts.PolyOrder <= 0 {
		opts.PolyOrder = 4
	}

	distances, err := Distances(ds.Rows, ds.Space, principal, opts.Distance)
	if err != nil {
		return nil, err
	}

	n := len(ds.Rows)
	col := ds.CostColumn()

	order := argsort(distances)
	curve := &Curve{
		Distances: make([]float64, n),
		Costs:     make([]float64, n),
	}
	for i, idx := range order {
		curve.Distances[i] = distances[idx]
		curve.Costs[i] = ds.Rows[idx][col]
	}

	window := n / opts.ReductionFactor
	if window%2 == 0 {
		window++
	}

	curve.Smoothed, err = savgol(curve.Costs, window, opts.PolyOrder)
	if err != nil {
		return nil, err
	}
	return curve, nil
}

// savgol applies a Savitzky-Golay filter: each point is replaced by the
// value of a least-squares polynomial of the given order fitted over the
// surrounding window. Edge points take the fit of the first or last full
// window evaluated at their offsets.
func savgol(y []float64, window, order int) ([]float64, error) {
	n := len(y)
	if window > n {
		return nil, eris.Errorf("analysis: savgol window %d exceeds %d data points", window, n)
	}
	if window < order+2 {
		return nil, eris.Errorf("analysis: savgol window %d too small for polynomial order %d (need >= %d)", window, order, order+2)
	}
	if window%2 == 0 {
		return nil, eris.Errorf("analysis: savgol window %d must be odd", window)
	}

	proj, err := savgolProjection(window, order)
	if err != nil {
		return nil, err
	}

	half := window / 2
	out := make([]float64, n)

	// Interior: convolution with the center row of the projection.
	center := mat.Row(nil, half, proj)
	for i := half; i < n-half; i++ {
		var sum float64
		for j, c := range center {
			sum += c * y[i-half+j]
		}
		out[i] = sum
	}

	// Edges: the polynomial fitted to the first (last) window, evaluated at
	// each edge offset.
	for i := 0; i < half; i++ {
		row := mat.Row(nil, i, proj)
		var head, tail float64
		for j, c := range row {
			head += c * y[j]
		}
		row = mat.Row(nil, window-1-i, proj)
		for j, c := range row {
			tail += c * y[n-window+j]
		}
		out[i] = head
		out[n-1-i] = tail
	}
	return out, nil
}

// savgolProjection returns the window x window least-squares projection
// matrix P = A (A^T A)^-1 A^T for the polynomial design matrix A over
// offsets -half..half. P*y is the fitted polynomial evaluated at every
// window position.
func savgolProjection(window, order int) (*mat.Dense, error) {
	half := window / 2

	a := mat.NewDense(window, order+1, nil)
	for i := 0; i < window; i++ {
		z := float64(i - half)
		for j := 0; j <= order; j++ {
			a.Set(i, j, math.Pow(z, float64(j)))
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)

	var inv mat.Dense
	if err := inv.Inverse(&ata); err != nil {
		return nil, eris.Wrap(err, "analysis: savgol normal equations are singular")
	}

	var pinv, proj mat.Dense
	pinv.Mul(&inv, a.T())
	proj.Mul(a, &pinv)
	return &proj, nil
}

func argsort(v []float64) []int {
	idx := make([]int, len(v))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return v[idx[a]] < v[idx[b]] })
	return idx
}
