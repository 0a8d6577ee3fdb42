package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/exp/rand"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
)

func TestSavgol_ReproducesPolynomial(t *testing.T) {
	// A Savitzky-Golay filter of order k reproduces any polynomial of
	// degree <= k exactly, edges included.
	n := 101
	y := make([]float64, n)
	for i := range y {
		x := float64(i) / 10
		y[i] = 2 + 0.5*x - 0.3*x*x + 0.01*x*x*x
	}

	out, err := savgol(y, 11, 4)
	require.NoError(t, err)
	for i := range y {
		assert.InDelta(t, y[i], out[i], 1e-8, "index %d", i)
	}
}

func TestSavgol_SmoothsNoise(t *testing.T) {
	src := rand.NewSource(7)
	rng := rand.New(src)

	n := 500
	y := make([]float64, n)
	for i := range y {
		y[i] = math.Sin(float64(i)/50) + 0.2*(rng.Float64()-0.5)
	}

	out, err := savgol(y, 51, 4)
	require.NoError(t, err)

	var rawDev, smoothDev float64
	for i := range y {
		clean := math.Sin(float64(i) / 50)
		rawDev += math.Abs(y[i] - clean)
		smoothDev += math.Abs(out[i] - clean)
	}
	assert.Less(t, smoothDev, rawDev, "filtered curve tracks the signal more closely than the noisy input")
}

func TestSavgol_WindowLargerThanData(t *testing.T) {
	_, err := savgol([]float64{1, 2, 3}, 5, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestSavgol_WindowTooSmallForOrder(t *testing.T) {
	_, err := savgol(make([]float64, 100), 5, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}

func TestSavgol_EvenWindowRejected(t *testing.T) {
	_, err := savgol(make([]float64, 100), 10, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "odd")
}

func TestSmoothCurve_DistancesAscend(t *testing.T) {
	src := rand.NewSource(3)
	rng := rand.New(src)

	space := twoParamSpace()
	n := 1000
	rows := make([][]float64, n)
	for i := range rows {
		a := 20 + 80*rng.Float64()
		b := rng.Float64()
		rows[i] = []float64{a, b, 1 + a/100 + b}
	}
	ds := &model.Dataset{Space: space, Rows: rows}

	curve, err := SmoothCurve(ds, []string{"Alpha", "Beta"}, CurveOptions{})
	require.NoError(t, err)
	require.Len(t, curve.Distances, n)
	require.Len(t, curve.Costs, n)
	require.Len(t, curve.Smoothed, n)

	for i := 1; i < n; i++ {
		assert.LessOrEqual(t, curve.Distances[i-1], curve.Distances[i])
	}
}

func TestSmoothCurve_DefaultWindowFromReductionFactor(t *testing.T) {
	// 1000 points at the default reduction factor of 25 give a window of
	// 40, bumped to 41. A reduction factor so large the window cannot hold
	// the polynomial order must surface the savgol error.
	space := twoParamSpace()
	rows := make([][]float64, 60)
	for i := range rows {
		rows[i] = []float64{20 + float64(i), float64(i) / 60, float64(i)}
	}
	ds := &model.Dataset{Space: space, Rows: rows}

	_, err := SmoothCurve(ds, []string{"Alpha"}, CurveOptions{ReductionFactor: 30})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}

func TestSmoothCurve_PropagatesDistanceError(t *testing.T) {
	ds := &model.Dataset{Space: twoParamSpace(), Rows: [][]float64{{20, 0, 1}}}

	_, err := SmoothCurve(ds, []string{"Nope"}, CurveOptions{})
	require.Error(t, err)

	var cfgErr *model.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestArgsort(t *testing.T) {
	assert.Equal(t, []int{2, 0, 1, 3}, argsort([]float64{0.4, 0.9, 0.1, 2}))
}
