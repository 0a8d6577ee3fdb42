package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
)

func TestCheckIntegrity_CleanDataset(t *testing.T) {
	ds := &model.Dataset{Space: twoParamSpace(), Rows: [][]float64{
		{20, 0, 1}, {100, 1, 2}, {57.5, 0.33, 3},
	}}
	require.NoError(t, CheckIntegrity(ds))
}

func TestCheckIntegrity_ValueBelowRange(t *testing.T) {
	ds := &model.Dataset{Space: twoParamSpace(), Rows: [][]float64{
		{19.9, 0.5, 1},
	}}

	err := CheckIntegrity(ds)
	require.Error(t, err)

	var intErr *model.IntegrityError
	require.ErrorAs(t, err, &intErr)
	assert.Equal(t, "Alpha", intErr.Parameter)
	assert.Equal(t, "minimum", intErr.Kind)
	assert.Equal(t, 19.9, intErr.Value)
}

func TestCheckIntegrity_ValueAboveRange(t *testing.T) {
	ds := &model.Dataset{Space: twoParamSpace(), Rows: [][]float64{
		{50, 1.2, 1},
	}}

	err := CheckIntegrity(ds)
	require.Error(t, err)

	var intErr *model.IntegrityError
	require.ErrorAs(t, err, &intErr)
	assert.Equal(t, "Beta", intErr.Parameter)
	assert.Equal(t, "maximum", intErr.Kind)
}

func TestCheckIntegrity_ReferenceOffEndpoint(t *testing.T) {
	space := twoParamSpace()
	space.Parameters[0].Reference = 60 // mid-range, not an endpoint
	ds := &model.Dataset{Space: space, Rows: [][]float64{{50, 0.5, 1}}}

	err := CheckIntegrity(ds)
	require.Error(t, err)

	var intErr *model.IntegrityError
	require.ErrorAs(t, err, &intErr)
	assert.Equal(t, "reference", intErr.Kind)
}

func TestCheckIntegrity_LimitOffEndpoint(t *testing.T) {
	space := twoParamSpace()
	space.Parameters[1].Limit = 0.5
	ds := &model.Dataset{Space: space, Rows: [][]float64{{50, 0.5, 1}}}

	err := CheckIntegrity(ds)
	require.Error(t, err)

	var intErr *model.IntegrityError
	require.ErrorAs(t, err, &intErr)
	assert.Equal(t, "limit", intErr.Kind)
}
