package analysis

import (
	"github.com/solarfuels-group/montecarlo-cli/internal/model"
)

// twoParamSpace: first parameter spans [20, 100] with reference 20, second
// spans [0, 1] with reference 0.
func twoParamSpace() *model.ParameterSpace {
	return &model.ParameterSpace{Parameters: []model.Parameter{
		{Name: "Alpha", Path: model.ParsePath("A > Alpha > Value"), Type: model.ValueTypeValue, Low: 20, High: 100, Reference: 20, Limit: 100, Column: 0, InputIdx: 0},
		{Name: "Beta", Path: model.ParsePath("B > Beta > Value"), Type: model.ValueTypeValue, Low: 0, High: 1, Reference: 0, Limit: 1, Column: 1, InputIdx: 1},
	}}
}

// costDataset builds a two-parameter dataset with the given cost column;
// parameter values sit at their references.
func costDataset(costs []float64) *model.Dataset {
	rows := make([][]float64, len(costs))
	for i, c := range costs {
		rows[i] = []float64{20, 0, c}
	}
	return &model.Dataset{Space: twoParamSpace(), Rows: rows}
}
