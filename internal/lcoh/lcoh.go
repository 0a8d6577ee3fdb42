// Package lcoh implements a levelized cost of hydrogen model over the
// standard techno-economic input tree. It is deliberately compact: capital
// is annualized with a capital recovery factor and spread over annual
// production alongside fixed and variable operating costs.
package lcoh

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
	"github.com/solarfuels-group/montecarlo-cli/internal/tree"
)

// Input tree locations read by the model.
var (
	PathDesignCapacity = model.Path{"Technical Operating Parameters", "Plant Design Capacity (kg of H2/day)", "Value"}
	PathCapacityFactor = model.Path{"Technical Operating Parameters", "Operating Capacity Factor", "Value"}
	PathPlantLifetime  = model.Path{"Financial Input Values", "Plant Lifetime (years)", "Value"}
	PathDiscountRate   = model.Path{"Financial Input Values", "After-tax Real IRR", "Value"}
	PathCapitalCost    = model.Path{"Direct Capital Costs", "Total ($)", "Value"}
	PathFixedOpex      = model.Path{"Fixed Operating Costs", "Total ($/year)", "Value"}
	PathVariableOpex   = model.Path{"Variable Operating Costs", "Total ($/kg)", "Value"}
)

// Model is the built-in cost model used by the CLI. It satisfies
// evaluate.CostModel.
type Model struct{}

// New returns the levelized cost model.
func New() *Model { return &Model{} }

// Cost computes the levelized hydrogen production cost in $/kg.
func (m *Model) Cost(t *tree.Tree) (float64, error) {
	capacity, err := t.Get(PathDesignCapacity)
	if err != nil {
		return 0, eris.Wrap(err, "lcoh: design capacity")
	}
	capacityFactor, err := t.Get(PathCapacityFactor)
	if err != nil {
		return 0, eris.Wrap(err, "lcoh: capacity factor")
	}
	lifetime, err := t.Get(PathPlantLifetime)
	if err != nil {
		return 0, eris.Wrap(err, "lcoh: plant lifetime")
	}
	rate, err := t.Get(PathDiscountRate)
	if err != nil {
		return 0, eris.Wrap(err, "lcoh: discount rate")
	}
	capital, err := t.Get(PathCapitalCost)
	if err != nil {
		return 0, eris.Wrap(err, "lcoh: capital cost")
	}
	fixedOpex, err := t.Get(PathFixedOpex)
	if err != nil {
		return 0, eris.Wrap(err, "lcoh: fixed operating cost")
	}
	variableOpex, err := t.Get(PathVariableOpex)
	if err != nil {
		return 0, eris.Wrap(err, "lcoh: variable operating cost")
	}

	if capacity <= 0 {
		return 0, eris.Errorf("lcoh: design capacity must be positive, got %g", capacity)
	}
	if capacityFactor <= 0 || capacityFactor > 1 {
		return 0, eris.Errorf("lcoh: capacity factor must be in (0, 1], got %g", capacityFactor)
	}
	if lifetime <= 0 {
		return 0, eris.Errorf("lcoh: plant lifetime must be positive, got %g", lifetime)
	}

	annualProduction := capacity * capacityFactor * 365

	crf := capitalRecoveryFactor(rate, lifetime)

	return crf*capital/annualProduction + fixedOpex/annualProduction + variableOpex, nil
}

// capitalRecoveryFactor annualizes a capital sum over lifetime years at the
// given real discount rate. A zero rate degenerates to straight-line 1/L.
func capitalRecoveryFactor(rate, lifetime float64) float64 {
	if rate == 0 {
		return 1 / lifetime
	}
	growth := math.Pow(1+rate, lifetime)
	return rate * growth / (growth - 1)
}
