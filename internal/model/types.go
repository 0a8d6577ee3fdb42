// Package model holds the core domain types shared across the Monte Carlo
// sampling, evaluation, and analysis stages.
package model

import "strings"

// ValueType controls how a sampled value is applied to the model tree.
type ValueType string

const (
	// ValueTypeValue replaces the existing tree value.
	ValueTypeValue ValueType = "value"
	// ValueTypeFactor multiplies the existing tree value.
	ValueTypeFactor ValueType = "factor"
)

// Path is an ordered key sequence addressing a value inside the
// techno-economic model configuration tree.
type Path []string

// String renders the path in "top > middle > bottom" form.
func (p Path) String() string {
	return strings.Join(p, " > ")
}

// ParsePath splits a "top > middle > bottom" string into a Path,
// trimming whitespace around each segment.
func ParsePath(s string) Path {
	parts := strings.Split(s, ">")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		p = append(p, strings.TrimSpace(part))
	}
	return p
}

// Equal reports whether two paths have identical segments.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Parameter is a single sampled dimension of the parameter space.
type Parameter struct {
	Name      string    // display name, used for axis labels and header lines
	Path      Path      // location in the model configuration tree
	Type      ValueType // value or factor
	Low       float64   // lower sampling bound
	High      float64   // upper sampling bound
	Reference float64   // the tree's current value; one of Low/High
	Limit     float64   // the endpoint opposite the reference
	Column    int       // column index in the sample matrix
	InputIdx  int       // position in the active declared-parameter table
}

// ParameterSpace is the resolved, ordered set of sampled parameters.
// Built once per run and shared read-only afterwards.
type ParameterSpace struct {
	Parameters []Parameter
}

// ByName returns the parameter with the given display name.
func (s *ParameterSpace) ByName(name string) (Parameter, bool) {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Declaration is one row of the declared-parameter table from the
// analysis configuration, before resolution against the model tree.
type Declaration struct {
	Path      string `yaml:"path" mapstructure:"path"`
	Name      string `yaml:"name" mapstructure:"name"`
	Type      string `yaml:"type" mapstructure:"type"`
	Values    string `yaml:"values" mapstructure:"values"`
	FileIndex *int   `yaml:"file_index" mapstructure:"file_index"`
}

// Dataset is an evaluated sample matrix plus per-column metadata.
// Rows are len(Space.Parameters)+1 wide; the final column is cost.
// Immutable once produced.
type Dataset struct {
	Space *ParameterSpace
	Rows  [][]float64
}

// CostColumn is the index of the cost column in a dataset row.
func (d *Dataset) CostColumn() int {
	return len(d.Space.Parameters)
}

// Costs returns a copy of the cost column.
func (d *Dataset) Costs() []float64 {
	col := d.CostColumn()
	out := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row[col]
	}
	return out
}

// Window is an externally supplied [Low, High] cost band of interest.
type Window struct {
	Low  float64
	High float64
}
