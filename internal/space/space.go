// Package space resolves the declared parameter table against the model
// tree and draws uniform samples over the resolved ranges.
package space

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
	"github.com/solarfuels-group/montecarlo-cli/internal/tree"
)

// Endpoint keywords that resolve to the model tree's current value.
var referenceKeywords = map[string]bool{
	"base":      true,
	"reference": true,
}

// Resolve turns the declared-parameter table into a ParameterSpace. Each
// declaration's range expression is parsed, keyword endpoints are substituted
// with the tree's current value, endpoints are sorted, and the endpoint equal
// to the current value becomes the reference. A current value matching
// neither endpoint is a configuration error.
func Resolve(t *tree.Tree, decls []model.Declaration) (*model.ParameterSpace, error) {
	if len(decls) == 0 {
		return nil, eris.New("space: no parameters declared")
	}

	params := make([]model.Parameter, 0, len(decls))
	for i, decl := range decls {
		path := model.ParsePath(decl.Path)

		vt, err := parseValueType(decl.Type)
		if err != nil {
			return nil, &model.ConfigurationError{Parameter: decl.Name, Reason: err.Error()}
		}

		current, err := t.Get(path)
		if err != nil {
			return nil, &model.ConfigurationError{
				Parameter: decl.Name,
				Reason:    "cannot resolve current model value: " + err.Error(),
			}
		}

		low, high, err := parseRange(decl.Values, current)
		if err != nil {
			return nil, &model.ConfigurationError{Parameter: decl.Name, Reason: err.Error()}
		}

		var limit float64
		switch current {
		case low:
			limit = high
		case high:
			limit = low
		default:
			return nil, &model.ConfigurationError{
				Parameter: decl.Name,
				Reason:    eris.Errorf("current model value %g matches neither range endpoint [%g, %g]", current, low, high).Error(),
			}
		}

		params = append(params, model.Parameter{
			Name:      decl.Name,
			Path:      path,
			Type:      vt,
			Low:       low,
			High:      high,
			Reference: current,
			Limit:     limit,
			Column:    i,
			InputIdx:  i,
		})
	}

	return &model.ParameterSpace{Parameters: params}, nil
}

func parseValueType(s string) (model.ValueType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "value", "":
		return model.ValueTypeValue, nil
	case "factor":
		return model.ValueTypeFactor, nil
	default:
		return "", eris.Errorf("unknown value type %q", s)
	}
}

// parseRange parses a two-endpoint ";"-delimited range expression. Either
// endpoint may be a reference keyword ("Base" or "Reference"), which
// substitutes the current model value. Endpoints are returned sorted.
func parseRange(expr string, current float64) (low, high float64, err error) {
	parts := strings.Split(expr, ";")
	if len(parts) != 2 {
		return 0, 0, eris.Errorf("range expression %q must have exactly two ';'-delimited endpoints", expr)
	}

	endpoints := make([]float64, 2)
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if referenceKeywords[strings.ToLower(part)] {
			endpoints[i] = current
			continue
		}
		v, perr := tree.ParseNumber(part)
		if perr != nil {
			return 0, 0, eris.Errorf("range endpoint %q is neither a number nor a reference keyword", part)
		}
		endpoints[i] = v
	}

	low, high = endpoints[0], endpoints[1]
	if low > high {
		low, high = high, low
	}
	if low == high {
		return 0, 0, eris.Errorf("range endpoints of %q are equal (%g)", expr, low)
	}
	return low, high, nil
}
