// Package store persists evaluated Monte Carlo datasets as self-describing
// text files and reconciles their columns against the active
// declared-parameter table on load.
package store

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
	"github.com/solarfuels-group/montecarlo-cli/internal/tree"
)

const (
	schemaTag = "mcdata v1"
	costLabel = "H2 Cost"
)

// Save writes the dataset to path. The numeric matrix is preceded by five
// comment-prefixed tab-separated header lines: schema tag, display names
// (with a trailing cost label), dotted paths, value types, and resolved
// [low, high] ranges.
func Save(path string, ds *model.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "store: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := bufio.NewWriter(f)

	names := make([]string, 0, len(ds.Space.Parameters)+1)
	paths := make([]string, 0, len(ds.Space.Parameters))
	types := make([]string, 0, len(ds.Space.Parameters))
	ranges := make([]string, 0, len(ds.Space.Parameters))
	for _, p := range ds.Space.Parameters {
		names = append(names, p.Name)
		paths = append(paths, p.Path.String())
		types = append(types, string(p.Type))
		ranges = append(ranges, "["+formatFloat(p.Low)+", "+formatFloat(p.High)+"]")
	}
	names = append(names, costLabel)

	for _, line := range []string{
		schemaTag,
		strings.Join(names, "\t"),
		strings.Join(paths, "\t"),
		strings.Join(types, "\t"),
		strings.Join(ranges, "\t"),
	} {
		if _, err := w.WriteString("# " + line + "\n"); err != nil {
			return eris.Wrap(err, "store: write header")
		}
	}

	fields := make([]string, len(ds.Space.Parameters)+1)
	for _, row := range ds.Rows {
		for i, v := range row {
			fields[i] = formatFloat(v)
		}
		if _, err := w.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return eris.Wrap(err, "store: write row")
		}
	}

	if err := w.Flush(); err != nil {
		return eris.Wrapf(err, "store: flush %s", path)
	}

	zap.L().Info("dataset saved",
		zap.String("path", path),
		zap.Int("rows", len(ds.Rows)),
		zap.Int("parameters", len(ds.Space.Parameters)),
	)
	return nil
}

// Load reads a dataset previously written by Save and reconciles its columns
// against the active declared-parameter table. The model tree is re-queried
// for each column's current reference value; the non-reference range
// endpoint becomes the limit.
//
// Reconciliation: an active declaration binds to the loaded column with the
// same display name, or, failing that, to the loaded column whose original
// file position equals the declaration's explicit file index (the column is
// then renamed). Either way the declaration's table position is recorded as
// the column's input index. Anything else is a mapping error, as is a loaded
// path absent from the active table.
func Load(path string, t *tree.Tree, decls []model.Declaration) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "store: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)

	header, err := readHeader(scanner)
	if err != nil {
		return nil, eris.Wrapf(err, "store: header of %s", path)
	}

	params, err := header.parameters(t)
	if err != nil {
		return nil, err
	}
	if err := reconcile(params, decls); err != nil {
		return nil, err
	}

	rows, err := readMatrix(scanner, len(params)+1)
	if err != nil {
		return nil, eris.Wrapf(err, "store: matrix of %s", path)
	}

	zap.L().Info("dataset loaded",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
		zap.Int("parameters", len(params)),
	)
	return &model.Dataset{
		Space: &model.ParameterSpace{Parameters: params},
		Rows:  rows,
	}, nil
}

type header struct {
	names  []string
	paths  []string
	types  []string
	ranges []string
}

func readHeader(scanner *bufio.Scanner) (*header, error) {
	lines := make([]string, 0, 5)
	for len(lines) < 5 && scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "#") {
			return nil, eris.Errorf("expected 5 header lines, found %d", len(lines))
		}
		lines = append(lines, strings.TrimSpace(strings.TrimPrefix(line, "#")))
	}
	if len(lines) < 5 {
		return nil, eris.Errorf("expected 5 header lines, found %d", len(lines))
	}
	if lines[0] != schemaTag {
		return nil, eris.Errorf("unsupported schema %q (want %q)", lines[0], schemaTag)
	}

	h := &header{
		names:  strings.Split(lines[1], "\t"),
		paths:  strings.Split(lines[2], "\t"),
		types:  strings.Split(lines[3], "\t"),
		ranges: strings.Split(lines[4], "\t"),
	}

	if len(h.names) < 2 || h.names[len(h.names)-1] != costLabel {
		return nil, eris.Errorf("name line must end with %q", costLabel)
	}
	h.names = h.names[:len(h.names)-1]

	if len(h.paths) != len(h.names) || len(h.types) != len(h.names) || len(h.ranges) != len(h.names) {
		return nil, eris.Errorf("header field counts disagree: %d names, %d paths, %d types, %d ranges",
			len(h.names), len(h.paths), len(h.types), len(h.ranges))
	}
	return h, nil
}

// parameters rebuilds per-column metadata from the header, re-querying the
// tree for each column's current reference value.
func (h *header) parameters(t *tree.Tree) ([]model.Parameter, error) {
	params := make([]model.Parameter, len(h.names))
	for i := range h.names {
		low, high, err := parseRangeField(h.ranges[i])
		if err != nil {
			return nil, eris.Wrapf(err, "store: range of column %q", h.names[i])
		}

		path := model.ParsePath(h.paths[i])
		reference, err := t.Get(path)
		if err != nil {
			return nil, eris.Wrapf(err, "store: reference for column %q", h.names[i])
		}

		// The non-reference endpoint is the limit. If the reference matches
		// neither endpoint the integrity check reports it.
		limit := high
		if reference == high {
			limit = low
		}

		params[i] = model.Parameter{
			Name:      h.names[i],
			Path:      path,
			Type:      model.ValueType(h.types[i]),
			Low:       low,
			High:      high,
			Reference: reference,
			Limit:     limit,
			Column:    i,
			InputIdx:  -1,
		}
	}
	return params, nil
}

// reconcile binds active declarations to loaded columns in place.
func reconcile(params []model.Parameter, decls []model.Declaration) error {
	byName := make(map[string]int, len(params))
	for i, p := range params {
		byName[p.Name] = i
	}

	for counter, decl := range decls {
		if i, ok := byName[decl.Name]; ok {
			params[i].InputIdx = counter
			continue
		}
		if decl.FileIndex == nil {
			return &model.MappingError{
				Parameter: decl.Name,
				Reason:    "name not found in stored dataset and no file index for mapping specified",
			}
		}

		mapped := false
		for i := range params {
			if params[i].Column == *decl.FileIndex {
				delete(byName, params[i].Name)
				params[i].Name = decl.Name
				params[i].InputIdx = counter
				byName[decl.Name] = i
				mapped = true
				break
			}
		}
		if !mapped {
			return &model.MappingError{
				Parameter: decl.Name,
				Reason:    eris.Errorf("no stored column at file index %d", *decl.FileIndex).Error(),
			}
		}
	}

	declaredPaths := make(map[string]bool, len(decls))
	for _, decl := range decls {
		declaredPaths[model.ParsePath(decl.Path).String()] = true
	}
	for _, p := range params {
		if !declaredPaths[p.Path.String()] {
			return &model.MappingError{
				Parameter: p.Name,
				Reason:    eris.Errorf("stored path %q is not in the active parameter table", p.Path.String()).Error(),
			}
		}
	}
	return nil
}

func readMatrix(scanner *bufio.Scanner, width int) ([][]float64, error) {
	var rows [][]float64
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != width {
			return nil, eris.Errorf("row %d has %d fields, want %d", len(rows), len(fields), width)
		}
		row := make([]float64, width)
		for i, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, eris.Wrapf(err, "row %d field %d", len(rows), i)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "scan")
	}
	if len(rows) == 0 {
		return nil, eris.New("dataset contains no rows")
	}
	return rows, nil
}

// parseRangeField parses a "[low, high]" header field.
func parseRangeField(s string) (low, high float64, err error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, eris.Errorf("malformed range field %q", s)
	}
	low, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "low endpoint of %q", s)
	}
	high, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "high endpoint of %q", s)
	}
	return low, high, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
