package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
	"github.com/solarfuels-group/montecarlo-cli/internal/tree"
)

const modelYAML = `
Catalyst:
  Cost per kg ($):
    Value: 95
Electrolyzer:
  Efficiency Factor:
    Value: 1.0
Membrane:
  Lifetime (years):
    Value: 5
`

func testTree(t *testing.T) *tree.Tree {
	t.Helper()
	tr, err := tree.Parse([]byte(modelYAML))
	require.NoError(t, err)
	return tr
}

func intPtr(v int) *int { return &v }

func testDataset() *model.Dataset {
	space := &model.ParameterSpace{Parameters: []model.Parameter{
		{Name: "Catalyst Cost", Path: model.ParsePath("Catalyst > Cost per kg ($) > Value"), Type: model.ValueTypeValue, Low: 20, High: 95, Reference: 95, Limit: 20, Column: 0, InputIdx: 0},
		{Name: "Efficiency", Path: model.ParsePath("Electrolyzer > Efficiency Factor > Value"), Type: model.ValueTypeFactor, Low: 1, High: 3, Reference: 1, Limit: 3, Column: 1, InputIdx: 1},
		{Name: "Membrane Life", Path: model.ParsePath("Membrane > Lifetime (years) > Value"), Type: model.ValueTypeValue, Low: 5, High: 15, Reference: 5, Limit: 15, Column: 2, InputIdx: 2},
	}}
	return &model.Dataset{
		Space: space,
		Rows: [][]float64{
			{33.25, 1.5, 7, 4.125},
			{90.0001, 2.75, 14.5, 2.0625},
			{20, 1, 5, 6.5},
		},
	}
}

func activeDecls() []model.Declaration {
	return []model.Declaration{
		{Path: "Catalyst > Cost per kg ($) > Value", Name: "Catalyst Cost", Type: "value", Values: "Base; 20"},
		{Path: "Electrolyzer > Efficiency Factor > Value", Name: "Efficiency", Type: "factor", Values: "Base; 3"},
		{Path: "Membrane > Lifetime (years) > Value", Name: "Membrane Life", Type: "value", Values: "Base; 15"},
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.tsv")
	ds := testDataset()

	require.NoError(t, Save(path, ds))

	loaded, err := Load(path, testTree(t), activeDecls())
	require.NoError(t, err)

	assert.Equal(t, ds.Rows, loaded.Rows, "matrix values must survive the round trip exactly")

	require.Len(t, loaded.Space.Parameters, 3)
	for i, p := range loaded.Space.Parameters {
		orig := ds.Space.Parameters[i]
		assert.Equal(t, orig.Name, p.Name)
		assert.True(t, orig.Path.Equal(p.Path))
		assert.Equal(t, orig.Type, p.Type)
		assert.Equal(t, orig.Low, p.Low)
		assert.Equal(t, orig.High, p.High)
		assert.Equal(t, orig.Reference, p.Reference)
		assert.Equal(t, orig.Limit, p.Limit)
		assert.Equal(t, i, p.Column)
		assert.Equal(t, i, p.InputIdx)
	}
}

func TestSave_HeaderShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.tsv")
	require.NoError(t, Save(path, testDataset()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(raw), "\n")
	require.GreaterOrEqual(t, len(lines), 8)

	assert.Equal(t, "# mcdata v1", lines[0])
	assert.Equal(t, "# Catalyst Cost\tEfficiency\tMembrane Life\tH2 Cost", lines[1])
	assert.Equal(t, "# Catalyst > Cost per kg ($) > Value\tElectrolyzer > Efficiency Factor > Value\tMembrane > Lifetime (years) > Value", lines[2])
	assert.Equal(t, "# value\tfactor\tvalue", lines[3])
	assert.Equal(t, "# [20, 95]\t[1, 3]\t[5, 15]", lines[4])
	assert.Equal(t, "33.25\t1.5\t7\t4.125", lines[5])
}

func TestLoad_RenameViaFileIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.tsv")
	require.NoError(t, Save(path, testDataset()))

	// "Membrane Life" (stored at column 2) was renamed to "Membrane
	// Replacement" in the active table; file_index 2 maps it back.
	decls := activeDecls()
	decls[2].Name = "Membrane Replacement"
	decls[2].FileIndex = intPtr(2)

	loaded, err := Load(path, testTree(t), decls)
	require.NoError(t, err)

	p := loaded.Space.Parameters[2]
	assert.Equal(t, "Membrane Replacement", p.Name)
	assert.Equal(t, 2, p.Column, "renamed declaration binds the stored column's data")
	assert.Equal(t, 2, p.InputIdx)
	assert.Equal(t, 5.0, p.Reference)
	assert.Equal(t, 15.0, p.Limit)
}

func TestLoad_RenameWithoutFileIndexFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.tsv")
	require.NoError(t, Save(path, testDataset()))

	decls := activeDecls()
	decls[2].Name = "Membrane Replacement" // no file_index

	_, err := Load(path, testTree(t), decls)
	require.Error(t, err)

	var mapErr *model.MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, "Membrane Replacement", mapErr.Parameter)
	assert.Contains(t, mapErr.Reason, "no file index")
}

func TestLoad_BadFileIndexFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.tsv")
	require.NoError(t, Save(path, testDataset()))

	decls := activeDecls()
	decls[2].Name = "Membrane Replacement"
	decls[2].FileIndex = intPtr(9)

	_, err := Load(path, testTree(t), decls)
	require.Error(t, err)

	var mapErr *model.MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Contains(t, mapErr.Reason, "file index 9")
}

func TestLoad_StalePathFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.tsv")
	require.NoError(t, Save(path, testDataset()))

	// Active table no longer declares the membrane parameter at all, but
	// the stored dataset still carries it.
	decls := activeDecls()[:2]

	_, err := Load(path, testTree(t), decls)
	require.Error(t, err)

	var mapErr *model.MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Contains(t, mapErr.Reason, "not in the active parameter table")
}

func TestLoad_RejectsUnknownSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.tsv")
	content := "# mcdata v9\n# A\tH2 Cost\n# A > Value\n# value\n# [0, 1]\n0.5\t1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path, testTree(t), activeDecls())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema")
}

func TestLoad_TruncatedHeaderFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.tsv")
	require.NoError(t, os.WriteFile(path, []byte("# mcdata v1\n# A\tH2 Cost\n0.5\t1\n"), 0o644))

	_, err := Load(path, testTree(t), activeDecls())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestLoad_RaggedRowFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.tsv")
	require.NoError(t, Save(path, testDataset()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(raw, []byte("1\t2\n")...), 0o644))

	_, err = Load(path, testTree(t), activeDecls())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fields")
}
