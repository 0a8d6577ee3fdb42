package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
)

func TestMonteCarloConfig_Window(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    model.Window
		wantErr bool
	}{
		{name: "plain", raw: "1.5; 1.54", want: model.Window{Low: 1.5, High: 1.54}},
		{name: "reversed endpoints", raw: "1.54; 1.5", want: model.Window{Low: 1.5, High: 1.54}},
		{name: "comma thousands", raw: "1,000; 2,500", want: model.Window{Low: 1000, High: 2500}},
		{name: "missing delimiter", raw: "1.5", wantErr: true},
		{name: "too many parts", raw: "1; 2; 3", wantErr: true},
		{name: "not a number", raw: "low; high", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, err := MonteCarloConfig{TargetWindow: tc.raw}.Window()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, w)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Run from an empty directory so no config file is picked up.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10000, cfg.MonteCarlo.Samples)
	assert.Equal(t, uint64(1), cfg.MonteCarlo.Seed)
	assert.Equal(t, "montecarlo_results.tsv", cfg.MonteCarlo.OutputFile)
	assert.Equal(t, "cityblock", cfg.Analysis.Metric)
	assert.Equal(t, 25, cfg.Analysis.ReductionFactor)
	assert.Equal(t, 4, cfg.Analysis.PolyOrder)
	assert.Equal(t, "runs.db", cfg.RunLog.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	content := `
model:
  path: model.yaml
montecarlo:
  samples: 500
  seed: 42
  target_window: "1.5; 1.54"
parameters:
  - path: Catalyst > Cost per kg ($) > Value
    name: Catalyst Cost
    type: value
    values: Base; 20
analysis:
  metric: euclidean
  log_normalize: true
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "model.yaml", cfg.Model.Path)
	assert.Equal(t, 500, cfg.MonteCarlo.Samples)
	assert.Equal(t, uint64(42), cfg.MonteCarlo.Seed)
	assert.Equal(t, "euclidean", cfg.Analysis.Metric)
	assert.True(t, cfg.Analysis.LogNormalize)
	assert.Equal(t, 25, cfg.Analysis.ReductionFactor, "defaults fill unset keys")

	require.Len(t, cfg.Parameters, 1)
	assert.Equal(t, "Catalyst Cost", cfg.Parameters[0].Name)
	assert.Equal(t, "Base; 20", cfg.Parameters[0].Values)

	w, err := cfg.MonteCarlo.Window()
	require.NoError(t, err)
	assert.Equal(t, model.Window{Low: 1.5, High: 1.54}, w)
}
