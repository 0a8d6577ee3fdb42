// Package config loads the application configuration and initializes the
// global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
	"github.com/solarfuels-group/montecarlo-cli/internal/tree"
)

// Config holds the full application configuration.
type Config struct {
	Model      ModelConfig         `yaml:"model" mapstructure:"model"`
	MonteCarlo MonteCarloConfig    `yaml:"montecarlo" mapstructure:"montecarlo"`
	Analysis   AnalysisConfig      `yaml:"analysis" mapstructure:"analysis"`
	Parameters []model.Declaration `yaml:"parameters" mapstructure:"parameters"`
	RunLog     RunLogConfig        `yaml:"runlog" mapstructure:"runlog"`
	Log        LogConfig           `yaml:"log" mapstructure:"log"`
}

// ModelConfig locates the techno-economic model input file.
type ModelConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// MonteCarloConfig configures sampling and evaluation.
type MonteCarloConfig struct {
	Samples      int    `yaml:"samples" mapstructure:"samples"`
	Seed         uint64 `yaml:"seed" mapstructure:"seed"`
	Workers      int    `yaml:"workers" mapstructure:"workers"` // 0 = logical CPU count
	OutputFile   string `yaml:"output_file" mapstructure:"output_file"`
	InputFile    string `yaml:"input_file" mapstructure:"input_file"`
	TargetWindow string `yaml:"target_window" mapstructure:"target_window"` // "low; high", order-independent
}

// AnalysisConfig configures distance computation and curve smoothing.
type AnalysisConfig struct {
	Metric          string `yaml:"metric" mapstructure:"metric"`
	LogNormalize    bool   `yaml:"log_normalize" mapstructure:"log_normalize"`
	ReductionFactor int    `yaml:"reduction_factor" mapstructure:"reduction_factor"`
	PolyOrder       int    `yaml:"poly_order" mapstructure:"poly_order"`
}

// RunLogConfig locates the run-history database.
type RunLogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Window parses the configured target cost window. Endpoint order is
// irrelevant.
func (c MonteCarloConfig) Window() (model.Window, error) {
	parts := strings.Split(c.TargetWindow, ";")
	if len(parts) != 2 {
		return model.Window{}, eris.Errorf("config: target window %q must be two ';'-delimited values", c.TargetWindow)
	}
	low, err := tree.ParseNumber(parts[0])
	if err != nil {
		return model.Window{}, eris.Wrap(err, "config: target window low endpoint")
	}
	high, err := tree.ParseNumber(parts[1])
	if err != nil {
		return model.Window{}, eris.Wrap(err, "config: target window high endpoint")
	}
	if low > high {
		low, high = high, low
	}
	return model.Window{Low: low, High: high}, nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MONTECARLO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("montecarlo.samples", 10000)
	v.SetDefault("montecarlo.seed", 1)
	v.SetDefault("montecarlo.output_file", "montecarlo_results.tsv")
	v.SetDefault("analysis.metric", "cityblock")
	v.SetDefault("analysis.reduction_factor", 25)
	v.SetDefault("analysis.poly_order", 4)
	v.SetDefault("runlog.path", "runs.db")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !eris.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
