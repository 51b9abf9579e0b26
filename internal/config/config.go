package config

import (
	stderrors "errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"statdesc/domain/dataset"
	"statdesc/internal"
	"statdesc/internal/errors"
)

// EnvPrefix is prepended to every environment override, e.g.
// STATDESC_ANALYSIS_ALPHA.
const EnvPrefix = "STATDESC"

// Formats lists the report formats the CLI can write.
var Formats = []string{"text", "markdown", "html", "json", "yaml"}

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Input    InputConfig    `mapstructure:"input" yaml:"input"`
	Report   ReportConfig   `mapstructure:"report" yaml:"report"`
	Plot     PlotConfig     `mapstructure:"plot" yaml:"plot"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// AnalysisConfig holds the request defaults for every description
type AnalysisConfig struct {
	Alpha   float64  `mapstructure:"alpha" yaml:"alpha"`
	Show    int      `mapstructure:"show" yaml:"show"`
	Missing string   `mapstructure:"missing" yaml:"missing"`
	Labels  []string `mapstructure:"labels" yaml:"labels"`
}

// InputConfig holds table reader settings
type InputConfig struct {
	Sheet     string `mapstructure:"sheet" yaml:"sheet"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	Header    bool   `mapstructure:"header" yaml:"header"`
}

// ReportConfig selects the report writer
type ReportConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// PlotConfig holds renderer settings. An empty Dir disables plotting.
type PlotConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir"`
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Missing parses the configured missing-value marker.
func (c *Config) Missing() (dataset.MissingSpec, error) {
	return dataset.ParseMissing(c.Analysis.Missing)
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() internal.LogLevel {
	level, err := internal.ParseLogLevel(c.Log.Level)
	if err != nil {
		return internal.LogLevelInfo
	}
	return level
}

// DelimiterRune returns the CSV field separator.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Input.Delimiter)
	return r
}

// Load reads configuration from defaults, an optional YAML file, an
// optional .env file and STATDESC_* environment variables, then validates it.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(errors.WithCode(errors.CodeConfigInvalid, err), "failed to read %s", cfgFile)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("statdesc")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "failed to read statdesc.yaml")
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "failed to decode configuration")
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &c, nil
}

// Default returns the configuration without any file or environment input.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return &c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.alpha", 0.05)
	v.SetDefault("analysis.show", 2)
	v.SetDefault("analysis.missing", "nan")
	v.SetDefault("analysis.labels", []string{})
	v.SetDefault("input.sheet", "")
	v.SetDefault("input.delimiter", ",")
	v.SetDefault("input.header", true)
	v.SetDefault("report.format", "text")
	v.SetDefault("plot.dir", "")
	v.SetDefault("plot.width", 700)
	v.SetDefault("plot.height", 500)
	v.SetDefault("log.level", "INFO")
}

// Validate checks every field that later stages would otherwise reject.
func (c *Config) Validate() error {
	if !(c.Analysis.Alpha > 0 && c.Analysis.Alpha < 1) {
		return errors.ConfigInvalid(fmt.Sprintf("analysis.alpha must be in (0, 1), got %v", c.Analysis.Alpha))
	}
	if c.Analysis.Show < 0 || c.Analysis.Show > 2 {
		return errors.ConfigInvalid(fmt.Sprintf("analysis.show must be 0, 1 or 2, got %d", c.Analysis.Show))
	}
	if _, err := c.Missing(); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	if utf8.RuneCountInString(c.Input.Delimiter) != 1 {
		return errors.ConfigInvalid(fmt.Sprintf("input.delimiter must be a single character, got %q", c.Input.Delimiter))
	}
	if !knownFormat(c.Report.Format) {
		return errors.ConfigInvalid(fmt.Sprintf("report.format must be one of %s, got %q", strings.Join(Formats, ", "), c.Report.Format))
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return errors.ConfigInvalid("plot size must be positive")
	}
	if _, err := internal.ParseLogLevel(c.Log.Level); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	return nil
}

func knownFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}
