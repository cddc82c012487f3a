// Package projectconfig provides the ProjectConfig struct and loader for
// .modelreport.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spboyer/modelreport/internal/utils"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".modelreport.yaml"

// Default values for project configuration. These are the single source of
// truth; New() references them and no other code should duplicate them.
const (
	DefaultArtifactPath = "artifacts/latest_run.json"
	DefaultDatasetPath  = "dataset.csv"
	DefaultPlotsDir     = "artifacts/plots"

	DefaultFormat    = "table"
	DefaultTopN      = 3
	DefaultNameWidth = 32
	DefaultColors    = "auto"

	DefaultPlotWidth    = 1000
	DefaultPlotHeight   = 600
	DefaultPlotFontSize = 12.0

	DefaultCorrelationHead = 11
	DefaultCorrelationTail = 5
)

// maxSearchDepth bounds how many parent directories Load inspects.
const maxSearchDepth = 10

// PathsConfig holds the input and output locations.
type PathsConfig struct {
	Artifact string `yaml:"artifact,omitempty"`
	Dataset  string `yaml:"dataset,omitempty"`
	Plots    string `yaml:"plots,omitempty"`
}

// ReportConfig holds leaderboard rendering settings.
type ReportConfig struct {
	Format    string `yaml:"format,omitempty"`
	TopN      int    `yaml:"top_n,omitempty"`
	NameWidth int    `yaml:"name_width,omitempty"`
	Colors    string `yaml:"colors,omitempty"`
}

// PlotsConfig holds image geometry for the diagnostic views.
type PlotsConfig struct {
	Width    int     `yaml:"width,omitempty"`
	Height   int     `yaml:"height,omitempty"`
	FontSize float64 `yaml:"font_size,omitempty"`
	Parallel *bool   `yaml:"parallel,omitempty"`

	// Engineered skips deriving feature columns from raw dataset columns.
	Engineered bool `yaml:"engineered,omitempty"`
}

// CorrelationConfig holds the heatmap feature windows.
type CorrelationConfig struct {
	Head int `yaml:"head,omitempty"`
	Tail int `yaml:"tail,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .modelreport.yaml.
type ProjectConfig struct {
	Paths       PathsConfig       `yaml:"paths,omitempty"`
	Report      ReportConfig      `yaml:"report,omitempty"`
	Plots       PlotsConfig       `yaml:"plots,omitempty"`
	Correlation CorrelationConfig `yaml:"correlation,omitempty"`

	// Source is the config file that was loaded, empty when defaults are used.
	Source string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Artifact: DefaultArtifactPath,
			Dataset:  DefaultDatasetPath,
			Plots:    DefaultPlotsDir,
		},
		Report: ReportConfig{
			Format:    DefaultFormat,
			TopN:      DefaultTopN,
			NameWidth: DefaultNameWidth,
			Colors:    DefaultColors,
		},
		Plots: PlotsConfig{
			Width:    DefaultPlotWidth,
			Height:   DefaultPlotHeight,
			FontSize: DefaultPlotFontSize,
			Parallel: utils.Ptr(true),
		},
		Correlation: CorrelationConfig{
			Head: DefaultCorrelationHead,
			Tail: DefaultCorrelationTail,
		},
	}
}

// Load finds .modelreport.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults. Relative paths
// are resolved against the directory holding the file.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	return decode(cfg, path, data)
}

// LoadFile reads an explicit config file. Unlike Load, a missing file is
// an error.
func LoadFile(path string) (*ProjectConfig, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return decode(New(), abs, data)
}

func decode(cfg *ProjectConfig, path string, data []byte) (*ProjectConfig, error) {
	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Source = path

	resolved := utils.ResolvePaths([]string{cfg.Paths.Artifact, cfg.Paths.Dataset, cfg.Paths.Plots}, filepath.Dir(path))
	cfg.Paths.Artifact, cfg.Paths.Dataset, cfg.Paths.Plots = resolved[0], resolved[1], resolved[2]

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values no command can work with.
func (c *ProjectConfig) Validate() error {
	var errs []error
	if c.Report.TopN < 0 {
		errs = append(errs, fmt.Errorf("report.top_n must not be negative, got %d", c.Report.TopN))
	}
	if c.Report.NameWidth < 0 {
		errs = append(errs, fmt.Errorf("report.name_width must not be negative, got %d", c.Report.NameWidth))
	}
	if c.Plots.Width < 0 || c.Plots.Height < 0 {
		errs = append(errs, fmt.Errorf("plots.width and plots.height must not be negative"))
	}
	if c.Correlation.Head < 0 || c.Correlation.Tail < 0 {
		errs = append(errs, fmt.Errorf("correlation.head and correlation.tail must not be negative"))
	}
	return errors.Join(errs...)
}

// findConfigFile walks up from dir looking for .modelreport.yaml.
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) (string, []byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxSearchDepth; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	if src.Paths.Artifact != "" {
		dst.Paths.Artifact = src.Paths.Artifact
	}
	if src.Paths.Dataset != "" {
		dst.Paths.Dataset = src.Paths.Dataset
	}
	if src.Paths.Plots != "" {
		dst.Paths.Plots = src.Paths.Plots
	}

	// Report
	if src.Report.Format != "" {
		dst.Report.Format = src.Report.Format
	}
	if src.Report.TopN != 0 {
		dst.Report.TopN = src.Report.TopN
	}
	if src.Report.NameWidth != 0 {
		dst.Report.NameWidth = src.Report.NameWidth
	}
	if src.Report.Colors != "" {
		dst.Report.Colors = src.Report.Colors
	}

	// Plots
	if src.Plots.Width != 0 {
		dst.Plots.Width = src.Plots.Width
	}
	if src.Plots.Height != 0 {
		dst.Plots.Height = src.Plots.Height
	}
	if src.Plots.FontSize != 0 {
		dst.Plots.FontSize = src.Plots.FontSize
	}
	if src.Plots.Parallel != nil {
		dst.Plots.Parallel = src.Plots.Parallel
	}
	if src.Plots.Engineered {
		dst.Plots.Engineered = true
	}

	// Correlation
	if src.Correlation.Head != 0 {
		dst.Correlation.Head = src.Correlation.Head
	}
	if src.Correlation.Tail != 0 {
		dst.Correlation.Tail = src.Correlation.Tail
	}
}
