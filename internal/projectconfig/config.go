// Package projectconfig provides the ProjectConfig struct and loader for
// .qagen.yaml configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up from the working directory.
const FileName = ".qagen.yaml"

// EnvPrefix prefixes every environment variable that overrides a setting.
const EnvPrefix = "QAGEN_"

// Default values for configuration. These are the single source of truth;
// New() references them and no other code should duplicate them.
const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 120

	DefaultOutputDir = "."

	DefaultExportFormat  = "pdf"
	DefaultPageSize      = "A4"
	DefaultFontSize      = 11.0
	DefaultTableFontSize = 10.0

	DefaultServerHost = "127.0.0.1"
	DefaultServerPort = 8080
)

// APIConfig locates the backend.
type APIConfig struct {
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	// Timeout is the per-request limit in seconds.
	Timeout int `yaml:"timeout,omitempty" mapstructure:"timeout"`
	// Endpoints overrides the full URL of individual endpoints.
	Endpoints map[string]string `yaml:"endpoints,omitempty" mapstructure:"endpoints"`
}

// OutputConfig controls where downloaded artifacts are written.
type OutputConfig struct {
	Dir       string `yaml:"dir,omitempty" mapstructure:"dir"`
	Overwrite *bool  `yaml:"overwrite,omitempty" mapstructure:"overwrite"`
}

// ExportConfig holds feedback document settings.
type ExportConfig struct {
	Format        string  `yaml:"format,omitempty" mapstructure:"format"`
	PageSize      string  `yaml:"page_size,omitempty" mapstructure:"page_size"`
	FontSize      float64 `yaml:"font_size,omitempty" mapstructure:"font_size"`
	TableFontSize float64 `yaml:"table_font_size,omitempty" mapstructure:"table_font_size"`
}

// ServerConfig holds mock backend server settings.
type ServerConfig struct {
	Host           string   `yaml:"host,omitempty" mapstructure:"host"`
	Port           int      `yaml:"port,omitempty" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty" mapstructure:"allowed_origins"`
}

// ProjectConfig is the top-level configuration loaded from .qagen.yaml.
type ProjectConfig struct {
	API    APIConfig    `yaml:"api,omitempty" mapstructure:"api"`
	Output OutputConfig `yaml:"output,omitempty" mapstructure:"output"`
	Export ExportConfig `yaml:"export,omitempty" mapstructure:"export"`
	Server ServerConfig `yaml:"server,omitempty" mapstructure:"server"`

	// Path is the file the configuration was read from, empty when only
	// defaults apply.
	Path string `yaml:"-" mapstructure:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Output: OutputConfig{
			Dir:       DefaultOutputDir,
			Overwrite: boolPtr(false),
		},
		Export: ExportConfig{
			Format:        DefaultExportFormat,
			PageSize:      DefaultPageSize,
			FontSize:      DefaultFontSize,
			TableFontSize: DefaultTableFontSize,
		},
		Server: ServerConfig{
			Host: DefaultServerHost,
			Port: DefaultServerPort,
		},
	}
}

// RequestTimeout is API.Timeout as a duration.
func (c *ProjectConfig) RequestTimeout() time.Duration {
	return time.Duration(c.API.Timeout) * time.Second
}

// Load finds .qagen.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	fileCfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	mergeConfig(cfg, fileCfg)
	cfg.Path = path
	return cfg, nil
}

// LoadFile reads an explicit configuration file. Unlike Load, a missing
// file is an error.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	fileCfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg := New()
	mergeConfig(cfg, fileCfg)
	cfg.Path = path
	return cfg, nil
}

// Parse unmarshals configuration YAML without applying defaults.
func Parse(data []byte) (*ProjectConfig, error) {
	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return &fileCfg, nil
}

// findConfigFile walks up from dir looking for .qagen.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) (string, []byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
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

// envKeys maps environment variable suffixes to configuration keys.
var envKeys = map[string][2]string{
	"API_URL":          {"api", "base_url"},
	"API_TIMEOUT":      {"api", "timeout"},
	"OUTPUT_DIR":       {"output", "dir"},
	"OUTPUT_OVERWRITE": {"output", "overwrite"},
	"EXPORT_FORMAT":    {"export", "format"},
	"EXPORT_PAGE_SIZE": {"export", "page_size"},
	"SERVER_HOST":      {"server", "host"},
	"SERVER_PORT":      {"server", "port"},
}

// ApplyEnv overlays QAGEN_* variables from environ (os.Environ format)
// onto cfg. Values are decoded with weak typing, so QAGEN_API_TIMEOUT=30
// and QAGEN_OUTPUT_OVERWRITE=true work as expected.
func ApplyEnv(cfg *ProjectConfig, environ []string) error {
	raw := map[string]any{}
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) || value == "" {
			continue
		}
		key, known := envKeys[strings.TrimPrefix(name, EnvPrefix)]
		if !known {
			continue
		}
		section, _ := raw[key[0]].(map[string]any)
		if section == nil {
			section = map[string]any{}
			raw[key[0]] = section
		}
		section[key[1]] = value
	}
	if len(raw) == 0 {
		return nil
	}

	var envCfg ProjectConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &envCfg,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("decoding %s environment: %w", EnvPrefix, err)
	}
	mergeConfig(cfg, &envCfg)
	return nil
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// API
	if src.API.BaseURL != "" {
		dst.API.BaseURL = src.API.BaseURL
	}
	if src.API.Timeout != 0 {
		dst.API.Timeout = src.API.Timeout
	}
	for name, url := range src.API.Endpoints {
		if url == "" {
			continue
		}
		if dst.API.Endpoints == nil {
			dst.API.Endpoints = map[string]string{}
		}
		dst.API.Endpoints[name] = url
	}

	// Output
	if src.Output.Dir != "" {
		dst.Output.Dir = src.Output.Dir
	}
	if src.Output.Overwrite != nil {
		dst.Output.Overwrite = src.Output.Overwrite
	}

	// Export
	if src.Export.Format != "" {
		dst.Export.Format = src.Export.Format
	}
	if src.Export.PageSize != "" {
		dst.Export.PageSize = src.Export.PageSize
	}
	if src.Export.FontSize != 0 {
		dst.Export.FontSize = src.Export.FontSize
	}
	if src.Export.TableFontSize != 0 {
		dst.Export.TableFontSize = src.Export.TableFontSize
	}

	// Server
	if src.Server.Host != "" {
		dst.Server.Host = src.Server.Host
	}
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if len(src.Server.AllowedOrigins) > 0 {
		dst.Server.AllowedOrigins = src.Server.AllowedOrigins
	}
}

func boolPtr(b bool) *bool {
	return &b
}
