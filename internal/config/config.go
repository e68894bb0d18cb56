// Package config provides configuration management for the ppt2pdf tools.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/franklee83/ppt2pdf-plus/internal/logger"
	"github.com/franklee83/ppt2pdf-plus/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "config.json"
	// EnvConfigPath overrides the configuration file location
	EnvConfigPath = "PPT2PDF_CONFIG"
	// DefaultConversionTimeoutSeconds bounds a single LibreOffice run
	DefaultConversionTimeoutSeconds = 300
	// DefaultEngine picks LibreOffice when installed, the builtin renderer otherwise
	DefaultEngine = "auto"
	// DefaultRenderWidth is the slide image width used by the builtin engine
	DefaultRenderWidth = 1920
	// DefaultLogLevel is the console/file log level when none is configured
	DefaultLogLevel = "warn"
)

// ConfigManager manages application configuration
type ConfigManager struct {
	configPath string
	config     *types.Config
	warnings   []string
}

// NewConfigManager creates a new ConfigManager with the specified config path.
// If configPath is empty, $PPT2PDF_CONFIG is used, then the default path in
// the user's home directory.
func NewConfigManager(configPath string) (*ConfigManager, error) {
	if configPath == "" {
		configPath = os.Getenv(EnvConfigPath)
	}
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "ppt2pdf-plus", DefaultConfigFileName)
	}

	logger.Debug("ConfigManager initialized", logger.String("configPath", configPath))
	return &ConfigManager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	return &types.Config{
		LibreOfficePath:          "",
		ConversionTimeoutSeconds: DefaultConversionTimeoutSeconds,
		Engine:                   DefaultEngine,
		RenderWidth:              DefaultRenderWidth,
		LogLevel:                 DefaultLogLevel,
	}
}

// Load loads configuration from the config file.
// A missing file means defaults and an unreadable file is an error. Invalid
// JSON is replaced by defaults and recorded in Warnings.
func (m *ConfigManager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
			return nil
		}
		logger.Error("failed to read config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to read config file", err)
	}

	config := &types.Config{}
	if err := json.Unmarshal(data, config); err != nil {
		logger.Warn("invalid config file format, using defaults", logger.String("path", m.configPath), logger.Err(err))
		m.warnings = append(m.warnings, fmt.Sprintf("invalid config file %s, using defaults: %v", m.configPath, err))
		m.config = defaultConfig()
		return nil
	}

	logger.Info("configuration loaded successfully",
		logger.String("path", m.configPath),
		logger.String("engine", config.Engine),
		logger.Int("fontPaths", len(config.FontPaths)),
		logger.Int("fontDirs", len(config.FontDirs)))
	m.config = config

	// Apply defaults for empty fields
	if m.config.ConversionTimeoutSeconds <= 0 {
		m.config.ConversionTimeoutSeconds = DefaultConversionTimeoutSeconds
	}
	if m.config.Engine == "" {
		m.config.Engine = DefaultEngine
	}
	if m.config.RenderWidth <= 0 {
		m.config.RenderWidth = DefaultRenderWidth
	}
	if m.config.LogLevel == "" {
		m.config.LogLevel = DefaultLogLevel
	}

	return nil
}

// Warnings returns the non-fatal problems found by Load.
func (m *ConfigManager) Warnings() []string {
	return m.warnings
}

// GetConfigPath returns the path to the config file.
func (m *ConfigManager) GetConfigPath() string {
	return m.configPath
}

// GetLibreOfficePath returns the configured converter binary, or "" for auto-detection.
func (m *ConfigManager) GetLibreOfficePath() string {
	if m.config != nil {
		return m.config.LibreOfficePath
	}
	return ""
}

// GetConversionTimeout returns the conversion timeout.
func (m *ConfigManager) GetConversionTimeout() time.Duration {
	if m.config != nil && m.config.ConversionTimeoutSeconds > 0 {
		return time.Duration(m.config.ConversionTimeoutSeconds) * time.Second
	}
	return DefaultConversionTimeoutSeconds * time.Second
}

// GetEngine returns the conversion engine name.
func (m *ConfigManager) GetEngine() string {
	if m.config != nil && m.config.Engine != "" {
		return m.config.Engine
	}
	return DefaultEngine
}

// GetRenderWidth returns the builtin engine's slide width in pixels.
func (m *ConfigManager) GetRenderWidth() int {
	if m.config != nil && m.config.RenderWidth > 0 {
		return m.config.RenderWidth
	}
	return DefaultRenderWidth
}

// GetFontPaths returns extra CJK font candidates from the config file.
func (m *ConfigManager) GetFontPaths() []string {
	if m.config != nil {
		return m.config.FontPaths
	}
	return nil
}

// GetFontDirs returns extra font directories to scan.
func (m *ConfigManager) GetFontDirs() []string {
	if m.config != nil {
		return m.config.FontDirs
	}
	return nil
}

// GetLogFile returns the log file path, "" when file logging is off.
func (m *ConfigManager) GetLogFile() string {
	if m.config != nil {
		return m.config.LogFile
	}
	return ""
}

// GetLogLevel returns the configured log level name.
func (m *ConfigManager) GetLogLevel() string {
	if m.config != nil && m.config.LogLevel != "" {
		return m.config.LogLevel
	}
	return DefaultLogLevel
}
