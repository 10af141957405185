package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConcurrentDownloads is the number of download workers
	DefaultConcurrentDownloads = 16

	// MaxConcurrentDownloads is the upper bound accepted by Validate
	MaxConcurrentDownloads = 64

	// DefaultUncategorizedLabel is used as directory name for emojis without a category
	DefaultUncategorizedLabel = "Uncategorized"
)

// Config holds all configuration options for the emoji grabber
type Config struct {
	// Remote instance settings
	Instance InstanceConfig `yaml:"instance" json:"instance"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Manifest settings
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstanceConfig holds the remote instance and HTTP settings
type InstanceConfig struct {
	Host      string        `yaml:"host" json:"host"`
	Proxy     string        `yaml:"proxy" json:"proxy"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	ConcurrentDownloads int      `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	Categories          []string `yaml:"categories" json:"categories"`
	UncategorizedLabel  string   `yaml:"uncategorized_label" json:"uncategorized_label"`
	OverwriteExisting   bool     `yaml:"overwrite_existing" json:"overwrite_existing"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory   string `yaml:"base_directory" json:"base_directory"`
	DirPermissions  string `yaml:"dir_permissions" json:"dir_permissions"`
	FilePermissions string `yaml:"file_permissions" json:"file_permissions"`
}

// StorageConfig controls the run manifest
type StorageConfig struct {
	SaveManifest bool   `yaml:"save_manifest" json:"save_manifest"`
	ManifestName string `yaml:"manifest_name" json:"manifest_name"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled    bool `yaml:"enabled" json:"enabled"`
	OnComplete bool `yaml:"on_complete" json:"on_complete"`
	OnError    bool `yaml:"on_error" json:"on_error"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instance: InstanceConfig{
			UserAgent: "emojigrab/1.0 (+https://github.com/emojigrab/emojigrab)",
			Timeout:   30 * time.Second,
		},
		Download: DownloadConfig{
			ConcurrentDownloads: DefaultConcurrentDownloads,
			UncategorizedLabel:  DefaultUncategorizedLabel,
			OverwriteExisting:   false,
		},
		Output: OutputConfig{
			BaseDirectory:   "./myEmojis",
			DirPermissions:  "0755",
			FilePermissions: "0644",
		},
		Storage: StorageConfig{
			SaveManifest: true,
			ManifestName: "manifest.json",
		},
		Notifications: NotificationConfig{
			Enabled:    false,
			OnComplete: true,
			OnError:    true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if host := os.Getenv("EMOJIGRAB_INSTANCE"); host != "" {
		c.Instance.Host = host
	}
	if proxy := os.Getenv("EMOJIGRAB_PROXY"); proxy != "" {
		c.Instance.Proxy = proxy
	}
	if userAgent := os.Getenv("EMOJIGRAB_USER_AGENT"); userAgent != "" {
		c.Instance.UserAgent = userAgent
	}
	if timeout := os.Getenv("EMOJIGRAB_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("EMOJIGRAB_TIMEOUT: %w", err))
		} else {
			c.Instance.Timeout = d
		}
	}

	if outputDir := os.Getenv("EMOJIGRAB_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}

	if concurrent := os.Getenv("EMOJIGRAB_CONCURRENT_DOWNLOADS"); concurrent != "" {
		val, err := strconv.Atoi(concurrent)
		if err != nil {
			errs = append(errs, fmt.Errorf("EMOJIGRAB_CONCURRENT_DOWNLOADS: %w", err))
		} else if val > 0 {
			c.Download.ConcurrentDownloads = val
		}
	}
	if categories := os.Getenv("EMOJIGRAB_CATEGORIES"); categories != "" {
		c.Download.Categories = splitList(categories)
	}
	if overwrite := os.Getenv("EMOJIGRAB_OVERWRITE"); overwrite != "" {
		c.Download.OverwriteExisting = strings.ToLower(overwrite) == "true"
	}

	if notifEnabled := os.Getenv("EMOJIGRAB_NOTIFICATIONS_ENABLED"); notifEnabled != "" {
		c.Notifications.Enabled = strings.ToLower(notifEnabled) == "true"
	}

	if logLevel := os.Getenv("EMOJIGRAB_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("EMOJIGRAB_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// FindConfigFile searches for a config file in the standard locations
func FindConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		"emojigrab.yaml",
		".emojigrab.yaml",
		".emojigrab.yml",
		filepath.Join(home, ".config", "emojigrab", "config.yaml"),
		filepath.Join(home, ".config", "emojigrab", "config.yml"),
		filepath.Join(home, ".emojigrab.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Instance.Timeout <= 0 {
		errs = append(errs, errors.New("instance timeout must be positive"))
	}

	if c.Download.ConcurrentDownloads <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.ConcurrentDownloads > MaxConcurrentDownloads {
		errs = append(errs, fmt.Errorf("concurrent downloads should not exceed %d", MaxConcurrentDownloads))
	}
	if strings.TrimSpace(c.Download.UncategorizedLabel) == "" {
		errs = append(errs, errors.New("uncategorized label is required"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if _, err := parseMode(c.Output.DirPermissions); err != nil {
		errs = append(errs, fmt.Errorf("invalid dir_permissions: %w", err))
	}
	if _, err := parseMode(c.Output.FilePermissions); err != nil {
		errs = append(errs, fmt.Errorf("invalid file_permissions: %w", err))
	}

	if c.Storage.SaveManifest && c.Storage.ManifestName == "" {
		errs = append(errs, errors.New("manifest name is required when save_manifest is enabled"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	return errors.Join(errs...)
}

// DirMode returns the configured directory permissions
func (c *Config) DirMode() os.FileMode {
	mode, err := parseMode(c.Output.DirPermissions)
	if err != nil {
		return 0755
	}
	return mode
}

// FileMode returns the configured file permissions
func (c *Config) FileMode() os.FileMode {
	mode, err := parseMode(c.Output.FilePermissions)
	if err != nil {
		return 0644
	}
	return mode
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map override the loaded values.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if host, ok := flags["instance"].(string); ok && host != "" {
		c.Instance.Host = host
	}
	// an explicitly empty proxy clears the configured one
	if proxy, ok := flags["proxy"].(string); ok {
		c.Instance.Proxy = proxy
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Instance.Timeout = timeout
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if concurrent, ok := flags["concurrent-downloads"].(int); ok {
		c.Download.ConcurrentDownloads = concurrent
	}
	if categories, ok := flags["categories"].([]string); ok && len(categories) > 0 {
		c.Download.Categories = categories
	}
	if overwrite, ok := flags["overwrite"].(bool); ok {
		c.Download.OverwriteExisting = overwrite
	}
	if manifest, ok := flags["save-manifest"].(bool); ok {
		c.Storage.SaveManifest = manifest
	}
	if enabled, ok := flags["notifications"].(bool); ok {
		c.Notifications.Enabled = enabled
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".emojigrab.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func parseMode(s string) (os.FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, err
	}
	return os.FileMode(v), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
