package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"emojigrab/pkg/config"
	"emojigrab/pkg/misskey"
	"emojigrab/pkg/ui"
)

const defaultConfigName = ".emojigrab.yaml"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage emojigrab configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (EMOJIGRAB_*), also read from .env
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created in the current directory as '.emojigrab.yaml'
unless a different path is given with the --config flag.`,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging the configuration file,
environment variables and defaults.`,
	RunE: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Instance and proxy addresses
  - Path accessibility`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# emojigrab configuration file
#
# Every option can also be set through environment variables, for example
# EMOJIGRAB_INSTANCE, EMOJIGRAB_PROXY or EMOJIGRAB_OUTPUT_DIR.
# Variables are read from a .env file in the working directory as well.

# Remote instance
instance:
  # Host of the Misskey instance, e.g. misskey.io
  # Leave empty to be asked
  host: ""

  # Optional proxy, e.g. http://127.0.0.1:8080
  proxy: ""

  # User agent sent with every request
  user_agent: "emojigrab/1.0 (+https://github.com/emojigrab/emojigrab)"

  # Timeout per request
  timeout: 30s

# Download configuration
download:
  # Number of concurrent downloads
  # Range: 1-64
  concurrent_downloads: 16

  # Categories to download without asking
  # Leave empty to choose interactively
  categories: []

  # Directory name for emojis without a category
  uncategorized_label: "Uncategorized"

  # Replace files that already exist
  overwrite_existing: false

# Output configuration
output:
  # Root directory; one sub directory per category is created
  base_directory: "./myEmojis"

  # Directory permissions (octal)
  dir_permissions: "0755"

  # File permissions (octal)
  file_permissions: "0644"

# Run manifest
storage:
  # Write a JSON manifest of every processed emoji
  save_manifest: true
  manifest_name: "manifest.json"

# Desktop notifications
notifications:
  enabled: false
  on_complete: true
  on_error: true

# Logging configuration
logging:
  # Log level: debug, info, warn, error, disabled
  level: "info"

  # Log file path (optional)
  # Leave empty to log to stderr only
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = defaultConfigName
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Fprintf(cmd.OutOrStdout(), "\nTo overwrite, first remove the existing file:\n  rm %s\n", configPath)
		return &exitError{code: 1}
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fail(1, "Failed to create configuration directory", err)
		}
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fail(1, "Failed to create configuration file", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "1. Set instance.host or pass the instance on the command line")
	fmt.Fprintln(out, "2. Run 'emojigrab config validate' to check the configuration")
	fmt.Fprintln(out, "3. Start downloading with 'emojigrab <instance>'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return fail(1, "Failed to load configuration", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fail(1, "Failed to format configuration", err)
	}

	out := cmd.OutOrStdout()
	ui.PrintHighlight("Current Configuration")
	fmt.Fprintln(out)
	fmt.Fprint(out, string(data))

	fmt.Fprintln(out, "\nConfiguration sources (in order of priority):")
	fmt.Fprintln(out, "1. Command line flags")
	fmt.Fprintln(out, "2. Environment variables (EMOJIGRAB_*)")
	switch path := resolveConfigPath(); path {
	case "":
		fmt.Fprintln(out, "3. Configuration file: (none found)")
	default:
		fmt.Fprintf(out, "3. Configuration file: %s\n", path)
	}
	fmt.Fprintln(out, "4. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := resolveConfigPath()
	if path == "" {
		return fail(1, "No configuration file found", fmt.Errorf("specify a file with --config"))
	}

	ui.PrintInfo("Validating configuration", path)

	cfg, err := config.Load(path, nil)
	if err != nil {
		return fail(1, "Configuration validation failed", err)
	}

	warnings, problems := checkConfig(cfg)

	out := cmd.OutOrStdout()
	if len(problems) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, p := range problems {
			fmt.Fprintf(out, "  - %s\n", p)
		}
		return &exitError{code: 1}
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, w := range warnings {
			fmt.Fprintf(out, "  - %s\n", w)
		}
		fmt.Fprintln(out)
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Fprintln(out, "\nConfiguration summary:")
	fmt.Fprintf(out, "  Instance: %s\n", valueOr(cfg.Instance.Host, "(asked at run time)"))
	fmt.Fprintf(out, "  Output directory: %s\n", cfg.Output.BaseDirectory)
	fmt.Fprintf(out, "  Concurrent downloads: %d\n", cfg.Download.ConcurrentDownloads)
	fmt.Fprintf(out, "  Timeout: %s\n", cfg.Instance.Timeout)
	fmt.Fprintf(out, "  Log level: %s\n", cfg.Logging.Level)
	return nil
}

// checkConfig runs the checks that need more than the config values alone
func checkConfig(cfg *config.Config) (warnings, problems []string) {
	if cfg.Instance.Host == "" {
		warnings = append(warnings, "instance host not configured")
	} else if _, err := misskey.EmojisURL(cfg.Instance.Host); err != nil {
		problems = append(problems, fmt.Sprintf("invalid instance: %v", err))
	}

	if cfg.Instance.Proxy != "" {
		if _, err := misskey.NewClient(misskey.ClientOptions{Proxy: cfg.Instance.Proxy}, nil); err != nil {
			problems = append(problems, fmt.Sprintf("invalid proxy: %v", err))
		}
	}

	if err := os.MkdirAll(cfg.Output.BaseDirectory, cfg.DirMode()); err != nil {
		problems = append(problems, fmt.Sprintf("cannot create output directory: %v", err))
	}

	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}

	return warnings, problems
}

func resolveConfigPath() string {
	if configFile != "" {
		return configFile
	}
	return config.FindConfigFile()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
