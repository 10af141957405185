package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"emojigrab/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile    string
	logLevel      string
	noColor       bool
	notifications bool
	quiet         bool
	verbose       bool
)

// exitError carries the process exit status out of a command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// fail reports err and returns an exitError with the given status
func fail(code int, msg string, err error) error {
	if err != nil {
		ui.PrintError(msg, err.Error())
	} else {
		ui.PrintError(msg)
	}
	return &exitError{code: code, err: err}
}

// rootCmd represents the base command; without a subcommand it downloads
var rootCmd = &cobra.Command{
	Use:   "emojigrab [instance]",
	Short: "Download the custom emojis of a Misskey instance",
	Long: `emojigrab fetches the custom emoji list of a Misskey instance and downloads
the images of the categories you pick into one directory per category.

Missing settings are asked for interactively: instance, proxy, categories
and the output directory. Every setting can also come from a configuration
file or EMOJIGRAB_* environment variables.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.Setup(noColor, quiet)

		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Parent() != configCmd {
			ui.PrintLogo()
		}
	},
	RunE: runDownload,
}

// Execute adds all child commands to the root command and exits with the
// status of the command that ran.
func Execute() {
	os.Exit(exitCode(rootCmd.Execute()))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	// flag and argument errors from cobra itself
	fmt.Fprintln(os.Stderr, err)
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.emojigrab.yaml or ~/.config/emojigrab/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notifications", false, "send a desktop notification when the run finishes")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print every emoji and show info logs")

	rootCmd.SetVersionTemplate(`emojigrab {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
