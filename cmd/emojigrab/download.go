package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"emojigrab/pkg/config"
	"emojigrab/pkg/grabber"
	"emojigrab/pkg/logger"
	"emojigrab/pkg/ui"
	"emojigrab/pkg/ui/tui"
)

var (
	// Download command flags
	outputDir  string
	categories []string
	concurrent int
	proxyURL   string
	timeout    string
	overwrite  bool
	useTUI     bool
	assumeYes  bool
	noManifest bool
	strictMode bool
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download [instance]",
	Short: "Download custom emojis from an instance",
	Long: `Download the custom emojis of a Misskey instance.

The emoji list is fetched from https://<instance>/api/emojis. The categories
are listed and you pick them by number; an empty answer picks all of them.
Each emoji is saved as <output>/<category>/<name>.<ext>, with the extension
taken from the server's Content-Type.

Existing files are kept unless --overwrite is given. A manifest.json listing
every processed emoji is written into the output directory.`,
	Example: `  # Ask for everything interactively
  emojigrab

  # Download two categories without prompts
  emojigrab download misskey.io --category Blobs --category Foxes --yes

  # Pick categories in a checkbox list and save below ./emojis
  emojigrab misskey.io --tui -o ./emojis

  # Go through a local proxy with fewer workers
  emojigrab misskey.io --proxy http://127.0.0.1:8080 --concurrent 4`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDownload,
}

func addDownloadFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&outputDir, "output", "o", "", "output directory (default ./myEmojis)")
	flags.StringSliceVar(&categories, "category", nil, "category to download, repeatable (default: ask)")
	flags.IntVar(&concurrent, "concurrent", config.DefaultConcurrentDownloads, "number of concurrent downloads")
	flags.StringVar(&proxyURL, "proxy", "", "proxy URL, e.g. http://127.0.0.1:8080")
	flags.StringVar(&timeout, "timeout", "", "HTTP timeout per request, e.g. 30s")
	flags.BoolVar(&overwrite, "overwrite", false, "replace files that already exist")
	flags.BoolVar(&useTUI, "tui", false, "pick categories in an interactive checkbox list")
	flags.BoolVarP(&assumeYes, "yes", "y", false, "never prompt; download all categories unless --category is given")
	flags.BoolVar(&noManifest, "no-manifest", false, "do not write manifest.json")
	flags.BoolVar(&strictMode, "strict", false, "exit with status 2 when any emoji failed")
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	addDownloadFlags(downloadCmd.Flags())
	// the bare root command downloads too
	addDownloadFlags(rootCmd.Flags())
}

// buildFlagMap collects the flags the user actually set
func buildFlagMap(flags *pflag.FlagSet) (map[string]interface{}, error) {
	m := make(map[string]interface{})

	if flags.Changed("output") {
		m["output"] = outputDir
	}
	if flags.Changed("category") {
		m["categories"] = categories
	}
	if flags.Changed("concurrent") {
		m["concurrent-downloads"] = concurrent
	}
	if flags.Changed("proxy") {
		m["proxy"] = proxyURL
	}
	if flags.Changed("timeout") {
		d, err := parseTimeout(timeout)
		if err != nil {
			return nil, err
		}
		m["timeout"] = d
	}
	if flags.Changed("overwrite") {
		m["overwrite"] = overwrite
	}
	if flags.Changed("no-manifest") {
		m["save-manifest"] = !noManifest
	}
	if flags.Changed("notifications") {
		m["notifications"] = notifications
	}

	if flags.Changed("log-level") {
		m["log-level"] = logLevel
	}

	return m, nil
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flags, err := buildFlagMap(cmd.Flags())
	if err != nil {
		return fail(1, "Invalid flag", err)
	}
	if len(args) == 1 {
		flags["instance"] = strings.TrimSpace(args[0])
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return fail(1, "Failed to load configuration", err)
	}

	// progress mode: unless asked otherwise only errors reach the console
	if !verbose && !cmd.Flags().Changed("log-level") && cfg.Logging.Level == config.DefaultConfig().Logging.Level {
		cfg.Logging.Level = "error"
	}

	logger.Version = version
	if err := logger.Initialize(&cfg.Logging, !noColor && logger.StderrColor()); err != nil {
		return fail(1, "Failed to initialize logger", err)
	}
	log := logger.GetLogger()
	log.Info("emojigrab starting")

	out := cmd.OutOrStdout()
	prompter := ui.NewPrompter(cmd.InOrStdin(), out)
	interactive := !assumeYes

	if cfg.Instance.Host == "" {
		if !interactive {
			return fail(1, "No instance given", errors.New("pass it as argument, in the config file or as EMOJIGRAB_INSTANCE"))
		}
		if cfg.Instance.Host, err = prompter.AskInstance(); err != nil {
			return fail(1, "Failed to read instance", err)
		}
	}

	if interactive && cfg.Instance.Proxy == "" && !cmd.Flags().Changed("proxy") {
		if cfg.Instance.Proxy, err = prompter.AskProxy(); err != nil {
			return fail(1, "Failed to read proxy", err)
		}
	}

	if interactive && cfg.Download.OverwriteExisting {
		if cfg.Download.OverwriteExisting, err = prompter.Confirm("Replace existing files?", true); err != nil {
			return fail(1, "Failed to read answer", err)
		}
	}

	opts := grabber.Options{
		Instance: cfg.Instance.Host,
		Config:   cfg,
		Progress: out,
		Verbose:  verbose,
		Logger:   log,
	}

	switch {
	case len(cfg.Download.Categories) > 0 || !interactive:
		opts.Selector = grabber.StaticSelector{Names: cfg.Download.Categories}
	case useTUI:
		opts.Selector = tui.NewPicker(nil, nil)
	default:
		opts.Selector = prompter
	}

	if interactive && !cmd.Flags().Changed("output") {
		opts.Directory = prompter
	}

	ui.PrintInfo("Instance", cfg.Instance.Host)
	if cfg.Instance.Proxy != "" {
		ui.PrintInfo("Proxy", cfg.Instance.Proxy)
	}

	notifier := ui.NewNotifier(out, cfg.Notifications.Enabled)

	summary, err := grabber.Run(ctx, opts)
	if err != nil && summary == nil {
		// reported to the user below; the log only keeps it for debugging
		log.WithError(err).Debug("Run aborted")
		if cfg.Notifications.OnError {
			notifier.SendError("emojigrab failed", err.Error())
		} else {
			ui.PrintError("Download failed", err.Error())
		}
		return &exitError{code: 1, err: err}
	}

	printFailures(summary)

	if err != nil {
		// interrupted after downloads had started
		ui.PrintWarning("Download interrupted", err)
		return &exitError{code: 1, err: err}
	}

	if summary.ManifestPath != "" {
		ui.PrintInfo("Manifest", summary.ManifestPath)
	}

	if cfg.Notifications.OnComplete {
		notifier.SendSuccess("emojigrab finished", completionMessage(summary))
	}

	if strictMode && summary.Failed > 0 {
		return &exitError{code: 2, err: fmt.Errorf("%d emojis failed", summary.Failed)}
	}
	return nil
}

func printFailures(summary *grabber.Summary) {
	if len(summary.Failures) == 0 {
		return
	}

	ui.PrintWarning(fmt.Sprintf("%d emojis could not be downloaded:", len(summary.Failures)))
	for _, f := range summary.Failures {
		ui.PrintError(fmt.Sprintf("  %s/%s", f.Category, f.Name), f.Err)
	}
}

func completionMessage(summary *grabber.Summary) string {
	msg := fmt.Sprintf("%d of %d emojis saved to %s", summary.Downloaded, summary.Total, summary.OutputDir)
	if summary.Skipped > 0 {
		msg += fmt.Sprintf(", %d skipped", summary.Skipped)
	}
	if summary.Failed > 0 {
		msg += fmt.Sprintf(", %d failed", summary.Failed)
	}
	return msg
}

// parseTimeout accepts a Go duration or a bare number of seconds
func parseTimeout(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("timeout must be positive")
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive")
	}
	return d, nil
}
