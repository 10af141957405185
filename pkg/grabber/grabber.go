package grabber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"emojigrab/internal/downloader"
	"emojigrab/pkg/config"
	"emojigrab/pkg/emoji"
	"emojigrab/pkg/logger"
	"emojigrab/pkg/metadata"
	"emojigrab/pkg/misskey"
	"emojigrab/pkg/storage"
	"emojigrab/pkg/ui"
)

var (
	// ErrNoEmojis is returned when the instance serves an empty list
	ErrNoEmojis = errors.New("instance has no custom emojis")

	// ErrNothingSelected is returned when no category was chosen
	ErrNothingSelected = errors.New("no categories selected")
)

// Options configures a run
type Options struct {
	// Instance overrides Config.Instance.Host
	Instance string
	Config   *config.Config

	// Client defaults to a misskey.Client built from Config.Instance
	Client Client
	// Selector defaults to StaticSelector over Config.Download.Categories
	Selector Selector
	// Directory is asked for the output directory when set
	Directory DirectoryPrompt

	// Progress receives the progress display; nil discards it
	Progress io.Writer
	Verbose  bool

	Logger logger.Logger
}

// Failure describes an emoji that could not be downloaded
type Failure struct {
	Name     string
	Category string
	URL      string
	Err      error
}

// Summary is the outcome of a run
type Summary struct {
	Instance     string
	OutputDir    string
	ManifestPath string
	Categories   []string

	Total      int
	Downloaded int
	Skipped    int
	Failed     int
	Bytes      int64
	Duration   time.Duration
	Failures   []Failure
}

// Grabber orchestrates the emoji download process
type Grabber struct {
	opts     Options
	instance string
	client   Client
	selector Selector
	config   *config.Config
	logger   logger.Logger

	mu       sync.Mutex
	summary  *Summary
	manifest *metadata.Manifest
	progress *ui.ProgressDisplay
	root     string
}

// New validates options and fills in defaults
func New(opts Options) (*Grabber, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}

	instance := opts.Instance
	if instance == "" {
		instance = cfg.Instance.Host
	}
	if instance == "" {
		return nil, errors.New("no instance given")
	}

	client := opts.Client
	if client == nil {
		c, err := misskey.NewClient(misskey.ClientOptions{
			Timeout:   cfg.Instance.Timeout,
			UserAgent: cfg.Instance.UserAgent,
			Proxy:     cfg.Instance.Proxy,
		}, log)
		if err != nil {
			return nil, err
		}
		client = c
	}

	selector := opts.Selector
	if selector == nil {
		selector = StaticSelector{Names: cfg.Download.Categories}
	}

	if opts.Progress == nil {
		opts.Progress = io.Discard
	}

	return &Grabber{
		opts:     opts,
		instance: instance,
		client:   client,
		selector: selector,
		config:   cfg,
		logger:   log.WithField("instance", instance),
	}, nil
}

// Run is a shorthand for New followed by Grabber.Run
func Run(ctx context.Context, opts Options) (*Summary, error) {
	g, err := New(opts)
	if err != nil {
		return nil, err
	}
	return g.Run(ctx)
}

// Run fetches, selects and downloads. The summary is returned even when
// the run was interrupted.
func (g *Grabber) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	g.summary = &Summary{Instance: g.instance}

	g.logger.Info("Fetching emoji list")
	list, err := g.client.FetchEmojis(ctx, g.instance)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch emoji list: %w", err)
	}
	if len(list.Emojis) == 0 {
		return nil, ErrNoEmojis
	}

	label := g.config.Download.UncategorizedLabel
	categories := emoji.Categories(list.Emojis, label)
	counts := emoji.Count(list.Emojis, label)

	g.logger.InfoWithFields("Emoji list processed", map[string]interface{}{
		"emojis":     len(list.Emojis),
		"categories": len(categories),
	})

	selected, err := g.selector.SelectCategories(categories, counts)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	if len(selected) == 0 {
		return nil, ErrNothingSelected
	}
	g.summary.Categories = selected

	root := g.config.Output.BaseDirectory
	if g.opts.Directory != nil {
		if root, err = g.opts.Directory.AskDirectory(root); err != nil {
			return nil, fmt.Errorf("failed to read output directory: %w", err)
		}
	}

	store, err := storage.NewManager(root, storage.Options{
		DirMode:   g.config.DirMode(),
		FileMode:  g.config.FileMode(),
		Overwrite: g.config.Download.OverwriteExisting,
	})
	if err != nil {
		return nil, err
	}
	g.root = store.Root()
	g.summary.OutputDir = g.root

	emojis := emoji.Filter(list.Emojis, selected, label)
	g.summary.Total = len(emojis)
	g.manifest = metadata.New(g.instance, selected)
	g.progress = ui.NewProgressDisplay(g.opts.Progress, g.instance, len(emojis), g.opts.Verbose)

	g.logger.InfoWithFields("Starting downloads", map[string]interface{}{
		"selected_categories": len(selected),
		"emojis":              len(emojis),
		"output_dir":          g.root,
	})

	g.download(ctx, emojis, label, store)

	if g.config.Storage.SaveManifest {
		path, err := g.manifest.Save(g.root, g.config.Storage.ManifestName, g.config.FileMode())
		if err != nil {
			g.logger.WithError(err).Warn("Failed to save manifest")
		} else {
			g.summary.ManifestPath = path
		}
	}

	g.summary.Duration = time.Since(start)
	g.progress.Complete()

	written, writtenBytes := store.SavedCount()
	logger.LogMetrics(g.logger, "download", map[string]interface{}{
		"total":         g.summary.Total,
		"downloaded":    g.summary.Downloaded,
		"skipped":       g.summary.Skipped,
		"failed":        g.summary.Failed,
		"bytes":         g.summary.Bytes,
		"files_written": written,
		"bytes_written": writtenBytes,
		"duration_ms":   g.summary.Duration.Milliseconds(),
	})

	if err := ctx.Err(); err != nil {
		return g.summary, fmt.Errorf("download interrupted: %w", err)
	}
	return g.summary, nil
}

// download feeds the worker pool and collects its results
func (g *Grabber) download(ctx context.Context, emojis []misskey.Emoji, label string, store *storage.Manager) {
	pool := downloader.NewWorkerPool(g.config.Download.ConcurrentDownloads, g.client, store, g.logger)
	pool.Start(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.processDownloadResults(pool.Results())
	}()

	for _, e := range emojis {
		category := emoji.CategoryOf(e, label)
		job := downloader.Job{
			Emoji:    e,
			Category: category,
			Dir:      emoji.SanitizeFilename(category),
			Name:     emoji.SanitizeFilename(e.Name),
		}

		if job.Dir == "" || job.Name == "" {
			g.record(downloader.Result{Job: job, Status: downloader.StatusSkipped, Reason: "invalid name"})
			continue
		}

		if err := pool.Submit(job); err != nil {
			g.record(downloader.Result{Job: job, Status: downloader.StatusFailed, Err: err})
		}
	}

	pool.Stop()
	wg.Wait()
}

// processDownloadResults processes results from the worker pool
func (g *Grabber) processDownloadResults(results <-chan downloader.Result) {
	for result := range results {
		g.record(result)
	}
}

// record counts one result into the summary, the progress display and the manifest
func (g *Grabber) record(result downloader.Result) {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry := metadata.Entry{
		Name:     result.Job.Emoji.Name,
		Category: result.Job.Category,
		URL:      result.Job.Emoji.URL,
		Aliases:  result.Job.Emoji.Aliases,
		Status:   string(result.Status),
		Reason:   result.Reason,
	}
	if result.Path != "" {
		if rel, err := filepath.Rel(g.root, result.Path); err == nil {
			entry.File = filepath.ToSlash(rel)
		}
	}

	switch result.Status {
	case downloader.StatusDownloaded:
		g.summary.Downloaded++
		g.summary.Bytes += result.Size
		entry.Size = result.Size
	case downloader.StatusSkipped:
		g.summary.Skipped++
	default:
		g.summary.Failed++
		if result.Err != nil {
			entry.Error = result.Err.Error()
		}
		g.summary.Failures = append(g.summary.Failures, Failure{
			Name:     result.Job.Emoji.Name,
			Category: result.Job.Category,
			URL:      result.Job.Emoji.URL,
			Err:      result.Err,
		})
	}

	g.manifest.Add(entry)
	g.progress.Record(result.Job.Category, result.Job.Emoji.Name, string(result.Status), result.Size, result.Err)
}
