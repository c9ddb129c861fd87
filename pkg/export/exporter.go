package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"vk-image-export/pkg/config"
	"vk-image-export/pkg/download"
	"vk-image-export/pkg/extract"
	"vk-image-export/pkg/models"
	"vk-image-export/pkg/pool"
	"vk-image-export/pkg/utils"
)

// Exporter drives a whole export run: discover input pages, extract
// image links, and fan the downloads out over the worker pool.
type Exporter struct {
	cfg       *config.Config
	runID     string
	sourceDir string
	destDir   string
	pool      *pool.Pool
	worker    *download.Worker
	console   io.Writer
	log       *logrus.Entry
}

// NewExporter creates an Exporter. Progress lines go to console; every
// failure goes to log.
func NewExporter(cfg *config.Config, runID, sourceDir, destDir string, p *pool.Pool, w *download.Worker, console io.Writer, log *logrus.Entry) *Exporter {
	return &Exporter{
		cfg:       cfg,
		runID:     runID,
		sourceDir: sourceDir,
		destDir:   destDir,
		pool:      p,
		worker:    w,
		console:   console,
		log:       log,
	}
}

// Run executes the export end to end and returns aggregate counts.
// Per-file and per-image failures are logged and skipped; only the
// preconditions abort the run: a readable source directory holding at
// least one input page, and a creatable destination directory.
func (e *Exporter) Run(ctx context.Context) (models.RunSummary, error) {
	summary := models.RunSummary{
		RunID:          e.runID,
		StartTime:      time.Now(),
		SourceDir:      e.sourceDir,
		DestinationDir: e.destDir,
		Workers:        e.pool.Width(),
	}

	// --- Discover Input Pages ---
	files, err := DiscoverInputFiles(e.sourceDir)
	if err != nil {
		return summary, err
	}
	if len(files) == 0 {
		return summary, fmt.Errorf("%w: no messages*.html files in '%s'", utils.ErrNoInputFiles, e.sourceDir)
	}
	summary.FilesScanned = len(files)

	// --- Prepare Destination ---
	if err := os.MkdirAll(e.destDir, 0755); err != nil {
		return summary, fmt.Errorf("%w: creating destination directory '%s': %w", utils.ErrFilesystem, e.destDir, err)
	}

	// --- Extract Links ---
	links := e.collectLinks(files)
	summary.LinksFound = len(links)
	fmt.Fprintf(e.console, "Found %d image links. Starting download...\n", len(links))

	// --- Dispatch Downloads ---
	// Indices follow extraction order, so filenames are stable however
	// the downloads interleave.
	var runErr error
	for i, link := range links {
		task := models.DownloadTask{
			SequenceIndex:  i + 1,
			URL:            link.URL,
			RawDate:        link.RawDate,
			DestinationDir: e.destDir,
		}
		if err := e.pool.Submit(ctx, func() { e.worker.Process(ctx, task) }); err != nil {
			e.log.WithError(err).Error("Stopped dispatching download tasks")
			runErr = err
			break
		}
	}

	// Drain in-flight tasks even when dispatch was cut short; a
	// cancelled ctx makes them fail fast on their own.
	if err := e.pool.Wait(context.Background()); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return summary, runErr
	}

	fmt.Fprintln(e.console, "Download complete.")

	// --- Write Run Summary ---
	summary.EndTime = time.Now()
	e.writeSummary(summary)

	return summary, nil
}

// collectLinks reads, decodes, and extracts every input page. A page
// that cannot be read or parsed is logged and skipped without touching
// its siblings.
func (e *Exporter) collectLinks(files []string) []models.ExtractedLink {
	var links []models.ExtractedLink
	for _, file := range files {
		fileLog := e.log.WithField("file", file)

		raw, err := os.ReadFile(file)
		if err != nil {
			wrapped := fmt.Errorf("%w: reading input file '%s': %w", utils.ErrFilesystem, file, err)
			fileLog.WithField("category", utils.CategorizeError(wrapped)).WithError(wrapped).Error("Failed to read input file")
			continue
		}

		text, encoding, err := extract.DecodeText(raw)
		if err != nil {
			fileLog.WithField("category", utils.CategorizeError(err)).WithError(err).Error("Failed to decode input file")
			continue
		}
		fileLog.WithField("encoding", encoding).Debug("Decoded input file")

		pageLinks, err := extract.Links(text)
		if err != nil {
			fileLog.WithField("category", utils.CategorizeError(err)).WithError(err).Error("Failed to extract links from input file")
			continue
		}
		links = append(links, pageLinks...)
	}
	return links
}

// writeSummary persists the run summary as YAML. Failure to write it is
// logged and does not fail the run.
func (e *Exporter) writeSummary(summary models.RunSummary) {
	if e.cfg.SummaryPath == "" {
		return
	}

	data, err := yaml.Marshal(&summary)
	if err != nil {
		e.log.WithError(err).Error("Failed to marshal run summary to YAML")
		return
	}
	if err := os.WriteFile(e.cfg.SummaryPath, data, 0644); err != nil {
		wrapped := fmt.Errorf("%w: writing run summary '%s': %w", utils.ErrFilesystem, e.cfg.SummaryPath, err)
		e.log.WithField("category", utils.CategorizeError(wrapped)).WithError(wrapped).Error("Failed to write run summary")
		return
	}
	e.log.WithField("path", e.cfg.SummaryPath).Debug("Wrote run summary")
}
