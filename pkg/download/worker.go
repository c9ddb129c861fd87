package download

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/sirupsen/logrus"

	"vk-image-export/pkg/fetch"
	"vk-image-export/pkg/models"
	"vk-image-export/pkg/parse"
	"vk-image-export/pkg/stamp"
	"vk-image-export/pkg/utils"
)

// Worker downloads one image, stamps its capture date, and writes the
// result under the task's destination directory.
type Worker struct {
	fetcher *fetch.Fetcher
	stamper *stamp.Stamper
	log     *logrus.Entry
}

// NewWorker creates a Worker using the given fetcher and stamper.
func NewWorker(fetcher *fetch.Fetcher, stamper *stamp.Stamper, log *logrus.Entry) *Worker {
	return &Worker{
		fetcher: fetcher,
		stamper: stamper,
		log:     log,
	}
}

// Process handles one download task end to end. Every failure is logged
// and swallowed here: one task must never take down its siblings, so
// nothing escapes, panics included.
func (w *Worker) Process(ctx context.Context, task models.DownloadTask) {
	taskLog := w.log.WithFields(logrus.Fields{
		"url":   task.URL,
		"index": task.SequenceIndex,
	})

	// --- Panic Recovery ---
	defer func() {
		if r := recover(); r != nil {
			stackTrace := string(debug.Stack())
			taskLog.WithFields(logrus.Fields{"panic_info": r, "stack_trace": stackTrace}).Error("PANIC Recovered in Process")
		}
	}()

	// --- Derive Target Path ---
	baseName := fmt.Sprintf("%04d", task.SequenceIndex)
	ext := extensionFor(task.URL)
	destPath := filepath.Join(task.DestinationDir, baseName+ext)

	// --- Skip Existing Files ---
	// The check runs against the plain indexed name; a date-suffixed
	// name chosen later is written without a second check.
	if _, statErr := os.Stat(destPath); statErr == nil {
		taskLog.WithField("path", destPath).Error("File already exists, skipping download")
		return
	}

	// --- Fetch Image ---
	data, fetchErr := w.fetcher.Fetch(ctx, task.URL)
	if fetchErr != nil {
		taskLog.WithField("category", utils.CategorizeError(fetchErr)).WithError(fetchErr).Error("Failed to download image")
		return
	}

	// --- Stamp or Rename ---
	switch ext {
	case ".jpg", ".jpeg":
		timestamp := parse.NormalizeDate(task.RawDate, taskLog)
		data = w.stamper.Stamp(data, timestamp).Data
	default:
		// Non-taggable formats carry the date in the filename instead.
		destPath = filepath.Join(task.DestinationDir, baseName+"_"+utils.SanitizeDate(task.RawDate)+ext)
	}

	// --- Write File ---
	if writeErr := os.WriteFile(destPath, data, 0644); writeErr != nil {
		wrappedErr := fmt.Errorf("%w: writing image file '%s': %w", utils.ErrFilesystem, destPath, writeErr)
		taskLog.WithField("category", utils.CategorizeError(wrappedErr)).WithError(wrappedErr).Error("Failed to save image")
		return
	}

	taskLog.WithField("path", destPath).Debugf("Saved image (%d bytes)", len(data))
}

// extensionFor derives the output extension from the URL path suffix,
// lowercased. Anything outside the recognized image extensions falls
// back to ".jpg".
func extensionFor(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ".jpg"
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return ext
	}
	return ".jpg"
}
