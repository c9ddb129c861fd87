package models

import "time"

// ExtractedLink pairs an image URL with the raw header date of the message
// it was attached to. Links are immutable once extracted.
type ExtractedLink struct {
	URL     string
	RawDate string // e.g. "5 фев 2021 в 14:03:21"
}

// DownloadTask is the unit of work handed to a download worker. The
// SequenceIndex is 1-based and globally unique across all input files; it is
// assigned by the coordinator in extraction order and determines the output
// filename.
type DownloadTask struct {
	SequenceIndex  int
	URL            string
	RawDate        string
	DestinationDir string
}

// StampedImage is the stamper's result: the bytes to persist and whether the
// timestamp was actually embedded. When Applied is false, Data is the
// original image unchanged.
type StampedImage struct {
	Data    []byte
	Applied bool
}

// RunSummary holds aggregate counts for a single export run. Per-item
// outcomes are deliberately absent; those live only in the error log.
type RunSummary struct {
	RunID          string    `yaml:"run_id"`
	StartTime      time.Time `yaml:"start_time"`
	EndTime        time.Time `yaml:"end_time"`
	SourceDir      string    `yaml:"source_dir"`
	DestinationDir string    `yaml:"destination_dir"`
	FilesScanned   int       `yaml:"files_scanned"`
	LinksFound     int       `yaml:"links_found"`
	Workers        int       `yaml:"workers"`
}
