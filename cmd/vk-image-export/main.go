package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vk-image-export/pkg/config"
	"vk-image-export/pkg/download"
	"vk-image-export/pkg/export"
	"vk-image-export/pkg/fetch"
	applog "vk-image-export/pkg/log"
	"vk-image-export/pkg/pool"
	"vk-image-export/pkg/stamp"
	"vk-image-export/pkg/utils"
)

const version = "1.0.0"

// configFile is looked up in the working directory; a missing file just
// means defaults.
const configFile = "vk-image-export.yaml"

func main() {
	var sourceDir, destDir string
	flag.StringVar(&sourceDir, "s", "", "Directory containing the exported chat HTML files")
	flag.StringVar(&sourceDir, "source", "", "Directory containing the exported chat HTML files")
	flag.StringVar(&destDir, "d", "", "Directory to save the downloaded images into")
	flag.StringVar(&destDir, "destination", "", "Directory to save the downloaded images into")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "vk-image-export %s - downloads the photos referenced by a VK chat export\n\n", version)
		fmt.Fprintf(os.Stderr, "Usage: vk-image-export -s <chat-export-dir> -d <output-dir>\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if sourceDir == "" || destDir == "" {
		fmt.Fprintln(os.Stderr, "Error: both -source and -destination are required")
		flag.Usage()
		os.Exit(1)
	}

	// --- Bootstrap Logger (stderr, setup problems only) ---
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})

	// --- Load & Validate Configuration ---
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	warnings, err := cfg.Validate()
	for _, w := range warnings {
		log.Warn(w)
	}
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// --- Check Source Directory ---
	if _, err := os.Stat(sourceDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: source directory '%s' does not exist\n", sourceDir)
		os.Exit(1)
	}

	// --- Error Log Sink ---
	runID := uuid.New().String()
	errLog, errFile, err := applog.NewErrorLog(cfg.ErrorLogPath, runID)
	if err != nil {
		log.Fatalf("Failed to open error log: %v", err)
	}
	defer errFile.Close()

	// --- Signal Handling ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		sig := <-sigChan
		log.Warnf("Received signal %v, finishing in-flight downloads...", sig)
		cancel()

		select {
		case sig = <-sigChan:
			log.Warnf("Received second signal %v, forcing exit.", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			log.Warn("Graceful shutdown period exceeded, forcing exit.")
			os.Exit(1)
		}
	}()

	// --- Initialize Components ---
	httpClient := fetch.NewClient(cfg, errLog)
	fetcher := fetch.NewFetcher(httpClient, cfg, errLog)
	stamper := stamp.NewStamper(errLog)
	worker := download.NewWorker(fetcher, stamper, errLog)
	workerPool := pool.New(cfg.Workers, errLog)

	exporter := export.NewExporter(cfg, runID, sourceDir, destDir, workerPool, worker, os.Stdout, errLog)

	// --- Run Export ---
	if _, err := exporter.Run(ctx); err != nil {
		switch {
		case errors.Is(err, utils.ErrNoInputFiles):
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		case errors.Is(err, context.Canceled):
			log.Warn("Export cancelled gracefully.")
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}
