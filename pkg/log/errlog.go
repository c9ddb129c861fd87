package log

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"vk-image-export/pkg/utils"
)

// NewErrorLog opens path for appending and builds the failure sink: a logrus
// entry that writes Error-level records to that file and nothing to the
// console. The file handle stays open for the process lifetime; logrus
// serializes concurrent writes, so workers log without extra locking. Every
// record carries the run_id field for attribution across runs sharing the
// same file.
func NewErrorLog(path, runID string) (*logrus.Entry, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: opening error log '%s': %w", utils.ErrFilesystem, path, err)
	}

	logger := logrus.New()
	logger.SetOutput(f)
	logger.SetLevel(logrus.ErrorLevel)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})

	return logger.WithField("run_id", runID), f, nil
}
