package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"vk-image-export/pkg/utils"
)

// SentinelTimestamp is returned for any message date that does not follow
// the export grammar. It is itself a well-formed EXIF timestamp, so
// downstream stamping always has something valid to embed.
const SentinelTimestamp = "2000:01:01 00:00:00"

// ruMonths maps the Russian month abbreviations used in chat exports to
// zero-padded month numbers. Exports carry both "май" and "мая" for May
// depending on the phrasing around the number.
var ruMonths = map[string]string{
	"янв": "01",
	"фев": "02",
	"мар": "03",
	"апр": "04",
	"май": "05",
	"мая": "05",
	"июн": "06",
	"июл": "07",
	"авг": "08",
	"сен": "09",
	"окт": "10",
	"ноя": "11",
	"дек": "12",
}

// NormalizeDate converts a raw header date like "5 фев 2021 в 14:03:21" into
// the EXIF layout "2021:02:05 14:03:21". It is total: any input that does
// not follow the grammar produces one logged record and SentinelTimestamp.
// The time portion is carried over verbatim.
func NormalizeDate(raw string, log *logrus.Entry) string {
	normalized, err := normalizeDate(raw)
	if err != nil {
		log.WithFields(logrus.Fields{
			"raw_date": raw,
			"category": utils.CategorizeError(err),
		}).WithError(err).Error("Failed to normalize message date, using sentinel")
		return SentinelTimestamp
	}
	return normalized
}

func normalizeDate(raw string) (string, error) {
	parts := strings.Split(raw, " в ")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: date '%s' has no single ' в ' separator", utils.ErrParsing, raw)
	}
	datePart, timePart := parts[0], parts[1]

	fields := strings.Fields(datePart)
	if len(fields) != 3 {
		return "", fmt.Errorf("%w: date part '%s' is not 'day month year'", utils.ErrParsing, datePart)
	}

	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return "", fmt.Errorf("%w: date day '%s' is not a number", utils.ErrParsing, fields[0])
	}

	month, ok := ruMonths[strings.ToLower(fields[1])]
	if !ok {
		return "", fmt.Errorf("%w: date month '%s' is not a known abbreviation", utils.ErrParsing, fields[1])
	}

	if _, err := strconv.Atoi(fields[2]); err != nil {
		return "", fmt.Errorf("%w: date year '%s' is not a number", utils.ErrParsing, fields[2])
	}

	return fmt.Sprintf("%s:%s:%02d %s", fields[2], month, day, timePart), nil
}
