package stamp

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"runtime/debug"

	"github.com/dsoprea/go-exif/v3"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
	"github.com/sirupsen/logrus"

	"vk-image-export/pkg/models"
	"vk-image-export/pkg/utils"
)

// Stamper embeds capture timestamps into JPEG metadata. Formats are decided
// by content, not by filename: whatever the bytes turn out to be wins.
type Stamper struct {
	log *logrus.Entry
}

// NewStamper creates a Stamper that reports failures to log.
func NewStamper(log *logrus.Entry) *Stamper {
	return &Stamper{log: log}
}

// Stamp writes timestamp into the DateTimeOriginal (Exif IFD) and DateTime
// (root IFD) fields of a JPEG and returns the rewritten bytes with
// Applied=true. Non-JPEG images come back unchanged with Applied=false and
// no log record; undecodable data and rewrite failures come back unchanged
// with one logged record. Stamp never panics out.
func (s *Stamper) Stamp(data []byte, timestamp string) (result models.StampedImage) {
	defer func() {
		if r := recover(); r != nil {
			stackTrace := string(debug.Stack())
			s.log.WithFields(logrus.Fields{"panic_info": r, "stack_trace": stackTrace}).Error("PANIC Recovered in Stamp")
			result = models.StampedImage{Data: data, Applied: false}
		}
	}()

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		wrapped := fmt.Errorf("%w: sniffing image format: %w", utils.ErrStamping, err)
		s.log.WithFields(logrus.Fields{
			"category": utils.CategorizeError(wrapped),
		}).WithError(wrapped).Error("Image bytes are not decodable, leaving them unchanged")
		return models.StampedImage{Data: data, Applied: false}
	}
	if format != "jpeg" {
		return models.StampedImage{Data: data, Applied: false}
	}

	stamped, err := embedTimestamp(data, timestamp)
	if err != nil {
		wrapped := fmt.Errorf("%w: %w", utils.ErrStamping, err)
		s.log.WithFields(logrus.Fields{
			"category": utils.CategorizeError(wrapped),
		}).WithError(wrapped).Error("Failed to rewrite JPEG metadata, leaving bytes unchanged")
		return models.StampedImage{Data: data, Applied: false}
	}

	return models.StampedImage{Data: stamped, Applied: true}
}

// embedTimestamp rewrites the EXIF segment of a JPEG in place of the old
// one, setting both timestamp fields. The pixel data is untouched; only
// segments are reassembled.
func embedTimestamp(data []byte, timestamp string) ([]byte, error) {
	jmp := jpegstructure.NewJpegMediaParser()
	intfc, err := jmp.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing JPEG segments: %w", err)
	}
	sl := intfc.(*jpegstructure.SegmentList)

	rootIb, err := sl.ConstructExifBuilder()
	if err != nil {
		return nil, fmt.Errorf("constructing EXIF builder: %w", err)
	}

	exifIb, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD/Exif")
	if err != nil {
		return nil, fmt.Errorf("resolving Exif IFD: %w", err)
	}
	if err := exifIb.SetStandardWithName("DateTimeOriginal", timestamp); err != nil {
		return nil, fmt.Errorf("setting DateTimeOriginal: %w", err)
	}

	rootIfdIb, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD0")
	if err != nil {
		return nil, fmt.Errorf("resolving root IFD: %w", err)
	}
	if err := rootIfdIb.SetStandardWithName("DateTime", timestamp); err != nil {
		return nil, fmt.Errorf("setting DateTime: %w", err)
	}

	if err := sl.SetExif(rootIb); err != nil {
		return nil, fmt.Errorf("attaching EXIF segment: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := sl.Write(buf); err != nil {
		return nil, fmt.Errorf("serializing JPEG: %w", err)
	}

	return buf.Bytes(), nil
}
