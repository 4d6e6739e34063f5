package library

import (
	"io"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// captureTime reads the EXIF capture time from r. Files without EXIF data,
// or with an unparsable date, report false.
func captureTime(r io.Reader) (time.Time, bool) {
	x, err := exif.Decode(r)
	if err != nil {
		return time.Time{}, false
	}

	taken, err := x.DateTime()
	if err != nil || taken.IsZero() {
		return time.Time{}, false
	}

	return taken, true
}
