package catalog

import (
	"slices"
	"time"

	"github.com/Oxyrus/gallery/internal/storage"
)

// DayLayout formats the label of a timeline day.
const DayLayout = "02-01-2006"

// DayGroup holds the photos taken on one calendar day.
type DayGroup struct {
	Label  string          `json:"label"`
	Day    time.Time       `json:"day"`
	Photos []storage.Photo `json:"photos"`
}

// GroupByDay buckets photos by the calendar day they were taken in loc.
// Days are ordered newest first; photos keep their input order within a day.
func GroupByDay(photos []storage.Photo, loc *time.Location) []DayGroup {
	if loc == nil {
		loc = time.Local
	}

	index := make(map[string]int)
	var groups []DayGroup

	for _, photo := range photos {
		taken := photo.DateTaken.In(loc)
		label := taken.Format(DayLayout)

		if i, ok := index[label]; ok {
			groups[i].Photos = append(groups[i].Photos, photo)
			continue
		}

		index[label] = len(groups)
		groups = append(groups, DayGroup{
			Label:  label,
			Day:    time.Date(taken.Year(), taken.Month(), taken.Day(), 0, 0, 0, 0, loc),
			Photos: []storage.Photo{photo},
		})
	}

	slices.SortStableFunc(groups, func(a, b DayGroup) int {
		return b.Day.Compare(a.Day)
	})

	return groups
}
