package catalog

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Oxyrus/gallery/internal/storage"
)

// PlaceholderScheme prefixes the locators of generated photos. The rest of
// the locator names a bundled sample image.
const PlaceholderScheme = "placeholder://"

const placeholderSize = 20

// placeholderSpan bounds how far back generated photos may be dated.
const placeholderSpan = 30

var placeholderAlbums = []string{
	"Du lịch",
	"Gia đình",
	"Công việc",
	"Bạn bè",
	"Kỷ niệm",
}

var placeholderNames = []string{
	"Biển xanh cát trắng",
	"Hoàng hôn trên biển",
	"Núi rừng trùng điệp",
	"Ngày họp mặt gia đình",
	"Phố cổ Hội An",
	"Hồ Gươm buổi sáng",
	"Vịnh Hạ Long",
	"Lễ hội hoa đăng",
	"Chuyến du lịch Đà Lạt",
	"Món ăn đặc sản",
	"Kỉ niệm sinh nhật",
	"Họp lớp cuối năm",
	"Lễ tốt nghiệp",
	"Chuyến đi Đà Nẵng",
	"Bữa tiệc gia đình",
}

var sampleImages = []string{
	"sample_image_1",
	"sample_image_2",
	"sample_image_3",
	"sample_image_4",
	"sample_image_5",
}

// PlaceholderAlbumNames returns the album vocabulary used for generated data.
func PlaceholderAlbumNames() []string {
	return append([]string(nil), placeholderAlbums...)
}

// SampleImage returns the bundled image name a placeholder locator points
// at, or false when locator is not a placeholder.
func SampleImage(locator string) (string, bool) {
	name, ok := strings.CutPrefix(locator, PlaceholderScheme)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// GeneratePlaceholder builds the synthetic photo set served while the media
// index has nothing to offer. Photos get ids 1..20 and are dated up to 29
// whole days before now.
func GeneratePlaceholder(r *rand.Rand, now time.Time) []storage.Photo {
	photos := make([]storage.Photo, 0, placeholderSize)

	for i := 1; i <= placeholderSize; i++ {
		albumName := placeholderAlbums[r.IntN(len(placeholderAlbums))]
		name := placeholderNames[r.IntN(len(placeholderNames))]
		daysOffset := r.IntN(placeholderSpan)
		image := sampleImages[r.IntN(len(sampleImages))]

		photos = append(photos, storage.Photo{
			ID:        int64(i),
			Locator:   fmt.Sprintf("%s%s", PlaceholderScheme, image),
			Name:      name,
			DateTaken: now.Add(-time.Duration(daysOffset) * 24 * time.Hour),
			AlbumName: albumName,
		})
	}

	return photos
}

// GroupAlbums derives albums from photos in order of first appearance. Each
// album's thumbnail is the locator of its first photo.
func GroupAlbums(photos []storage.Photo) []storage.Album {
	index := make(map[string]int)
	var albums []storage.Album

	for _, photo := range photos {
		if i, ok := index[photo.AlbumName]; ok {
			albums[i].PhotoCount++
			continue
		}
		index[photo.AlbumName] = len(albums)
		albums = append(albums, storage.Album{
			Name:             photo.AlbumName,
			ThumbnailLocator: photo.Locator,
			PhotoCount:       1,
		})
	}

	return albums
}

func newSeededRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
