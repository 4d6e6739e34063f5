// Package pages holds the gallery's HTML views. The .templ sources are
// compiled with `go tool templ generate`.
package pages

// PhotoTile is a clickable photo thumbnail.
type PhotoTile struct {
	Name     string
	Href     string
	ImageSrc string
}

// AlbumCard is one entry of the album grid. ThumbnailSrc is empty when the
// album has no photo to show.
type AlbumCard struct {
	Name         string
	Href         string
	ThumbnailSrc string
	PhotoCount   int
}

type AlbumDetailData struct {
	Name   string
	Photos []PhotoTile
}

type TimelineDay struct {
	Label  string
	Photos []PhotoTile
}

type PhotoDetailData struct {
	Name         string
	AlbumName    string
	AlbumHref    string
	ImageSrc     string
	TakenAt      string
	TakenAgo     string
	RenameAction string
	DeleteHref   string
	Error        string
}

type ConfirmDeleteData struct {
	Name       string
	Action     string
	CancelHref string
}
