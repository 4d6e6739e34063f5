package pages_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/Oxyrus/gallery/web/pages"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()

	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return buf.String()
}

func TestAlbumsGridOmitsMissingThumbnail(t *testing.T) {
	body := render(t, pages.AlbumsGrid([]pages.AlbumCard{
		{Name: "Trips", Href: "/albums/trips", ThumbnailSrc: "/photos/3/image", PhotoCount: 2},
		{Name: "Archive", Href: "/albums/archive", PhotoCount: 1},
	}, false))

	if got := strings.Count(body, "<img"); got != 1 {
		t.Fatalf("expected one thumbnail, got %d: %s", got, body)
	}
	if !strings.Contains(body, `src="/photos/3/image"`) {
		t.Fatalf("missing thumbnail for Trips: %s", body)
	}
	if strings.Contains(body, "showing sample photos") {
		t.Fatalf("unexpected sample notice: %s", body)
	}
}

func TestAlbumsGridEmpty(t *testing.T) {
	body := render(t, pages.AlbumsGrid(nil, true))

	if !strings.Contains(body, "No albums yet.") {
		t.Fatalf("missing empty notice: %s", body)
	}
	if !strings.Contains(body, "showing sample photos") {
		t.Fatalf("missing sample notice: %s", body)
	}
}

func TestPhotoDetailEscapesName(t *testing.T) {
	body := render(t, pages.PhotoDetail(pages.PhotoDetailData{
		Name:         `<b>"beach"</b>`,
		AlbumName:    "Trips",
		AlbumHref:    "/albums/trips",
		ImageSrc:     "/photos/1/image",
		RenameAction: "/photos/1/rename",
		DeleteHref:   "/photos/1/delete",
	}))

	if strings.Contains(body, "<b>") {
		t.Fatalf("photo name was not escaped: %s", body)
	}
	if !strings.Contains(body, `action="/photos/1/rename"`) {
		t.Fatalf("missing rename form: %s", body)
	}
	if strings.Contains(body, `class="error"`) {
		t.Fatalf("unexpected error paragraph: %s", body)
	}
}

func TestLoginCarriesNext(t *testing.T) {
	body := render(t, pages.Login("/photos/1"))

	if !strings.Contains(body, `name="next" value="/photos/1"`) {
		t.Fatalf("missing next field: %s", body)
	}
	if !strings.Contains(body, "<title>Sign in - Gallery</title>") {
		t.Fatalf("missing layout title: %s", body)
	}
}
