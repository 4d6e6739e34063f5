package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Oxyrus/gallery/internal/catalog"
	"github.com/Oxyrus/gallery/internal/http/handlers"
	"github.com/Oxyrus/gallery/internal/storage"
)

func TestPhotoHandlerTimelineGroupsByDay(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/timeline", nil)

	handler := handlers.NewPhotoHandler(newTestLogger(), sampleCatalog(), "")
	handler.Timeline(ctx)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	newer := strings.Index(body, "15-02-2025")
	older := strings.Index(body, "14-02-2025")
	if newer < 0 || older < 0 {
		t.Fatalf("response body missing day labels: %s", body)
	}
	if newer > older {
		t.Fatalf("expected newest day first: %s", body)
	}
}

func TestPhotoHandlerViewSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/photos/1", nil)
	ctx.Params = gin.Params{{Key: "id", Value: "1"}}

	handler := handlers.NewPhotoHandler(newTestLogger(), sampleCatalog(), "")
	handler.View(ctx)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{"coast.jpg", "/albums/summer-roadtrip", "/photos/1/rename", "/photos/1/delete"} {
		if !strings.Contains(body, want) {
			t.Fatalf("response body missing %q: %s", want, body)
		}
	}
}

func TestPhotoHandlerViewInvalidID(t *testing.T) {
	for _, id := range []string{"abc", "0", "-3", "99"} {
		rec := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(rec)
		ctx.Request = httptest.NewRequest(http.MethodGet, "/photos/"+id, nil)
		ctx.Params = gin.Params{{Key: "id", Value: id}}

		handler := handlers.NewPhotoHandler(newTestLogger(), sampleCatalog(), "")
		handler.View(ctx)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("id %q: expected status 404, got %d", id, rec.Code)
		}
	}
}

func TestPhotoHandlerRenameSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	form := url.Values{}
	form.Set("name", "  sunset.jpg ")
	req := httptest.NewRequest(http.MethodPost, "/photos/1/rename", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ctx.Request = req
	ctx.Params = gin.Params{{Key: "id", Value: "1"}}

	cat := sampleCatalog()
	handler := handlers.NewPhotoHandler(newTestLogger(), cat, "")
	handler.Rename(ctx)
	ctx.Writer.WriteHeaderNow()

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/photos/1" {
		t.Fatalf("unexpected redirect location: %s", loc)
	}
	if len(cat.updated) != 1 || cat.updated[0].Name == nil || *cat.updated[0].Name != "sunset.jpg" {
		t.Fatalf("expected trimmed rename, got %+v", cat.updated)
	}
}

func TestPhotoHandlerRenameValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	form := url.Values{}
	form.Set("name", "   ")
	req := httptest.NewRequest(http.MethodPost, "/photos/1/rename", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ctx.Request = req
	ctx.Params = gin.Params{{Key: "id", Value: "1"}}

	cat := sampleCatalog()
	handler := handlers.NewPhotoHandler(newTestLogger(), cat, "")
	handler.Rename(ctx)
	ctx.Writer.WriteHeaderNow()

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Name is required.") {
		t.Fatalf("response body missing validation error: %s", rec.Body.String())
	}
	if len(cat.updated) != 0 {
		t.Fatalf("catalog should not be updated on validation error")
	}
}

func TestPhotoHandlerRenameRejected(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	form := url.Values{}
	form.Set("name", "sunset.jpg")
	req := httptest.NewRequest(http.MethodPost, "/photos/1/rename", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ctx.Request = req
	ctx.Params = gin.Params{{Key: "id", Value: "1"}}

	cat := sampleCatalog()
	cat.updateOK = false
	handler := handlers.NewPhotoHandler(newTestLogger(), cat, "")
	handler.Rename(ctx)
	ctx.Writer.WriteHeaderNow()

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
}

func TestPhotoHandlerDeleteRedirectsToAlbum(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/photos/2/delete", nil)
	ctx.Params = gin.Params{{Key: "id", Value: "2"}}

	cat := sampleCatalog()
	handler := handlers.NewPhotoHandler(newTestLogger(), cat, "")
	handler.Delete(ctx)
	ctx.Writer.WriteHeaderNow()

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/albums/family" {
		t.Fatalf("unexpected redirect location: %s", loc)
	}
	if len(cat.deleted) != 1 || cat.deleted[0].ID != 2 {
		t.Fatalf("expected photo 2 to be deleted, got %+v", cat.deleted)
	}
}

func TestPhotoHandlerDeleteRejected(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/photos/2/delete", nil)
	ctx.Params = gin.Params{{Key: "id", Value: "2"}}

	cat := sampleCatalog()
	cat.deleteOK = false
	handler := handlers.NewPhotoHandler(newTestLogger(), cat, "")
	handler.Delete(ctx)
	ctx.Writer.WriteHeaderNow()

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "failed to delete photo" {
		t.Fatalf("unexpected response body: %q", rec.Body.String())
	}
}

func TestPhotoHandlerConfirmDelete(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/photos/1/delete", nil)
	ctx.Params = gin.Params{{Key: "id", Value: "1"}}

	handler := handlers.NewPhotoHandler(newTestLogger(), sampleCatalog(), "")
	handler.ConfirmDelete(ctx)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/photos/1/delete"`) {
		t.Fatalf("response body missing delete form: %s", rec.Body.String())
	}
}

func TestPhotoHandlerImageServesSample(t *testing.T) {
	assets := t.TempDir()
	if err := os.WriteFile(filepath.Join(assets, "sample_image_2.jpg"), []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/photos/7/image", nil)
	ctx.Params = gin.Params{{Key: "id", Value: "7"}}

	cat := &stubCatalog{
		source: catalog.Placeholder,
		photos: []storage.Photo{{
			ID:        7,
			Locator:   catalog.PlaceholderScheme + "sample_image_2",
			Name:      "Ảnh 7",
			DateTaken: time.Now(),
			AlbumName: "Gia đình",
		}},
	}

	handler := handlers.NewPhotoHandler(newTestLogger(), cat, assets)
	handler.Image(ctx)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "jpeg-bytes" {
		t.Fatalf("unexpected image body: %q", rec.Body.String())
	}
}

func TestPhotoHandlerImageMissingSample(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/photos/7/image", nil)
	ctx.Params = gin.Params{{Key: "id", Value: "7"}}

	cat := &stubCatalog{
		photos: []storage.Photo{{ID: 7, Locator: catalog.PlaceholderScheme + "sample_image_5"}},
	}

	handler := handlers.NewPhotoHandler(newTestLogger(), cat, t.TempDir())
	handler.Image(ctx)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestPhotoHandlerAPIUpdate(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	req := httptest.NewRequest(http.MethodPatch, "/api/photos/1", strings.NewReader(`{"name":"renamed.jpg","albumName":"Other"}`))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req
	ctx.Params = gin.Params{{Key: "id", Value: "1"}}

	cat := sampleCatalog()
	handler := handlers.NewPhotoHandler(newTestLogger(), cat, "")
	handler.APIUpdate(ctx)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.OK {
		t.Fatalf("expected ok=true")
	}
	if len(cat.updated) != 1 || *cat.updated[0].Name != "renamed.jpg" || *cat.updated[0].AlbumName != "Other" {
		t.Fatalf("unexpected changes forwarded: %+v", cat.updated)
	}
}

func TestPhotoHandlerAPIUpdateRejectsEmptyName(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	req := httptest.NewRequest(http.MethodPatch, "/api/photos/1", strings.NewReader(`{"name":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req
	ctx.Params = gin.Params{{Key: "id", Value: "1"}}

	cat := sampleCatalog()
	handler := handlers.NewPhotoHandler(newTestLogger(), cat, "")
	handler.APIUpdate(ctx)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if len(cat.updated) != 0 {
		t.Fatalf("catalog should not be updated")
	}
}

func TestPhotoHandlerAPIDeleteReportsResult(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodDelete, "/api/photos/1", nil)
	ctx.Params = gin.Params{{Key: "id", Value: "1"}}

	cat := sampleCatalog()
	cat.deleteOK = false
	handler := handlers.NewPhotoHandler(newTestLogger(), cat, "")
	handler.APIDelete(ctx)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"ok":false}` {
		t.Fatalf("unexpected response body: %q", rec.Body.String())
	}
}

func TestPhotoHandlerAPISource(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/api/source", nil)

	cat := sampleCatalog()
	cat.source = catalog.Placeholder
	handler := handlers.NewPhotoHandler(newTestLogger(), cat, "")
	handler.APISource(ctx)

	if strings.TrimSpace(rec.Body.String()) != `{"source":"placeholder"}` {
		t.Fatalf("unexpected response body: %q", rec.Body.String())
	}
}
