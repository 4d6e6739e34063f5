package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Oxyrus/gallery/internal/http/handlers"
	"github.com/Oxyrus/gallery/internal/http/middleware"
)

func postLogin(t *testing.T, passcode, next string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	form := url.Values{}
	form.Set("passcode", passcode)
	form.Set("next", next)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ctx.Request = req

	handler := handlers.NewAuthHandler(newTestLogger(), "letmein", "gallery_admin")
	handler.SubmitLogin(ctx)
	ctx.Writer.WriteHeaderNow()
	return rec
}

func TestAuthHandlerSubmitLoginSuccess(t *testing.T) {
	rec := postLogin(t, "letmein", "/photos/3")

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/photos/3" {
		t.Fatalf("unexpected redirect location: %s", loc)
	}

	cookie := rec.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "gallery_admin="+middleware.SessionToken("letmein")) {
		t.Fatalf("session cookie not set: %s", cookie)
	}
	if !strings.Contains(cookie, "HttpOnly") {
		t.Fatalf("session cookie should be HttpOnly: %s", cookie)
	}
}

func TestAuthHandlerSubmitLoginRejectsForeignRedirect(t *testing.T) {
	rec := postLogin(t, "letmein", "//evil.example/steal")

	if loc := rec.Header().Get("Location"); loc != "/albums" {
		t.Fatalf("expected fallback redirect, got %s", loc)
	}
}

func TestAuthHandlerSubmitLoginInvalid(t *testing.T) {
	rec := postLogin(t, "nope", "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if rec.Header().Get("Set-Cookie") != "" {
		t.Fatalf("cookie must not be set on failed login")
	}
}

func TestAuthHandlerSubmitLoginMissingPasscode(t *testing.T) {
	rec := postLogin(t, "", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
