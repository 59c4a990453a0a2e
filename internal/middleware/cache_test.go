package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/openstay/booking-service/internal/config"
)

func TestCaptureWriterTracksFullSizePastLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 10}

	payload := bytes.Repeat([]byte("x"), 25)
	if _, err := cw.Write(payload); err != nil {
		t.Fatalf("write: %v", err)
	}

	// The client still receives everything.
	if got := rec.Body.Len(); got != 25 {
		t.Errorf("client body = %d bytes, want 25", got)
	}
	// The capture stops at the limit but size reflects the real
	// response, which is what the store decision checks: a capped
	// capture must never be written to the cache.
	if cw.buf.Len() > 10 {
		t.Errorf("captured %d bytes, want at most 10", cw.buf.Len())
	}
	if cw.size != 25 {
		t.Errorf("size = %d, want 25", cw.size)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	body := []byte(`{"rooms":[]}`)

	encoded, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(encoded)
	if !ok {
		t.Fatal("decode failed")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Errorf("content type = %q", gotHdr.Get("Content-Type"))
	}
	if !bytes.Equal(gotBody, body) {
		t.Errorf("body = %q, want %q", gotBody, body)
	}
}

func TestNewRedisCacheWithoutClientPassesThrough(t *testing.T) {
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}
	mw := NewRedisCache(cfg, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/listing/1/rooms", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if !called {
		t.Error("next handler not invoked")
	}
	if rec.Header().Get("X-Cache") != "" {
		t.Errorf("X-Cache = %q, want unset without a client", rec.Header().Get("X-Cache"))
	}
}
