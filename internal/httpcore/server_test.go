package httpcore

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// ---------------------------------------------------------------------------
// JSON helper
// ---------------------------------------------------------------------------

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, "ok")

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("unexpected content type %s", ct)
	}
	if body := rec.Body.String(); body != "\"ok\"\n" {
		t.Errorf("expected JSON string \"ok\", got %q", body)
	}
}

func TestJSONNilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusNoContent, nil)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %s", rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Error helper
// ---------------------------------------------------------------------------

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "bad limit")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	var body map[string]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["error"]["message"] != "bad limit" {
		t.Errorf("unexpected message: %v", body["error"]["message"])
	}
	if body["error"]["code"] != float64(400) {
		t.Errorf("unexpected code: %v", body["error"]["code"])
	}
}

// ---------------------------------------------------------------------------
// ParseFlags
// ---------------------------------------------------------------------------

func TestParseFlagsDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("VIDEOINVITE_CONFIG", "")

	cfg, err := ParseFlags("videoinvite", nil)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("expected port %d, got %d", DefaultPort, cfg.Port)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("expected development by default, got %q", cfg.Env)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("expected empty config file, got %q", cfg.ConfigFile)
	}
}

func TestParseFlagsEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "production")
	t.Setenv("VIDEOINVITE_CONFIG", "/etc/videoinvite.yaml")

	cfg, err := ParseFlags("videoinvite", nil)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if cfg.Port != 8081 {
		t.Errorf("expected port 8081, got %d", cfg.Port)
	}
	if cfg.IsDevelopment() {
		t.Error("expected production mode")
	}
	if cfg.ConfigFile != "/etc/videoinvite.yaml" {
		t.Errorf("unexpected config file %q", cfg.ConfigFile)
	}
}

func TestParseFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "production")

	cfg, err := ParseFlags("videoinvite", []string{"-port", "9000", "-env", "development", "-config", "local.yaml"})
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if cfg.Port != 9000 || !cfg.IsDevelopment() || cfg.ConfigFile != "local.yaml" {
		t.Errorf("flags did not override environment: %+v", cfg)
	}
}

func TestParseFlagsInvalidPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	if _, err := ParseFlags("videoinvite", nil); err == nil {
		t.Fatal("expected error for non-numeric PORT")
	}
}
