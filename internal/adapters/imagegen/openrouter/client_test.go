package openrouter_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marataitester-blip/psy-color-deep/internal/adapters/imagegen/openrouter"
	"github.com/marataitester-blip/psy-color-deep/internal/domain"
)

func testOptions() openrouter.Options {
	return openrouter.Options{
		Model:   "black-forest-labs/flux-1-schnell",
		Width:   768,
		Height:  1024,
		Referer: "https://psy-tarot.example",
		Title:   "PsyTarot",
	}
}

func TestClient_Illustrate_Success(t *testing.T) {
	const respBody = `{"data":[{"b64_json":"AAAA"}]}`
	var gotReq map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("expected /images/generations, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer img-key" {
			t.Errorf("bad auth header: %s", r.Header.Get("Authorization"))
		}
		if r.Header.Get("HTTP-Referer") != "https://psy-tarot.example" || r.Header.Get("X-Title") != "PsyTarot" {
			t.Errorf("missing attribution headers: %v", r.Header)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(respBody))
	}))
	defer srv.Close()

	client := openrouter.NewClient(srv.Client(), "img-key", srv.URL, testOptions(), slog.Default())

	body, err := client.Illustrate(context.Background(), "a mystical wheel")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != respBody {
		t.Errorf("unexpected body: %s", body)
	}

	want := map[string]any{
		"prompt":          "a mystical wheel",
		"model":           "black-forest-labs/flux-1-schnell",
		"n":               float64(1),
		"num_images":      float64(1),
		"size":            "768x1024",
		"width":           float64(768),
		"height":          float64(1024),
		"response_format": "b64_json",
	}
	for k, v := range want {
		if gotReq[k] != v {
			t.Errorf("request %s = %v, want %v", k, gotReq[k], v)
		}
	}
}

func TestClient_Illustrate_URLFormat(t *testing.T) {
	var gotFormat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ResponseFormat string `json:"response_format"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotFormat = req.ResponseFormat
		_, _ = w.Write([]byte(`{"data":[{"url":"https://cdn.example.com/a.png"}]}`))
	}))
	defer srv.Close()

	opts := testOptions()
	opts.ResponseFormat = "url"
	client := openrouter.NewClient(srv.Client(), "key", srv.URL, opts, slog.Default())

	if _, err := client.Illustrate(context.Background(), "prompt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFormat != "url" {
		t.Errorf("expected url response format, got %q", gotFormat)
	}
}

func TestClient_Illustrate_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"Insufficient credits","code":402}}`))
	}))
	defer srv.Close()

	client := openrouter.NewClient(srv.Client(), "key", srv.URL, testOptions(), slog.Default())

	_, err := client.Illustrate(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrUpstreamImage) {
		t.Fatalf("expected ErrUpstreamImage, got %v", err)
	}
}
