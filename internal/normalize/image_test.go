package normalize_test

import (
	"errors"
	"testing"

	"github.com/marataitester-blip/psy-color-deep/internal/domain"
	"github.com/marataitester-blip/psy-color-deep/internal/normalize"
)

const (
	pngPixel  = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
	jpegHead  = "/9j/4AAQSkZJRgABAQAAAQABAAA="
	remoteURL = "https://cdn.example.com/card.png"
)

func TestExtractImage_Shapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.ImageAsset
	}{
		{
			name: "data array inline",
			raw:  `{"created":1,"data":[{"b64_json":"` + pngPixel + `"}]}`,
			want: domain.NewBitmap(pngPixel, "image/png"),
		},
		{
			name: "data array url",
			raw:  `{"data":[{"url":"` + remoteURL + `"}]}`,
			want: domain.NewRemoteURL(remoteURL),
		},
		{
			name: "inline preferred over url",
			raw:  `{"data":[{"url":"` + remoteURL + `","b64_json":"` + pngPixel + `"}]}`,
			want: domain.NewBitmap(pngPixel, "image/png"),
		},
		{
			name: "images array",
			raw:  `{"images":[{"url":"` + remoteURL + `"}]}`,
			want: domain.NewRemoteURL(remoteURL),
		},
		{
			name: "top level scalar",
			raw:  `{"b64_json":"` + jpegHead + `"}`,
			want: domain.NewBitmap(jpegHead, "image/jpeg"),
		},
		{
			name: "top level image field",
			raw:  `{"image":"` + pngPixel + `"}`,
			want: domain.NewBitmap(pngPixel, "image/png"),
		},
		{
			name: "chat multimodal content",
			raw: `{"choices":[{"message":{"content":[` +
				`{"type":"text","text":"here you go"},` +
				`{"type":"image_url","image_url":{"url":"data:image/webp;base64,` + pngPixel + `"}}]}}]}`,
			want: domain.NewBitmap(pngPixel, "image/webp"),
		},
		{
			name: "chat message images",
			raw: `{"choices":[{"message":{"content":"","images":[` +
				`{"type":"image_url","image_url":{"url":"data:image/png;base64,` + pngPixel + `"}}]}}]}`,
			want: domain.NewBitmap(pngPixel, "image/png"),
		},
		{
			name: "chat markdown link",
			raw:  `{"choices":[{"message":{"content":"![card](https://cdn.example.com/card.png?a=1\\u0026b=2)"}}]}`,
			want: domain.NewRemoteURL("https://cdn.example.com/card.png?a=1&b=2"),
		},
		{
			name: "chat fenced nested json",
			raw:  `{"choices":[{"message":{"content":"` + "```json\\n" + `{\"data\":[{\"url\":\"` + remoteURL + `\"}]}` + "\\n```" + `"}}]}`,
			want: domain.NewRemoteURL(remoteURL),
		},
		{
			name: "choices of unexpected type",
			raw:  `{"data":[{"url":"` + remoteURL + `"}],"choices":{"x":1}}`,
			want: domain.NewRemoteURL(remoteURL),
		},
		{
			name: "message of unexpected type",
			raw:  `{"data":[{"url":"` + remoteURL + `"}],"choices":[{"message":"hi"}]}`,
			want: domain.NewRemoteURL(remoteURL),
		},
		{
			name: "mime hint",
			raw:  `{"data":[{"b64_json":"AAAA","mime_type":"image/webp"}]}`,
			want: domain.NewBitmap("AAAA", "image/webp"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalize.ExtractImage([]byte(tt.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractImage() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractImage_NotFound(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty data", `{"data":[]}`, normalize.ErrImageNotFound},
		{"missing fields", `{"data":[{"revised_prompt":"x"}]}`, normalize.ErrImageNotFound},
		{"corrupt base64", `{"data":[{"b64_json":"not*base64"}]}`, normalize.ErrImageNotFound},
		{"bad padding", `{"b64_json":"QUJ"}`, normalize.ErrImageNotFound},
		{"short padded", `{"data":[{"b64_json":"A="}]}`, normalize.ErrImageNotFound},
		{"misaligned padding", `{"data":[{"b64_json":"AAAAA="}]}`, normalize.ErrImageNotFound},
		{"non http url", `{"data":[{"url":"ftp://example.com/a.png"}]}`, normalize.ErrImageNotFound},
		{"error object", `{"error":{"message":"quota exceeded"}}`, normalize.ErrImageNotFound},
		{"text only chat", `{"choices":[{"message":{"content":"sorry, I cannot draw"}}]}`, normalize.ErrImageNotFound},
		{"json array", `[1,2,3]`, normalize.ErrImageNotFound},
		{"not json", `upstream timeout`, normalize.ErrMalformedPayload},
		{"empty body", ``, normalize.ErrMalformedPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalize.ExtractImage([]byte(tt.raw))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestExtractImage_OnlyFirstResultConsidered(t *testing.T) {
	raw := `{"data":[{"revised_prompt":"x"},{"url":"` + remoteURL + `"}]}`

	if _, err := normalize.ExtractImage([]byte(raw)); !errors.Is(err, normalize.ErrImageNotFound) {
		t.Errorf("expected ErrImageNotFound, got %v", err)
	}
}
