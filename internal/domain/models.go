package domain

import "strings"

// Fallback values used whenever the LLM omits a field or returns unparsable JSON.
const (
	DefaultCardName       = "Колесо Фортуны"
	DefaultInterpretation = "Перемены неизбежны."
	DefaultImagePrompt    = "mystical tarot card wheel of fortune, detailed, 8k"
)

// Interpretation is the card reading extracted from the LLM response.
type Interpretation struct {
	CardName    string `json:"card_name"`
	Text        string `json:"interpretation"`
	ImagePrompt string `json:"image_prompt"`
}

// DefaultInterpretationResult is substituted when the LLM payload cannot be parsed.
func DefaultInterpretationResult() Interpretation {
	return Interpretation{
		CardName:    DefaultCardName,
		Text:        DefaultInterpretation,
		ImagePrompt: DefaultImagePrompt,
	}
}

// WithDefaults fills every blank field so the result is always fully populated.
func (i Interpretation) WithDefaults() Interpretation {
	if strings.TrimSpace(i.CardName) == "" {
		i.CardName = DefaultCardName
	}
	if strings.TrimSpace(i.Text) == "" {
		i.Text = DefaultInterpretation
	}
	if strings.TrimSpace(i.ImagePrompt) == "" {
		i.ImagePrompt = DefaultImagePrompt
	}
	return i
}

// ImageKind tags which variant of ImageAsset is populated.
type ImageKind string

const (
	ImageBitmap ImageKind = "bitmap"
	ImageRemote ImageKind = "remote_url"
	ImageVector ImageKind = "vector"
)

const MIMESVG = "image/svg+xml"

// ImageAsset is the illustration attached to a reading. Exactly one of
// Data (base64 with MIME) or URL is set, depending on Kind.
type ImageAsset struct {
	Kind ImageKind
	MIME string
	Data string
	URL  string
}

func NewBitmap(data, mime string) ImageAsset {
	return ImageAsset{Kind: ImageBitmap, MIME: mime, Data: data}
}

func NewRemoteURL(url string) ImageAsset {
	return ImageAsset{Kind: ImageRemote, URL: url}
}

func NewVector(data string) ImageAsset {
	return ImageAsset{Kind: ImageVector, MIME: MIMESVG, Data: data}
}

// URI renders the asset as something a browser can put in <img src>:
// a data URI for inline variants or the bare remote URL.
func (a ImageAsset) URI() string {
	if a.Kind == ImageRemote {
		return a.URL
	}
	return "data:" + a.MIME + ";base64," + a.Data
}
