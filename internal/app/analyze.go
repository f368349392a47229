package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/marataitester-blip/psy-color-deep/internal/domain"
	"github.com/marataitester-blip/psy-color-deep/internal/normalize"
	"github.com/marataitester-blip/psy-color-deep/internal/ports"
)

// Warnings attached to a response whose image was replaced by the placeholder.
const (
	WarningImageFailed    = "image generation failed"
	WarningImageMalformed = "image response malformed"
	WarningImageMissing   = "image response carried no usable image"
)

// AnalyzeRequest is the application-level input (no HTTP types).
type AnalyzeRequest struct {
	UserText string
}

// AnalyzeResponse is the application-level output.
type AnalyzeResponse struct {
	Reading   domain.Interpretation
	Image     domain.ImageAsset
	Warning   string
	LatencyMS int64
}

// ImageURL is the data URI or remote URL sent to the client.
func (r AnalyzeResponse) ImageURL() string {
	return r.Image.URI()
}

// Credentials are the API keys of the two upstream collaborators. They are
// checked on every request before any network call.
type Credentials struct {
	InterpretationKey string
	IllustrationKey   string
}

// Missing lists the collaborators whose key is blank.
func (c Credentials) Missing() []string {
	var missing []string
	if strings.TrimSpace(c.InterpretationKey) == "" {
		missing = append(missing, "interpretation")
	}
	if strings.TrimSpace(c.IllustrationKey) == "" {
		missing = append(missing, "illustration")
	}
	return missing
}

// AnalyzeService orchestrates the interpretation and illustration calls.
type AnalyzeService struct {
	interpreter ports.Interpreter
	illustrator ports.Illustrator
	creds       Credentials
	logger      *slog.Logger
}

func NewAnalyzeService(interp ports.Interpreter, illus ports.Illustrator, creds Credentials, logger *slog.Logger) *AnalyzeService {
	return &AnalyzeService{
		interpreter: interp,
		illustrator: illus,
		creds:       creds,
		logger:      logger,
	}
}

func (s *AnalyzeService) Analyze(ctx context.Context, req AnalyzeRequest) (AnalyzeResponse, error) {
	if missing := s.creds.Missing(); len(missing) > 0 {
		s.logger.ErrorContext(ctx, "upstream credentials are not configured", "missing", missing)
		return AnalyzeResponse{}, domain.ErrConfiguration
	}

	text := strings.TrimSpace(req.UserText)
	if text == "" {
		return AnalyzeResponse{}, domain.ErrBadRequest
	}

	start := time.Now()

	s.logger.InfoContext(ctx, "interpretation started", "input_len", len(text))
	raw, err := s.interpreter.Interpret(ctx, text)
	if err != nil {
		if !errors.Is(err, domain.ErrUpstreamLLM) {
			err = fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
		}
		return AnalyzeResponse{}, fmt.Errorf("interpret: %w", err)
	}

	reading, ok := ParseInterpretation(raw)
	if !ok {
		s.logger.WarnContext(ctx, "LLM returned invalid JSON, using default reading")
	}
	s.logger.InfoContext(ctx, "interpretation finished",
		"card_name", reading.CardName,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	image, warning := s.illustrate(ctx, reading)

	return AnalyzeResponse{
		Reading:   reading,
		Image:     image,
		Warning:   warning,
		LatencyMS: time.Since(start).Milliseconds(),
	}, nil
}

// illustrate never fails: any problem with the image collaborator degrades to
// the synthesized placeholder and a warning.
func (s *AnalyzeService) illustrate(ctx context.Context, reading domain.Interpretation) (domain.ImageAsset, string) {
	start := time.Now()

	raw, err := s.illustrator.Illustrate(ctx, reading.ImagePrompt)
	if err != nil {
		s.logger.WarnContext(ctx, "image generation failed, using placeholder", "error", err)
		return domain.SynthesizePlaceholder(reading.CardName), WarningImageFailed
	}

	image, err := normalize.ExtractImage(raw)
	if err != nil {
		warning := WarningImageMissing
		if errors.Is(err, normalize.ErrMalformedPayload) {
			warning = WarningImageMalformed
		}
		s.logger.WarnContext(ctx, "no usable image in response, using placeholder",
			"error", err,
			"body_len", len(raw),
		)
		return domain.SynthesizePlaceholder(reading.CardName), warning
	}

	s.logger.InfoContext(ctx, "image generation finished",
		"kind", image.Kind,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return image, ""
}

// ParseInterpretation decodes the reading from a raw LLM payload. Content that
// is not a JSON object yields the default reading and false. Otherwise each
// field that is missing or not a string is defaulted on its own.
func ParseInterpretation(raw []byte) (domain.Interpretation, bool) {
	content := normalize.StripFences(normalize.ExtractText(raw))

	var fields struct {
		CardName       jsoniter.RawMessage `json:"card_name"`
		Interpretation jsoniter.RawMessage `json:"interpretation"`
		ImagePrompt    jsoniter.RawMessage `json:"image_prompt"`
	}
	if err := jsoniter.UnmarshalFromString(content, &fields); err != nil {
		return domain.DefaultInterpretationResult(), false
	}

	out := domain.Interpretation{
		CardName:    stringField(fields.CardName),
		Text:        stringField(fields.Interpretation),
		ImagePrompt: stringField(fields.ImagePrompt),
	}
	return out.WithDefaults(), true
}

func stringField(raw jsoniter.RawMessage) string {
	var s string
	if len(raw) == 0 || jsoniter.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}
