package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr        string
	CORSAllowOrigin string
	BodyLimit       string

	LogLevel      slog.Level
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	GroqAPIKey        string
	GroqBaseURL       string
	LLMModel          string
	LLMFallbackModels []string
	LLMTemperature    float32
	LLMTimeout        time.Duration

	OpenRouterAPIKey    string
	OpenRouterBaseURL   string
	ImageModel          string
	ImageWidth          int
	ImageHeight         int
	ImageResponseFormat string
	ImageTimeout        time.Duration
	AppReferer          string
	AppTitle            string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first; CONFIG_FILE may name a YAML file whose keys are
// the same variable names and whose values apply when the variable is unset.
func Load() (Config, error) {
	_ = godotenv.Load()

	src, err := newSource(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}

	c := Config{
		HTTPAddr:            src.get("HTTP_ADDR", ":8080"),
		CORSAllowOrigin:     src.get("CORS_ALLOW_ORIGIN", "*"),
		BodyLimit:           src.get("BODY_LIMIT", "4M"),
		LogFile:             src.get("LOG_FILE", ""),
		GroqAPIKey:          strings.TrimSpace(src.get("GROQ_API_KEY", "")),
		GroqBaseURL:         src.get("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMModel:            src.get("LLM_MODEL", "llama-3.3-70b-versatile"),
		LLMFallbackModels:   parseFallbackModels(src.get("LLM_FALLBACK_MODELS", "")),
		OpenRouterAPIKey:    strings.TrimSpace(src.get("OPENROUTER_API_KEY", "")),
		OpenRouterBaseURL:   src.get("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		ImageModel:          src.get("IMAGE_MODEL", "black-forest-labs/flux-1-schnell"),
		ImageResponseFormat: src.get("IMAGE_RESPONSE_FORMAT", "b64_json"),
		AppReferer:          src.get("APP_REFERER", "https://psy-tarot.vercel.app"),
		AppTitle:            src.get("APP_TITLE", "PsyTarot"),
	}

	if c.LLMTimeout, err = parseDuration(src, "LLM_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if c.ImageTimeout, err = parseDuration(src, "IMAGE_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if c.ImageWidth, err = parsePositiveInt(src, "IMAGE_WIDTH", 768); err != nil {
		return Config{}, err
	}
	if c.ImageHeight, err = parsePositiveInt(src, "IMAGE_HEIGHT", 1024); err != nil {
		return Config{}, err
	}
	if c.LogMaxSizeMB, err = parsePositiveInt(src, "LOG_MAX_SIZE_MB", 10); err != nil {
		return Config{}, err
	}
	if c.LogMaxBackups, err = parsePositiveInt(src, "LOG_MAX_BACKUPS", 3); err != nil {
		return Config{}, err
	}
	if c.LogMaxAgeDays, err = parsePositiveInt(src, "LOG_MAX_AGE_DAYS", 28); err != nil {
		return Config{}, err
	}

	temp, err := strconv.ParseFloat(src.get("LLM_TEMPERATURE", "0.7"), 32)
	if err != nil || temp < 0 || temp > 2 {
		return Config{}, fmt.Errorf("invalid LLM_TEMPERATURE %q", src.get("LLM_TEMPERATURE", ""))
	}
	c.LLMTemperature = float32(temp)

	switch c.ImageResponseFormat {
	case "b64_json", "url":
	default:
		return Config{}, fmt.Errorf("invalid IMAGE_RESPONSE_FORMAT %q", c.ImageResponseFormat)
	}

	level, err := parseLogLevel(src.get("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	return c, nil
}

type source struct {
	file map[string]string
}

func newSource(path string) (source, error) {
	if path == "" {
		return source{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return source{}, fmt.Errorf("read CONFIG_FILE: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return source{}, fmt.Errorf("parse CONFIG_FILE %s: %w", path, err)
	}
	file := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		if list, ok := v.([]any); ok {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				parts = append(parts, fmt.Sprint(item))
			}
			file[strings.ToUpper(k)] = strings.Join(parts, ",")
			continue
		}
		file[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return source{file: file}, nil
}

func (s source) get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := s.file[key]; v != "" {
		return v
	}
	return fallback
}

func parseDuration(src source, key string, fallback time.Duration) (time.Duration, error) {
	v := src.get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return d, nil
}

func parsePositiveInt(src source, key string, fallback int) (int, error) {
	v := src.get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}

func parseFallbackModels(s string) []string {
	if s == "" {
		return nil
	}
	var models []string
	for _, m := range strings.Split(s, ",") {
		m = strings.TrimSpace(m)
		if m != "" {
			models = append(models, m)
		}
	}
	return models
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
