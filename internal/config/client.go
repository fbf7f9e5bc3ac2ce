package config

import (
	"os"
	"strings"

	"github.com/devwithfarshi/ai-playground/internal/generation"
)

// ClientConfig describes options for the terminal client.
type ClientConfig struct {
	Environment        string
	APIURL             string
	HistoryPath        string
	DefaultModel       string
	DefaultTemperature float64
	Stream             bool
	LogFile            string
	LogLevel           string
}

// LoadClientConfig reads the current environment and loads the client options.
func LoadClientConfig(root string) (ClientConfig, error) {
	env, merged, err := loadMerged(root)
	if err != nil {
		return ClientConfig{}, err
	}

	cfg := ClientConfig{
		Environment:  env,
		APIURL:       strings.TrimSuffix(firstNonEmpty(os.Getenv("PLAYGROUND_API_URL"), merged["api_url"], "http://localhost:5000/api"), "/"),
		HistoryPath:  firstNonEmpty(os.Getenv("PLAYGROUND_HISTORY_PATH"), merged["history_path"], DefaultHistoryPath()),
		DefaultModel: firstNonEmpty(os.Getenv("PLAYGROUND_DEFAULT_MODEL"), merged["default_model"], generation.ModelGPT4),
		Stream:       parseOptionalBool(firstNonEmpty(os.Getenv("PLAYGROUND_STREAM"), merged["stream"]), true),
		LogFile:      firstNonEmpty(os.Getenv("PLAYGROUND_LOG_FILE_CLIENT"), os.Getenv("PLAYGROUND_LOG_FILE"), merged["log_file_client"], merged["log_file"]),
		LogLevel:     strings.ToLower(firstNonEmpty(os.Getenv("PLAYGROUND_LOG_LEVEL"), merged["log_level"], "info")),
	}
	if cfg.DefaultTemperature, err = parseFloat("default_temperature", firstNonEmpty(os.Getenv("PLAYGROUND_DEFAULT_TEMPERATURE"), merged["default_temperature"]), generation.DefaultTemperature); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}
