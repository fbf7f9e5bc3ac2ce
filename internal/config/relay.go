package config

import (
	"os"
	"strings"
	"time"
)

// RelayConfig describes runtime options for the relay daemon.
type RelayConfig struct {
	Environment string
	HTTPAddress string
	// Upstream adapter configuration
	OpenAIAPIKey          string
	OpenAIBaseURL         string
	OpenAIOrg             string
	RequestTimeout        time.Duration
	ResponseHeaderTimeout time.Duration
	// Optional YAML catalog replacing the built-in model list
	ModelsFile     string
	CORSOrigins    []string
	MetricsEnabled bool
	LogFile        string
	LogLevel       string
	LogMaxSizeMB   int
	LogMaxBackups  int
}

// LoadRelayConfig reads the current environment and loads the relay options.
func LoadRelayConfig(root string) (RelayConfig, error) {
	env, merged, err := loadMerged(root)
	if err != nil {
		return RelayConfig{}, err
	}

	cfg := RelayConfig{
		Environment:    env,
		HTTPAddress:    firstNonEmpty(os.Getenv("PLAYGROUND_HTTP_ADDRESS"), portAddress(os.Getenv("PORT")), merged["http_address"], ":5000"),
		OpenAIAPIKey:   firstNonEmpty(os.Getenv("PLAYGROUND_OPENAI_API_KEY"), os.Getenv("OPENAI_API_KEY"), merged["openai_api_key"]),
		OpenAIBaseURL:  firstNonEmpty(os.Getenv("PLAYGROUND_OPENAI_BASE_URL"), merged["openai_base_url"]),
		OpenAIOrg:      firstNonEmpty(os.Getenv("PLAYGROUND_OPENAI_ORG"), merged["openai_org"]),
		ModelsFile:     firstNonEmpty(os.Getenv("PLAYGROUND_MODELS_FILE"), merged["models_file"]),
		CORSOrigins:    parseCSV(firstNonEmpty(os.Getenv("PLAYGROUND_CORS_ORIGINS"), merged["cors_origins"], "*")),
		MetricsEnabled: parseOptionalBool(firstNonEmpty(os.Getenv("PLAYGROUND_METRICS_ENABLED"), merged["metrics_enabled"]), true),
		LogFile:        firstNonEmpty(os.Getenv("PLAYGROUND_LOG_FILE_DAEMON"), os.Getenv("PLAYGROUND_LOG_FILE"), merged["log_file_daemon"], merged["log_file"]),
		LogLevel:       strings.ToLower(firstNonEmpty(os.Getenv("PLAYGROUND_LOG_LEVEL"), merged["log_level"], "info")),
	}

	if cfg.RequestTimeout, err = parseDuration("request_timeout", firstNonEmpty(os.Getenv("PLAYGROUND_REQUEST_TIMEOUT"), merged["request_timeout"])); err != nil {
		return RelayConfig{}, err
	}
	if cfg.ResponseHeaderTimeout, err = parseDuration("response_header_timeout", firstNonEmpty(os.Getenv("PLAYGROUND_RESPONSE_HEADER_TIMEOUT"), merged["response_header_timeout"])); err != nil {
		return RelayConfig{}, err
	}
	if cfg.LogMaxSizeMB, err = parseInt("log_max_size_mb", merged["log_max_size_mb"], 300); err != nil {
		return RelayConfig{}, err
	}
	if cfg.LogMaxBackups, err = parseInt("log_max_backups", merged["log_max_backups"], 0); err != nil {
		return RelayConfig{}, err
	}
	return cfg, nil
}

// portAddress turns a bare PORT value into a listen address.
func portAddress(port string) string {
	port = strings.TrimSpace(port)
	if port == "" || strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
