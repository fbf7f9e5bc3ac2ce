package bootstrap

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/devwithfarshi/ai-playground/internal/config"
	"github.com/devwithfarshi/ai-playground/internal/generation"
)

// InitOptions configures the bootstrap process for generating config files.
type InitOptions struct {
	Root               string
	Environment        string
	HTTPAddress        string
	APIURL             string
	HistoryPath        string
	DefaultModel       string
	DefaultTemperature float64
	Force              bool
}

// Init scaffolds config/setting.ini and config/<env>/playground.ini.
func Init(opts InitOptions) ([]string, error) {
	applyDefaults(&opts)
	if err := Validate(opts); err != nil {
		return nil, err
	}
	if err := ensureDir(filepath.Join(opts.Root, "config", opts.Environment)); err != nil {
		return nil, err
	}

	settingPath := filepath.Join(opts.Root, "config", "setting.ini")
	if err := writeFile(settingPath, settingTemplate(opts), opts.Force); err != nil {
		return nil, err
	}

	envPath := filepath.Join(opts.Root, "config", opts.Environment, "playground.ini")
	if err := writeFile(envPath, environmentTemplate(opts), opts.Force); err != nil {
		return []string{settingPath}, err
	}

	return []string{settingPath, envPath}, nil
}

func applyDefaults(opts *InitOptions) {
	if strings.TrimSpace(opts.Root) == "" {
		opts.Root = "."
	}
	if strings.TrimSpace(opts.Environment) == "" {
		opts.Environment = "dev"
	}
	if strings.TrimSpace(opts.HTTPAddress) == "" {
		opts.HTTPAddress = ":5000"
	}
	if strings.TrimSpace(opts.APIURL) == "" {
		opts.APIURL = "http://localhost" + opts.HTTPAddress + "/api"
		if !strings.HasPrefix(opts.HTTPAddress, ":") {
			opts.APIURL = "http://" + opts.HTTPAddress + "/api"
		}
	}
	if strings.TrimSpace(opts.HistoryPath) == "" {
		opts.HistoryPath = config.DefaultHistoryPath()
	}
	if strings.TrimSpace(opts.DefaultModel) == "" {
		opts.DefaultModel = generation.ModelGPT4
	}
	if opts.DefaultTemperature == 0 {
		opts.DefaultTemperature = generation.DefaultTemperature
	}
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

func writeFile(path, contents string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}

func settingTemplate(opts InitOptions) string {
	return fmt.Sprintf(`# AI Playground settings
environment=%s
http_address=%s
cors_origins=*
metrics_enabled=true
log_level=info
api_url=%s
default_model=%s
default_temperature=%s
stream=true
`, opts.Environment, opts.HTTPAddress, opts.APIURL, opts.DefaultModel, strconv.FormatFloat(opts.DefaultTemperature, 'f', -1, 64))
}

func environmentTemplate(opts InitOptions) string {
	return fmt.Sprintf(`# Environment specific overrides for %s
# openai_api_key=sk-... (or set OPENAI_API_KEY); without a key the relay uses the loopback adapter
response_header_timeout=60s
# Separate log files (client and daemon). Dash '-' disables file output.
log_file_client=logs/playground.log
log_file_daemon=logs/playgroundd.log
history_path=%s
`, opts.Environment, opts.HistoryPath)
}

// Validate checks the options without touching the filesystem.
func Validate(opts InitOptions) error {
	applyDefaults(&opts)
	if strings.ContainsAny(opts.Environment, `/\`) {
		return errors.New("environment must be a plain name")
	}
	u, err := url.Parse(opts.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api url %q must be absolute", opts.APIURL)
	}
	if t := opts.DefaultTemperature; t < 0 || t > 1 {
		return errors.New("default temperature must lie in [0,1]")
	}
	return nil
}
