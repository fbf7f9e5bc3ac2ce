package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devwithfarshi/ai-playground/internal/client"
	"github.com/devwithfarshi/ai-playground/internal/config"
	"github.com/devwithfarshi/ai-playground/internal/history"
	"github.com/devwithfarshi/ai-playground/internal/logging"
)

// errReported marks failures whose message has already been printed.
var errReported = errors.New("reported")

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand.
type app struct {
	stdin  io.Reader
	out    io.Writer
	errOut io.Writer

	configRoot  string
	apiURL      string
	historyPath string

	cfg    config.ClientConfig
	logger *log.Logger
	closer io.Closer
}

func newRootCmd(stdin io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{stdin: stdin, out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:           "playground",
		Short:         "Terminal client for the AI Playground relay",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.closer != nil {
				_ = a.closer.Close()
			}
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configRoot, "config-root", ".", "directory containing config/setting.ini")
	flags.StringVar(&a.apiURL, "api-url", "", "relay API root (overrides api_url)")
	flags.StringVar(&a.historyPath, "history", "", "history database path or postgres:// DSN (overrides history_path)")

	rootCmd.AddCommand(
		newInitCmd(a),
		newGenerateCmd(a),
		newHistoryCmd(a),
		newModelsCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.LoadClientConfig(a.configRoot)
	if err != nil {
		return fmt.Errorf("load config failed: %w", err)
	}
	if s := strings.TrimSpace(a.apiURL); s != "" {
		cfg.APIURL = strings.TrimSuffix(s, "/")
	}
	if s := strings.TrimSpace(a.historyPath); s != "" {
		cfg.HistoryPath = s
	}
	a.cfg = cfg

	var sinks []io.Writer
	if file := strings.TrimSpace(cfg.LogFile); file != "" {
		rot, err := logging.NewRotatingWriter(file, 0, 0)
		if err != nil {
			return fmt.Errorf("init rotating log: %w", err)
		}
		a.closer = rot
		sinks = append(sinks, rot)
	}
	if logging.DebugEnabled(cfg.LogLevel) {
		sinks = append(sinks, a.errOut)
	}
	w := io.Discard
	if len(sinks) > 0 {
		w = io.MultiWriter(sinks...)
	}
	a.logger = log.New(w, "[playground] ", logging.Flags)
	return nil
}

func (a *app) relay() (*client.RelayClient, error) {
	c, err := client.NewRelayClient(a.cfg.APIURL, nil)
	if err != nil {
		return nil, err
	}
	c.SetLogger(a.logger)
	return c, nil
}

func (a *app) openHistory() (history.Store, error) {
	store, err := history.Open(a.cfg.HistoryPath, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}
