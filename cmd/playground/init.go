package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devwithfarshi/ai-playground/internal/bootstrap"
)

func newInitCmd(a *app) *cobra.Command {
	var opts bootstrap.InitOptions
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write starter config files under config/",
		Args:  cobra.NoArgs,
		// init writes the config, so it must not require one
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Root = a.configRoot
			opts.APIURL = a.apiURL
			if opts.HistoryPath == "" {
				opts.HistoryPath = a.historyPath
			}
			written, err := bootstrap.Init(opts)
			for _, path := range written {
				fmt.Fprintf(a.out, "wrote %s\n", path)
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.Environment, "env", "dev", "environment name")
	f.StringVar(&opts.HTTPAddress, "http-address", ":5000", "relay listen address")
	f.StringVar(&opts.HistoryPath, "history-path", "", "history database path or postgres:// DSN (default: --history)")
	f.StringVar(&opts.DefaultModel, "default-model", "", "model used when --model is omitted")
	f.BoolVar(&opts.Force, "force", false, "overwrite existing files")
	return cmd
}
