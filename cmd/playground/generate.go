package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devwithfarshi/ai-playground/internal/generation"
	"github.com/devwithfarshi/ai-playground/internal/history"
)

type generateOptions struct {
	prompt      string
	model       string
	temperature float64
	stream      bool
	noStream    bool
	noHistory   bool
}

func newGenerateCmd(a *app) *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Send a prompt to the relay and print the reply",
		Long: "Send a prompt to the relay and print the reply. The prompt comes from\n" +
			"--prompt, the positional arguments, or standard input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.runGenerate(ctx, cmd, opts, args)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.prompt, "prompt", "p", "", "prompt text (default: arguments or stdin)")
	f.StringVarP(&opts.model, "model", "m", "", "model identifier (default: default_model)")
	f.Float64VarP(&opts.temperature, "temperature", "t", generation.DefaultTemperature, "sampling temperature in [0,1] (default: default_temperature)")
	f.BoolVar(&opts.stream, "stream", true, "stream the reply as it is generated (default: stream)")
	f.BoolVar(&opts.noStream, "no-stream", false, "wait for the complete reply")
	f.BoolVar(&opts.noHistory, "no-history", false, "do not record the exchange")
	return cmd
}

func (a *app) runGenerate(ctx context.Context, cmd *cobra.Command, opts generateOptions, args []string) error {
	prompt, err := a.readPrompt(opts.prompt, args)
	if err != nil {
		return err
	}

	req := generation.Request{
		Prompt: prompt,
		Model:  firstNonEmpty(opts.model, a.cfg.DefaultModel, generation.ModelGPT4),
	}
	temp := a.cfg.DefaultTemperature
	if cmd.Flags().Changed("temperature") {
		temp = opts.temperature
	}
	req.Temperature = generation.Float64(temp)

	stream := a.cfg.Stream
	if cmd.Flags().Changed("stream") {
		stream = opts.stream
	}
	if opts.noStream {
		stream = false
	}
	req.Stream = stream

	relay, err := a.relay()
	if err != nil {
		return err
	}

	var (
		res      generation.Result
		complete = true
	)
	if stream {
		printed := false
		res, complete, err = relay.Stream(ctx, req, func(ev generation.Event) {
			if ev.Kind == generation.EventContent {
				fmt.Fprint(a.out, ev.Content)
				printed = true
			}
		})
		if printed {
			fmt.Fprintln(a.out)
		}
	} else {
		res, err = relay.Generate(ctx, req)
		if err == nil {
			fmt.Fprintln(a.out, res.Reply)
		}
	}
	if err != nil {
		fmt.Fprintf(a.errOut, "Error generating response: %v. Please try again.\n", err)
		return errReported
	}
	if !complete {
		fmt.Fprintln(a.errOut, "warning: stream ended early; reply may be incomplete and was not saved")
		return nil
	}

	fmt.Fprintf(a.errOut, "[%s • temp %s]\n", res.UsedModel, formatTemperature(res.Temperature))
	if opts.noHistory {
		return nil
	}
	return a.record(ctx, req, res)
}

func (a *app) record(ctx context.Context, req generation.Request, res generation.Result) error {
	store, err := a.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()
	if err := history.Append(ctx, store, history.NewEntry(req, res)); err != nil {
		return err
	}
	return nil
}

// readPrompt prefers the flag, then the positional arguments, then stdin.
func (a *app) readPrompt(flag string, args []string) (string, error) {
	prompt := strings.TrimSpace(flag)
	if prompt == "" && len(args) > 0 {
		prompt = strings.TrimSpace(strings.Join(args, " "))
	}
	if prompt == "" && a.stdin != nil {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("read prompt: %w", err)
		}
		prompt = strings.TrimSpace(string(data))
	}
	if prompt == "" {
		return "", fmt.Errorf("prompt required")
	}
	return prompt, nil
}

func formatTemperature(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
