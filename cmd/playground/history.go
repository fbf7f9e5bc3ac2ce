package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/devwithfarshi/ai-playground/internal/history"
)

const (
	timestampLayout = "Jan 2, 2006, 3:04 PM"
	clampWidth      = 80
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or clear locally stored generations",
	}
	cmd.AddCommand(newHistoryListCmd(a), newHistoryShowCmd(a), newHistoryClearCmd(a))
	return cmd
}

func newHistoryListCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored generations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()
			entries, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(a.out, "No history yet. Generate a response to see it here.")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			for _, e := range entries {
				writeSummary(a.out, e)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show (0 shows all)")
	return cmd
}

func newHistoryShowCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one stored generation in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()
			entries, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			e, ok := history.Find(entries, strings.TrimSpace(args[0]))
			if !ok {
				return fmt.Errorf("history entry %q not found", args[0])
			}
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(e)
			}
			fmt.Fprintf(a.out, "id:          %s\n", e.ID)
			fmt.Fprintf(a.out, "model:       %s\n", e.Model)
			fmt.Fprintf(a.out, "temperature: %s\n", formatTemperature(e.Temperature))
			fmt.Fprintf(a.out, "timestamp:   %s\n", formatTimestamp(e.Timestamp))
			fmt.Fprintf(a.out, "\nprompt:\n%s\n\nresponse:\n%s\n", e.Prompt, e.Response)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the entry as JSON")
	return cmd
}

func newHistoryClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored generations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "History cleared.")
			return nil
		},
	}
}

func writeSummary(w io.Writer, e history.Entry) {
	id := e.ID
	if len(id) > 8 {
		id = id[:8]
	}
	fmt.Fprintf(w, "%s  %s • %s  %s\n", id, e.Model, formatTemperature(e.Temperature), formatTimestamp(e.Timestamp))
	fmt.Fprintf(w, "  %s\n", clamp(e.Prompt, clampWidth))
	fmt.Fprintf(w, "  %s\n", clamp(e.Response, clampWidth))
}

func formatTimestamp(t time.Time) string {
	return t.Local().Format(timestampLayout)
}

// clamp collapses whitespace and cuts s to at most width runes.
func clamp(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
