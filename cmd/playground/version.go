package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/devwithfarshi/ai-playground/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	var outputFormat string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// version needs no config
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			switch outputFormat {
			case "json":
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, string(data))
			case "short":
				fmt.Fprintln(a.out, version.Info())
			case "text", "":
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintf(tw, "Version:\t%s\n", info.Version)
				fmt.Fprintf(tw, "Commit:\t%s\n", info.Commit)
				fmt.Fprintf(tw, "Built at:\t%s\n", info.BuiltAt)
				fmt.Fprintf(tw, "Go version:\t%s\n", info.GoVersion)
				fmt.Fprintf(tw, "Platform:\t%s\n", info.Platform)
				return tw.Flush()
			default:
				return fmt.Errorf("unknown output format %q (want text, json or short)", outputFormat)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "output format (text, json, short)")
	return cmd
}
