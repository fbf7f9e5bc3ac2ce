package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models the relay accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			relay, err := a.relay()
			if err != nil {
				return err
			}
			models, err := relay.Models(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range models {
				fmt.Fprintf(a.out, "%s\t%s\n", m.ID, m.OwnedBy)
			}
			return nil
		},
	}
}
