package main

import (
	"fmt"

	"github.com/soypat/rupture/scene"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the event summary, both nodal planes and the principal axes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := cfg.Basis()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), scene.NewSummary(cfg, b).Text())
		return err
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
