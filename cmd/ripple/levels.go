package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/ripple/level"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the built-in levels",
	Args:  cobra.NoArgs,
	RunE:  runLevels,
}

func runLevels(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tOBJECTS\tRATE\tSCALE\tDESCRIPTION")
	for _, name := range level.Names() {
		cfg, err := level.Builtin(name)
		if err != nil {
			return err
		}
		scale, err := cfg.MusicScale()
		if err != nil {
			return fmt.Errorf("level %s: %w", name, err)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.0f\t%v\t%s\n", name, len(cfg.Objects), cfg.GrowRate, scale, cfg.Description)
	}
	return tw.Flush()
}
