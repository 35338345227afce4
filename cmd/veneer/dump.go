package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"veneer/internal/driver"
	"veneer/internal/overlay"
)

var dumpCmd = &cobra.Command{
	Use:   "dump FILE...",
	Short: "Parse IR files and pretty-print them through the overlay",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupColor(cmd)
		cfg, err := loadProjectConfig()
		if err != nil {
			return err
		}
		tracer, err := setupTracer(cmd, cfg)
		if err != nil {
			return err
		}
		defer tracer.Close()

		out := cmd.OutOrStdout()
		for _, path := range args {
			ctx, err := driver.Load(path, tracer)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "; %s\n", path)
			for _, lf := range ctx.Module().Functions() {
				f := ctx.GetValue(lf).(*overlay.Function)
				fmt.Fprint(out, ctx.DumpFunction(f))
			}
		}
		return nil
	},
}
