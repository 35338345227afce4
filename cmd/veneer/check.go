package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"veneer/internal/driver"
)

var (
	checkJobs    int
	checkNoCache bool

	passLabel = color.New(color.FgGreen, color.Bold)
	failLabel = color.New(color.FgRed, color.Bold)
	dimLabel  = color.New(color.Faint)
)

func init() {
	checkCmd.Flags().IntVar(&checkJobs, "jobs", 0, "parallel check workers (0 = all cores)")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "ignore and bypass the disk cache")
}

var checkCmd = &cobra.Command{
	Use:   "check PATH...",
	Short: "Verify structural invariants of IR files",
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

		jobs := checkJobs
		if !cmd.Flags().Changed("jobs") && cfg.Check.Jobs > 0 {
			jobs = cfg.Check.Jobs
		}
		noCache := checkNoCache || cfg.Check.NoCache

		var cache *driver.DiskCache
		if !noCache {
			cache, err = driver.OpenDiskCache("veneer")
			if err != nil {
				// Degrade to uncached checking.
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: disk cache unavailable: %v\n", err)
			}
		}

		opts := driver.Options{Jobs: jobs, Cache: cache, Tracer: tracer}
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			results, err := driver.CheckDir(cmd.Context(), path, opts)
			if err != nil {
				return err
			}
			for _, res := range results {
				suffix := ""
				if res.Cached {
					suffix = dimLabel.Sprint(" (cached)")
				}
				if res.OK() {
					fmt.Fprintf(out, "%s %s: %d funcs, %d blocks, %d instrs%s\n",
						passLabel.Sprint("PASS"), res.Path, res.Funcs, res.Blocks, res.Instrs, suffix)
				} else {
					failed++
					fmt.Fprintf(out, "%s %s: %s%s\n",
						failLabel.Sprint("FAIL"), res.Path, res.Err, suffix)
				}
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d file(s) failed", failed)
		}
		return nil
	},
}
