package main

import (
	"os"

	"github.com/spf13/cobra"

	"veneer/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "veneer",
		Short: "Transactional overlay IR toolkit",
		Long:  `Veneer loads textual IR, mirrors it through a transactional overlay graph and checks its structural invariants`,
	}
	root.Version = version.Version

	root.AddCommand(dumpCmd)
	root.AddCommand(checkCmd)
	root.AddCommand(versionCmd)

	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().String("trace", "", "trace output path ('-' for stderr)")
	root.PersistentFlags().String("trace-level", "off", "trace level (off|checkpoint|graph|mutation)")

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
