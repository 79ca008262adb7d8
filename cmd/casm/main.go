// Command casm inspects compiled contract classes.
package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"
)

// defaultMinSierraVersion is the first compiler version billed in Sierra gas.
const defaultMinSierraVersion = "1.7.0"

var (
	verbosity        int
	legacy           bool
	minSierraVersion string
	gasMode          string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "casm",
		Short: "Inspect compiled contract classes",
		Long: `casm decodes Cairo compiled classes (CASM JSON, or the legacy class JSON
with --legacy) and reports their entry points, class hash cost, bytecode
segmentation and tracked resource.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbosity)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().IntVar(&verbosity, "verbosity", 3, "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail")
	rootCmd.PersistentFlags().BoolVar(&legacy, "legacy", false, "Decode the legacy (Cairo 0) class schema")
	rootCmd.PersistentFlags().StringVar(&minSierraVersion, "min-sierra-version", defaultMinSierraVersion, "Minimum compiler version billed in Sierra gas")
	rootCmd.PersistentFlags().StringVar(&gasMode, "gas-mode", "all", "Gas vector computation mode (all, no-l2-gas)")

	rootCmd.AddCommand(
		newInspectCmd(),
		newEstimateCmd(),
		newSegmentsCmd(),
		newRoundtripCmd(),
		newResourceCmd(),
	)
	return rootCmd
}

func setupLogging(verbosity int) {
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, log.FromLegacyLevel(verbosity), true)
	log.SetDefault(log.NewLogger(handler))
}
