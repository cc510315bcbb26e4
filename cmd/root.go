// =============================================================================
// Survey Ingestor - Root Command
// =============================================================================
//
// Defines the root command for the Cobra CLI. Running the binary with no
// arguments batch-ingests the configured data directory, which is how the
// scheduled pipeline invokes it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (ingestor)
//   ├── ingestCmd (ingestor ingest [path])
//   └── versionCmd (ingestor version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cfgFile holds the path to the pipeline configuration file.
// Overridden with the --config flag.
var cfgFile string

// verbose enables debug-level console output.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ingestor",
	Short: "Survey Ingestor - fold heterogeneous survey exports into one canonical dataset",
	Long: `Survey Ingestor accepts heterogeneous survey-export files (Excel, CSV, TSV,
arbitrary delimiter and encoding) and folds each one into a single canonical,
ever-growing dataset without destroying previously captured information.

Key guarantees:
  - A populated cell is never overwritten by ingestion
  - No row is ever deleted; schema only grows
  - The working dataset is snapshotted before every mutating write
  - Every run leaves a structured entry in the append-only audit log

Example Usage:
  ingestor                        # Batch-ingest the default data directory
  ingestor ingest exports.xlsx    # Ingest a single file
  ingestor ingest ./drops         # Batch-ingest a directory
  ingestor --config ./my.yaml     # Use a custom configuration file`,

	// With no subcommand, run the default directory batch; this mirrors how
	// the pipeline's predecessor behaved when invoked bare.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest("")
	},
}

// Execute adds all child commands to the root command and runs the CLI.
// Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the pipeline configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
