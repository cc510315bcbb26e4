// =============================================================================
// Survey Ingestor - Main Entry Point
// =============================================================================
//
// CLI entry point for the survey ingestion pipeline. It initializes the
// Cobra CLI framework and delegates command execution to the cmd package.
//
// USAGE:
//   ingestor                 - Batch-ingest the default data directory
//   ingestor ingest <path>   - Ingest a single file or a directory
//   ingestor version         - Display the application version
//
// ARCHITECTURE:
//   - cmd/        : CLI command definitions (Cobra)
//   - internal/   : core pipeline logic (not for external import)
//
// =============================================================================

package main

import (
	"github.com/resiliencescan/ingestor/cmd"
)

func main() {
	cmd.Execute()
}
