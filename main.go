// =============================================================================
// Swedbank pain.001 Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Swedbank pain.001 Generator CLI.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   pain001 generate        - Generate pain.001 files from batch files
//   pain001 validate        - Validate journal configurations
//   pain001 version         - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared utilities
//   - configs/       : Journal-specific YAML configurations
//   - schemas/       : Drop-in location for the official pain.001 XSD
//
// =============================================================================

package main

import (
	"github.com/nordkonto/swedbank-pain001/cmd"
)

func main() {
	cmd.Execute()
}
