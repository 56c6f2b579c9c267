// =============================================================================
// Swedbank pain.001 Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI.
//
// COBRA CLI STRUCTURE:
//   rootCmd (pain001)
//   ├── generateCmd (pain001 generate)
//   ├── validateCmd (pain001 validate)
//   └── versionCmd (pain001 version)
//
// The root command owns the global flags (--config, --verbose) and the
// logger; subcommands pick both up from here.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nordkonto/swedbank-pain001/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set.
var verbose bool

// log is the application logger, initialized before any subcommand runs.
var log zerolog.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pain001",
	Short: "Swedbank pain.001 Generator - Build ISO 20022 credit transfer files from payment batches",

	Long: `Swedbank pain.001 Generator reads payment batches exported from accounting
systems (CSV or XLSX) and turns them into ISO 20022 pain.001.001.03 credit
transfer initiation files that match Swedbank's message implementation guide.

Key Features:
  - Swedish account handling: Bankgiro, Plusgiro, BBAN and IBAN
  - Per-journal configuration with Swedbank agreement IDs
  - Character sanitization to the bank's accepted character set
  - XSD schema validation of every generated document
  - Automatic archival of consumed batches and generated files

Example Usage:
  pain001 generate                     # Process all batch files in the input directory
  pain001 generate --config ./my.yaml  # Use a custom configuration file
  pain001 validate                     # Validate journal configurations without generating`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "info"
		if verbose {
			level = "debug"
		}
		log = logger.New(level)
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
