// =============================================================================
// Swedbank pain.001 Generator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the configuration
// (and optionally an existing document) without generating anything.
//
// COMMAND USAGE:
//   pain001 validate            # Validate all journal configurations
//   pain001 validate --file x   # Additionally schema-validate an XML file
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nordkonto/swedbank-pain001/internal/config"
	"github.com/nordkonto/swedbank-pain001/internal/schema"
	"github.com/nordkonto/swedbank-pain001/internal/validation"
)

// validateFile optionally names an existing XML document to schema-validate.
var validateFile string

// =============================================================================
// VALIDATE COMMAND DEFINITION
// =============================================================================

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate journal configurations without generating files",
	Long: `The validate command loads the main configuration and every journal
configuration and runs the same checks that would gate a generation run:
agreement ID format, debtor account presence and classification, and the
Swedbank code enumerations.

With --file it additionally validates an existing pain.001 document against
the configured XSD.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(
		&validateFile,
		"file",
		"",
		"Path to an existing pain.001 XML file to validate against the XSD",
	)
}

// =============================================================================
// VALIDATION LOGIC
// =============================================================================

// runValidate checks every journal configuration and reports per-journal
// outcomes. All journals are checked even when earlier ones fail.
func runValidate() error {
	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}

	journals, err := config.LoadJournalConfigs(mainConfig.JournalsDir)
	if err != nil {
		return fmt.Errorf("failed to load journal configs: %w", err)
	}
	if len(journals) == 0 {
		return fmt.Errorf("no journal configurations found in %s", mainConfig.JournalsDir)
	}

	failures := 0
	for code, journal := range journals {
		if err := validation.ValidateConfig(journal); err != nil {
			failures++
			log.Error().Str("journal", code).Err(err).Msg("configuration invalid")
			continue
		}
		log.Info().Str("journal", code).Str("name", journal.Name).Msg("configuration ok")
	}

	if validateFile != "" {
		if err := validateDocument(mainConfig.SchemaPath, validateFile); err != nil {
			return err
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d journal configuration(s) invalid", failures, len(journals))
	}
	return nil
}

// validateDocument schema-validates an existing XML file.
func validateDocument(schemaPath, filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	validator := schema.NewValidator(schemaPath)
	defer validator.Close()

	result := validator.Validate(content)
	if result.Advisory != "" {
		log.Warn().Msg(result.Advisory)
		return nil
	}
	if !result.Valid {
		for _, violation := range result.Violations {
			log.Error().Str("file", filePath).Msg(violation)
		}
		return fmt.Errorf("%s failed schema validation with %d violation(s)", filePath, len(result.Violations))
	}

	log.Info().Str("file", filePath).Msg("document is schema-valid")
	return nil
}
