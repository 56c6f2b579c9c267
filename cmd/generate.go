// =============================================================================
// Swedbank pain.001 Generator - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, the main command for turning
// payment batch files into pain.001 documents.
//
// COMMAND USAGE:
//   pain001 generate [flags]
//
// FLAGS:
//   --dry-run  : Build and validate documents without writing or archiving
//   --file     : Process only the given batch file
//   --journal  : Force a journal code instead of pattern matching
//
// PROCESSING PIPELINE:
//   1. Load the main configuration and all journal configurations
//   2. Discover batch files in the input directory
//   3. Match each file to a journal via its file matching patterns
//   4. For each file (concurrently):
//      a. Read the batch (CSV or XLSX)
//      b. Validate the batch against the journal configuration
//      c. Build and serialize the pain.001 document
//      d. Validate the document against the XSD
//      e. Write the document to the output directory
//   5. Archive consumed batches and generated documents
//   6. Write a run report
//
// On error the batch file stays in the input directory for correction, and
// processing continues for the remaining files.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/nordkonto/swedbank-pain001/internal/batchreader"
	"github.com/nordkonto/swedbank-pain001/internal/config"
	"github.com/nordkonto/swedbank-pain001/internal/idgen"
	"github.com/nordkonto/swedbank-pain001/internal/model"
	"github.com/nordkonto/swedbank-pain001/internal/pipeline"
	"github.com/nordkonto/swedbank-pain001/internal/sanitize"
	"github.com/nordkonto/swedbank-pain001/internal/schema"
	"github.com/nordkonto/swedbank-pain001/internal/validation"
	"github.com/nordkonto/swedbank-pain001/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun builds and validates without writing output or archiving.
var dryRun bool

// batchFile limits the run to a single batch file.
var batchFile string

// journalCode forces a journal instead of pattern matching.
var journalCode string

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate pain.001 files from payment batches",
	Long: `The generate command scans the input directory for batch files (CSV or
XLSX), matches each one to a journal configuration, and generates one
pain.001.001.03 document per batch.

Batches are processed concurrently. A failing batch does not affect the
others: its file stays in the input directory and the failure is recorded
in the run report.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate()
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Build and validate documents without writing output files",
	)

	generateCmd.Flags().StringVar(
		&batchFile,
		"file",
		"",
		"Process only the given batch file",
	)

	generateCmd.Flags().StringVar(
		&journalCode,
		"journal",
		"",
		"Journal code to use instead of file pattern matching",
	)
}

// =============================================================================
// BATCH RESULT
// =============================================================================

// batchResult is the per-file outcome collected from the worker goroutines.
type batchResult struct {
	BatchFile    string
	Journal      string
	OutputFile   string
	Payments     int
	DroppedRunes int
	Err          error
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runGenerate orchestrates one generation run.
func runGenerate() error {
	startedAt := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

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
	log.Info().Int("journals", len(journals)).Msg("loaded journal configurations")

	fm := utils.NewFileManager(
		mainConfig.InputDir,
		mainConfig.OutputDir,
		mainConfig.InputArchiveDir,
		mainConfig.OutputArchiveDir,
	)
	fm.ArchiveOnSuccess = !dryRun
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	var inputFiles []string
	if batchFile != "" {
		if !utils.FileExists(batchFile) {
			return fmt.Errorf("batch file not found: %s", batchFile)
		}
		inputFiles = []string{batchFile}
	} else {
		inputFiles, err = fm.DiscoverBatchFiles()
		if err != nil {
			return err
		}
	}

	if len(inputFiles) == 0 {
		log.Info().Str("dir", mainConfig.InputDir).Msg("no batch files found")
		return nil
	}
	log.Info().Int("files", len(inputFiles)).Msg("discovered batch files")

	// =========================================================================
	// STEP 3: PROCESS FILES CONCURRENTLY
	// =========================================================================

	validator := schema.NewValidator(mainConfig.SchemaPath)
	defer validator.Close()
	pipe := pipeline.New(idgen.Clock(), validator)

	var wg sync.WaitGroup
	results := make(chan batchResult, len(inputFiles))
	sem := make(chan struct{}, mainConfig.MaxConcurrency)

	for _, file := range inputFiles {
		wg.Add(1)

		go func(filePath string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results <- processBatchFile(filePath, journals, pipe, fm)
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 4: COLLECT RESULTS
	// =========================================================================

	summary := utils.RunSummary{StartedAt: startedAt, TotalFiles: len(inputFiles)}

	for result := range results {
		if result.Err == nil {
			summary.Generated = append(summary.Generated, utils.GeneratedFileInfo{
				BatchFile:    result.BatchFile,
				Journal:      result.Journal,
				OutputFile:   result.OutputFile,
				Payments:     result.Payments,
				DroppedRunes: result.DroppedRunes,
			})
			log.Info().
				Str("batch", filepath.Base(result.BatchFile)).
				Str("journal", result.Journal).
				Str("output", result.OutputFile).
				Int("payments", result.Payments).
				Msg("generated")
			continue
		}

		summary.Failed = append(summary.Failed, utils.FailedFileInfo{
			BatchFile: result.BatchFile,
			Journal:   result.Journal,
			Reason:    result.Err.Error(),
		})
		log.Error().
			Str("batch", filepath.Base(result.BatchFile)).
			Str("journal", result.Journal).
			Err(result.Err).
			Msg("generation failed")

		if !mainConfig.ContinueOnError {
			break
		}
	}
	summary.FinishedAt = time.Now()
	summary.TotalErrors = len(summary.Failed)

	// =========================================================================
	// STEP 5: WRITE RUN REPORT AND SUMMARY
	// =========================================================================

	if !dryRun {
		reportPath, err := fm.WriteRunReport(summary)
		if err != nil {
			log.Warn().Err(err).Msg("failed to write run report")
		} else {
			log.Debug().Str("report", reportPath).Msg("run report written")
		}
	}

	log.Info().
		Int("files", summary.TotalFiles).
		Int("generated", len(summary.Generated)).
		Int("failed", len(summary.Failed)).
		Dur("elapsed", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("run complete")

	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d of %d batch file(s) failed", len(summary.Failed), summary.TotalFiles)
	}
	return nil
}

// =============================================================================
// PER-FILE PROCESSING
// =============================================================================

// processBatchFile runs the full pipeline for one batch file.
func processBatchFile(filePath string, journals map[string]*config.JournalConfig, pipe *pipeline.Pipeline, fm *utils.FileManager) batchResult {
	result := batchResult{BatchFile: filePath}

	journal := matchJournal(filePath, journals)
	if journal == nil {
		result.Err = fmt.Errorf("no matching journal configuration found")
		return result
	}
	result.Journal = journal.Code

	if err := validation.ValidateConfig(journal); err != nil {
		result.Err = err
		return result
	}

	payments, err := batchreader.Read(filePath)
	if err != nil {
		result.Err = err
		return result
	}
	if len(payments) == 0 {
		result.Err = fmt.Errorf("batch file contains no payments")
		return result
	}
	result.Payments = len(payments)
	result.DroppedRunes = countDroppedRunes(payments)
	if result.DroppedRunes > 0 {
		log.Warn().
			Str("batch", filepath.Base(filePath)).
			Int("dropped", result.DroppedRunes).
			Msg("characters outside the bank character set will be dropped")
	}

	doc, err := pipe.GenerateValidated(journal, payments)
	if err != nil {
		result.Err = err
		return result
	}
	if doc.Advisory != "" {
		log.Warn().Str("journal", journal.Code).Msg(doc.Advisory)
	}

	if dryRun {
		result.OutputFile = doc.Filename + " (dry run)"
		return result
	}

	outputPath, err := fm.WriteDocument(doc.Filename, doc.Content)
	if err != nil {
		result.Err = err
		return result
	}
	result.OutputFile = outputPath

	if _, err := fm.ArchiveInputFile(filePath); err != nil {
		result.Err = fmt.Errorf("document written but batch not archived: %w", err)
		return result
	}
	if _, err := fm.ArchiveOutputFile(outputPath); err != nil {
		log.Warn().Err(err).Str("file", outputPath).Msg("output archival failed")
	}

	return result
}

// countDroppedRunes totals the characters sanitization will drop across the
// free-text fields of a batch, so data loss shows up in the run report.
func countDroppedRunes(payments []model.PaymentInstruction) int {
	total := 0
	count := func(s string) {
		_, dropped := sanitize.TextReport(s, 0, true)
		total += dropped
	}
	for _, p := range payments {
		count(p.Partner.Name)
		count(p.Partner.Street)
		count(p.Partner.City)
		count(p.Reference)
		count(p.Memo)
	}
	return total
}

// matchJournal finds the journal whose file patterns match the batch file
// name, honoring the --journal override. Journals are tried in sorted code
// order so a file matching several journals always routes the same way.
func matchJournal(filePath string, journals map[string]*config.JournalConfig) *config.JournalConfig {
	if journalCode != "" {
		return journals[journalCode]
	}

	codes := make([]string, 0, len(journals))
	for code := range journals {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	fileName := filepath.Base(filePath)
	for _, code := range codes {
		for _, pattern := range journals[code].FileMatchingPatterns {
			matched, err := filepath.Match(pattern, fileName)
			if err != nil {
				continue
			}
			if matched {
				return journals[code]
			}
		}
	}
	return nil
}
