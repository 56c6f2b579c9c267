// =============================================================================
// Swedbank pain.001 Generator - File Manager Utility
// =============================================================================
//
// This module handles the filesystem side of a generation run:
//   - Discovery of batch files dropped in the input directory
//   - Writing generated pain.001 documents
//   - Archival of consumed batch files and generated documents
//   - Run reports summarizing what a run produced
//
// ARCHIVAL STRATEGY:
//   - Batch files are moved to input_archive after successful generation
//   - Generated documents are copied to output_archive
//   - Batch files that failed stay in the input directory for correction
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for a generation run.
type FileManager struct {
	// InputDir is the directory watched for batch files.
	InputDir string

	// OutputDir is the directory generated documents are written to.
	OutputDir string

	// InputArchiveDir receives consumed batch files.
	InputArchiveDir string

	// OutputArchiveDir receives copies of generated documents.
	OutputArchiveDir string

	// ArchiveOnSuccess disables archival entirely when false (dry runs).
	ArchiveOnSuccess bool
}

// NewFileManager creates a FileManager over the configured directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir, outputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		OutputArchiveDir: outputArchiveDir,
		ArchiveOnSuccess: true,
	}
}

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{
		fm.InputDir,
		fm.OutputDir,
		fm.InputArchiveDir,
		fm.OutputArchiveDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// BATCH FILE DISCOVERY
// =============================================================================

// DiscoverBatchFiles scans the input directory for batch files.
//
// RETURNS:
//   - Paths of every .csv and .xlsx file directly in the input directory,
//     sorted by the glob's lexical order.
func (fm *FileManager) DiscoverBatchFiles() ([]string, error) {
	var result []string

	for _, pattern := range []string{"*.csv", "*.xlsx"} {
		files, err := filepath.Glob(filepath.Join(fm.InputDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan input directory: %w", err)
		}
		for _, file := range files {
			info, err := os.Stat(file)
			if err != nil || info.IsDir() {
				continue
			}
			// Excel lock files start with ~$ and are not real batches.
			if strings.HasPrefix(filepath.Base(file), "~$") {
				continue
			}
			result = append(result, file)
		}
	}

	return result, nil
}

// =============================================================================
// DOCUMENT OUTPUT
// =============================================================================

// WriteDocument writes a generated document into the output directory.
//
// PARAMETERS:
//   - filename: the bare output file name.
//   - content: the document bytes.
//
// RETURNS:
//   - The full path of the written file.
func (fm *FileManager) WriteDocument(filename string, content []byte) (string, error) {
	path := filepath.Join(fm.OutputDir, filename)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	return path, nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves a consumed batch file to the input archive.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath := filepath.Join(fm.InputArchiveDir, filepath.Base(filePath))
	if err := os.MkdirAll(fm.InputArchiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := os.Rename(filePath, archivePath); err != nil {
		// Rename can fail across devices; fall back to copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// ArchiveOutputFile copies a generated document to the output archive. The
// original stays in the output directory for the bank upload.
func (fm *FileManager) ArchiveOutputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath := filepath.Join(fm.OutputArchiveDir, filepath.Base(filePath))
	if err := os.MkdirAll(fm.OutputArchiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := copyFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy file to archive: %w", err)
	}

	return archivePath, nil
}

// =============================================================================
// RUN REPORTS
// =============================================================================

// RunSummary describes one generation run for the run report.
type RunSummary struct {
	StartedAt   time.Time
	FinishedAt  time.Time
	Generated   []GeneratedFileInfo
	Failed      []FailedFileInfo
	TotalFiles  int
	TotalErrors int
}

// GeneratedFileInfo is one successfully generated document.
type GeneratedFileInfo struct {
	BatchFile    string
	Journal      string
	OutputFile   string
	Payments     int
	DroppedRunes int
}

// FailedFileInfo is one batch file that could not be processed.
type FailedFileInfo struct {
	BatchFile string
	Journal   string
	Reason    string
}

// WriteRunReport writes a plain-text run report into the output directory.
//
// RETURNS:
//   - The path of the report file.
func (fm *FileManager) WriteRunReport(summary RunSummary) (string, error) {
	path := filepath.Join(fm.OutputDir,
		fmt.Sprintf("run_report_%s.txt", summary.StartedAt.Format("20060102_150405")))

	var sb strings.Builder
	sb.WriteString("PAIN.001 GENERATION RUN REPORT\n")
	sb.WriteString("==============================\n\n")
	fmt.Fprintf(&sb, "Started:  %s\n", summary.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Finished: %s\n", summary.FinishedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Batch files: %d (generated %d, failed %d)\n\n",
		summary.TotalFiles, len(summary.Generated), len(summary.Failed))

	if len(summary.Generated) > 0 {
		sb.WriteString("GENERATED\n---------\n")
		for _, g := range summary.Generated {
			fmt.Fprintf(&sb, "  %s [%s] -> %s (%d payments)\n",
				filepath.Base(g.BatchFile), g.Journal, filepath.Base(g.OutputFile), g.Payments)
			if g.DroppedRunes > 0 {
				fmt.Fprintf(&sb, "    note: %d characters were dropped by text sanitization\n", g.DroppedRunes)
			}
		}
		sb.WriteString("\n")
	}

	if len(summary.Failed) > 0 {
		sb.WriteString("FAILED\n------\n")
		for _, f := range summary.Failed {
			fmt.Fprintf(&sb, "  %s [%s]: %s\n", filepath.Base(f.BatchFile), f.Journal, f.Reason)
		}
		sb.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write run report: %w", err)
	}
	return path, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
