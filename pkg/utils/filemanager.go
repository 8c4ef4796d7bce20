// =============================================================================
// MILSTRIP Validator - File Manager Utility
// =============================================================================
//
// This module owns every filesystem step of a batch run around the
// validator:
//   - Finding record files in the input directory
//   - Naming reports
//   - Moving processed inputs and copying reports into the archives
//   - Writing the run summary
//
// ARCHIVE LAYOUT:
//   - A processed input leaves the input directory for input_archive
//   - A report stays in the output directory and a copy goes to output_archive
//   - An input that could not be processed is never moved
//   - A name already taken in an archive gets a numeric suffix, so a
//     re-submitted file never overwrites an earlier copy
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ginjaninja78/milstrip-validator/internal/config"
	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager performs the filesystem work of a batch run.
type FileManager struct {
	// InputDir is scanned for record files.
	InputDir string

	// OutputDir receives reports and run summaries.
	OutputDir string

	// InputArchiveDir receives processed record files.
	InputArchiveDir string

	// OutputArchiveDir receives report copies.
	OutputArchiveDir string

	// DateSubdirs files archived copies under year/month/day
	// directories, e.g. input_archive/2026/10/18/reqs.txt.
	DateSubdirs bool

	// ArchiveOnSuccess enables archival. When false the archive methods
	// leave files where they are.
	ArchiveOnSuccess bool

	// now dates archive subdirectories and generated names.
	now func() time.Time
}

// NewFileManager creates a FileManager for the directories of cfg.
func NewFileManager(cfg *config.MainConfig) *FileManager {
	return &FileManager{
		InputDir:         cfg.InputDir,
		OutputDir:        cfg.OutputDir,
		InputArchiveDir:  cfg.InputArchiveDir,
		OutputArchiveDir: cfg.OutputArchiveDir,
		ArchiveOnSuccess: cfg.ShouldArchiveOnSuccess(),
		DateSubdirs:      cfg.ShouldArchiveDateSubdirs(),
		now:              time.Now,
	}
}

// EnsureDirectories creates the four working directories.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.InputDir, fm.OutputDir, fm.InputArchiveDir, fm.OutputArchiveDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the regular files in InputDir whose names match
// any of patterns.
//
// PARAMETERS:
//   - patterns: filepath.Match patterns such as "*.txt".
//
// RETURNS:
//   - The matching paths in lexical order, each listed once.
//   - An error for a malformed pattern.
func (fm *FileManager) DiscoverInputFiles(patterns []string) ([]string, error) {
	found := make(map[string]struct{})

	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(fm.InputDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && info.Mode().IsRegular() {
				found[match] = struct{}{}
			}
		}
	}

	paths := make([]string, 0, len(found))
	for path := range found {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	return paths, nil
}

// =============================================================================
// ARCHIVAL
// =============================================================================

// ArchiveInputFile moves a processed record file into InputArchiveDir.
//
// RETURNS:
//   - Where the file now lives. This is filePath itself when archival
//     is disabled.
//   - An error if the file could not be moved.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	target, err := fm.archiveTarget(fm.InputArchiveDir, filePath)
	if err != nil {
		return "", err
	}

	if err := os.Rename(filePath, target); err == nil {
		return target, nil
	}

	// Rename cannot cross filesystems; fall back to copy and delete.
	if err := copyFile(filePath, target); err != nil {
		return "", fmt.Errorf("failed to copy %s to archive: %w", filePath, err)
	}
	if err := os.Remove(filePath); err != nil {
		return "", fmt.Errorf("failed to remove archived input %s: %w", filePath, err)
	}

	return target, nil
}

// ArchiveOutputFile copies a report into OutputArchiveDir. The report
// itself stays in OutputDir.
func (fm *FileManager) ArchiveOutputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	target, err := fm.archiveTarget(fm.OutputArchiveDir, filePath)
	if err != nil {
		return "", err
	}

	if err := copyFile(filePath, target); err != nil {
		return "", fmt.Errorf("failed to copy %s to archive: %w", filePath, err)
	}

	return target, nil
}

// archiveTarget picks a free path for filePath under archiveDir and
// creates its directory.
func (fm *FileManager) archiveTarget(archiveDir, filePath string) (string, error) {
	dir := archiveDir
	if fm.DateSubdirs {
		dir = filepath.Join(archiveDir, fm.now().Format("2006/01/02"))
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory %s: %w", dir, err)
	}

	return freePath(filepath.Join(dir, filepath.Base(filePath))), nil
}

// freePath returns path, or path with a "_N" suffix before the extension
// when path already exists.
func freePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// =============================================================================
// REPORT NAMING
// =============================================================================

// GenerateReportFileName builds a report file name from format.
//
// PARAMETERS:
//   - format: The name template. Recognized placeholders:
//       {original}  - the input file name without its extension
//       {timestamp} - the current time as YYYYMMDD_HHMMSS
//       {date}      - the current date as YYYYMMDD
//       {uuid}      - a random UUID
//   - inputPath: The record file the report belongs to.
//   - extension: The report extension with its leading dot. It is appended
//     unless the expanded name already ends with it.
//
// EXAMPLE:
//   GenerateReportFileName("{original}_{timestamp}_{uuid}", "input/reqs.txt", ".xml")
//   => "reqs_20261018_093000_a1b2c3d4-e5f6-7890-abcd-ef1234567890.xml"
func GenerateReportFileName(format, inputPath, extension string) string {
	stamp := time.Now()
	base := filepath.Base(inputPath)

	name := strings.NewReplacer(
		"{original}", strings.TrimSuffix(base, filepath.Ext(base)),
		"{timestamp}", stamp.Format("20060102_150405"),
		"{date}", stamp.Format("20060102"),
		"{uuid}", uuid.NewString(),
	).Replace(format)

	if strings.HasSuffix(strings.ToLower(name), strings.ToLower(extension)) {
		return name
	}
	return name + extension
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// ProcessingSummary describes one batch run.
type ProcessingSummary struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalRecords    int
	ValidRecords    int
	InvalidRecords  int
	Violations      int
	ProcessedFiles  []ProcessedFileInfo
	FailedFilesList []FailedFileInfo
}

// ProcessedFileInfo describes a file that was read and reported.
type ProcessedFileInfo struct {
	InputFile      string
	ReportFile     string
	Records        int
	InvalidRecords int
	ProcessTime    time.Duration
}

// FailedFileInfo describes a file that could not be processed.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

const summaryRule = "--------------------------------------------------------------------------------"

// WriteSummaryLog writes the summary to
// outputDir/processing_summary_<end time>.txt and returns that path.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	path := filepath.Join(outputDir, "processing_summary_"+summary.EndTime.Format("20060102_150405")+".txt")

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	if err := WriteSummary(file, summary); err != nil {
		return "", err
	}

	return path, nil
}

// WriteSummary renders the summary as plain text.
func WriteSummary(w io.Writer, summary ProcessingSummary) error {
	out := bufio.NewWriter(w)

	fmt.Fprintln(out, "MILSTRIP Validator - Processing Summary")
	fmt.Fprintln(out, strings.Repeat("=", len(summaryRule)))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Run:")
	fmt.Fprintf(out, "  Started:  %s\n", summary.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Finished: %s\n", summary.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Duration: %s\n", summary.EndTime.Sub(summary.StartTime))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Totals:")
	fmt.Fprintf(out, "  Files:           %d (%d processed, %d failed)\n",
		summary.TotalFiles, summary.SuccessfulFiles, summary.FailedFiles)
	fmt.Fprintf(out, "  Records:         %d\n", summary.TotalRecords)
	fmt.Fprintf(out, "  Valid records:   %d\n", summary.ValidRecords)
	fmt.Fprintf(out, "  Invalid records: %d\n", summary.InvalidRecords)
	fmt.Fprintf(out, "  Violations:      %d\n", summary.Violations)

	if len(summary.ProcessedFiles) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Processed:")
		fmt.Fprintln(out, summaryRule)
		for _, f := range summary.ProcessedFiles {
			fmt.Fprintf(out, "  %s\n", f.InputFile)
			fmt.Fprintf(out, "    report:  %s\n", f.ReportFile)
			fmt.Fprintf(out, "    records: %d, %d invalid, in %s\n", f.Records, f.InvalidRecords, f.ProcessTime)
		}
	}

	if len(summary.FailedFilesList) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Failed:")
		fmt.Fprintln(out, summaryRule)
		for _, f := range summary.FailedFilesList {
			fmt.Fprintf(out, "  %s\n", f.InputFile)
			fmt.Fprintf(out, "    error: %s\n", f.ErrorMessage)
		}
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// copyFile copies src to dst, replacing dst, and syncs it to disk.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
