// =============================================================================
// MILSTRIP Validator - Batch Processor Module
// =============================================================================
//
// This module runs the validator over whole input files. It orchestrates
// the pipeline for a single file, from reading records to writing the
// report, and runs many files through a bounded worker pool.
//
// PROCESSING PIPELINE:
//   1. Open the input source (text file, CSV file or workbook)
//   2. Validate every record
//   3. Build the report
//   4. Encode the report (XML or YAML)
//   5. Write the report file (skipped in dry-run mode)
//   6. Archive the input and the report
//
// A file whose records are invalid is still processed successfully: the
// violations are the report's content. A file fails only when it cannot be
// read or its report cannot be written.
//
// CONCURRENCY:
//   Files are processed by at most MaxConcurrency workers. The Processor
//   holds no per-file state and is safe for concurrent use.
//
// =============================================================================

package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ginjaninja78/milstrip-validator/internal/config"
	"github.com/ginjaninja78/milstrip-validator/internal/logging"
	"github.com/ginjaninja78/milstrip-validator/internal/recordreader"
	"github.com/ginjaninja78/milstrip-validator/internal/report"
	"github.com/ginjaninja78/milstrip-validator/internal/types"
	"github.com/ginjaninja78/milstrip-validator/internal/validation"
	"github.com/ginjaninja78/milstrip-validator/pkg/utils"
)

// ErrSkipped marks files that were not started because an earlier file
// failed and continue_on_error is off.
var ErrSkipped = errors.New("skipped after an earlier failure")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// ReportFile is the path to the written report.
	// This is empty if processing failed or in dry-run mode.
	ReportFile string

	// Success indicates whether the file was read and reported.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics.
	Stats Stats
}

// Stats contains statistics about the processing of one file.
type Stats struct {
	// Records is the number of records read.
	Records int

	// ValidRecords is the number of records without violations.
	ValidRecords int

	// InvalidRecords is the number of records with at least one violation.
	InvalidRecords int

	// Violations is the total number of reported violations.
	Violations int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// PROCESSOR STRUCTURE
// =============================================================================

// Options contains options for creating a Processor.
type Options struct {
	// DryRun validates and builds reports without writing or archiving.
	DryRun bool

	// Logger receives progress messages. Nil discards them.
	Logger logging.Logger

	// Validator checks the records. Nil builds one from the configured
	// reference year.
	Validator *validation.Validator
}

// Processor validates input files and writes their reports.
type Processor struct {
	config    *config.MainConfig
	files     *utils.FileManager
	validator *validation.Validator
	logger    logging.Logger
	dryRun    bool

	// run processes one file for RunAll.
	run func(ctx context.Context, filePath string) Result
}

// New creates a new Processor.
//
// PARAMETERS:
//   - cfg: The main application configuration.
//   - opts: Processor options.
//
// RETURNS:
//   - A new Processor instance.
func New(cfg *config.MainConfig, opts Options) *Processor {
	files := utils.NewFileManager(cfg)

	v := opts.Validator
	if v == nil {
		v = validation.New(validation.WithReferenceYear(cfg.ReferenceYear))
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	p := &Processor{
		config:    cfg,
		files:     files,
		validator: v,
		logger:    logger,
		dryRun:    opts.DryRun,
	}
	p.run = p.Run
	return p
}

// Files returns the file manager used for discovery and archival.
func (p *Processor) Files() *utils.FileManager {
	return p.files
}

// =============================================================================
// SINGLE FILE PROCESSING
// =============================================================================

// Run executes the pipeline for one file.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
func (p *Processor) Run(ctx context.Context, filePath string) Result {
	startTime := time.Now()
	result := Result{
		FilePath: filePath,
		Success:  false,
	}

	p.logger.Info("Processing file: %s", filePath)

	// =========================================================================
	// STEP 1: READ AND VALIDATE RECORDS
	// =========================================================================

	checked, err := p.checkFile(ctx, filePath)
	if err != nil {
		result.Error = err
		p.logger.Error("Failed to process %s: %v", filePath, err)
		return result
	}

	for _, c := range checked {
		result.Stats.Records++
		result.Stats.Violations += len(c.Result.Errors)
		if c.Result.IsValid {
			result.Stats.ValidRecords++
		} else {
			result.Stats.InvalidRecords++
		}
	}

	p.logger.Debug("Validated %d record(s) from %s: %d invalid",
		result.Stats.Records, filePath, result.Stats.InvalidRecords)

	// =========================================================================
	// STEP 2: BUILD AND ENCODE THE REPORT
	// =========================================================================

	options := report.DefaultBuildOptions()
	options.ReferenceYear = p.validator.ReferenceYear()

	doc := report.Build(filepath.Base(filePath), checked, options)
	data, err := report.Encode(doc, p.config.ReportFormat)
	if err != nil {
		result.Error = fmt.Errorf("failed to encode report: %w", err)
		return result
	}

	// =========================================================================
	// STEP 3: WRITE THE REPORT
	// =========================================================================

	if p.dryRun {
		p.logger.Info("Dry run: %s has %d invalid record(s), report not written",
			filePath, result.Stats.InvalidRecords)
		result.Success = true
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	reportPath, err := p.writeReport(filePath, data)
	if err != nil {
		result.Error = fmt.Errorf("failed to write report: %w", err)
		p.logger.Error("Failed to process %s: %v", filePath, result.Error)
		return result
	}

	result.ReportFile = reportPath
	p.logger.Info("Wrote report to: %s", reportPath)

	// =========================================================================
	// STEP 4: ARCHIVE FILES
	// =========================================================================

	if err := p.archiveFiles(filePath, reportPath); err != nil {
		// Log the error but don't fail the processing.
		p.logger.Warn("Failed to archive files: %v", err)
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// checkFile reads every record of the file and validates it.
func (p *Processor) checkFile(ctx context.Context, filePath string) ([]types.CheckedRecord, error) {
	src, err := recordreader.Open(filePath, recordreader.Settings{
		Workbook: p.config.Workbook,
		CSV:      p.config.CSV,
	})
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var checked []types.CheckedRecord
	for src.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record := src.Record()
		result := p.validator.Check(record.Text)
		if !result.IsValid {
			p.logger.Debug("Record %d of %s: %s", record.Number, filePath,
				strings.TrimSpace(validation.FormatErrors(result.Errors)))
		}
		checked = append(checked, types.CheckedRecord{Record: record, Result: result})
	}

	if err := src.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	return checked, nil
}

// writeReport writes the encoded report to the output directory.
func (p *Processor) writeReport(filePath string, data []byte) (string, error) {
	if err := os.MkdirAll(p.config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := utils.GenerateReportFileName(
		p.config.ReportNameFormat,
		filePath,
		report.Extension(p.config.ReportFormat),
	)
	reportPath := filepath.Join(p.config.OutputDir, name)

	if err := os.WriteFile(reportPath, data, 0644); err != nil {
		return "", err
	}

	return reportPath, nil
}

// archiveFiles moves the input and copies the report to their archives.
func (p *Processor) archiveFiles(filePath, reportPath string) error {
	if _, err := p.files.ArchiveInputFile(filePath); err != nil {
		return fmt.Errorf("input %s: %w", filePath, err)
	}
	if _, err := p.files.ArchiveOutputFile(reportPath); err != nil {
		return fmt.Errorf("report %s: %w", reportPath, err)
	}
	return nil
}

// =============================================================================
// CONCURRENT PROCESSING
// =============================================================================

// RunAll processes the files with at most MaxConcurrency workers.
//
// PARAMETERS:
//   - ctx: Cancelling the context stops workers from starting new files
//     and aborts the files in progress. A failed file with
//     continue_on_error off only stops new files from starting.
//   - files: The input files.
//
// RETURNS:
//   - One Result per file, in the order of files. Files that were never
//     started carry the context error, or ErrSkipped when an earlier
//     failure stopped the run.
func (p *Processor) RunAll(ctx context.Context, files []string) []Result {
	results := make([]Result, len(files))
	if len(files) == 0 {
		return results
	}

	// stopCtx gates new files only; files in progress keep ctx.
	stopCtx, stop := context.WithCancel(ctx)
	defer stop()

	workers := p.config.MaxConcurrency
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	// The job queue is filled and closed up front so workers drain it
	// without a producer goroutine.
	jobs := make(chan int, len(files))
	for i := range files {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if stopCtx.Err() != nil {
					results[i] = p.notStarted(ctx, files[i])
					continue
				}

				results[i] = p.run(ctx, files[i])
				if !results[i].Success && !p.config.ShouldContinueOnError() {
					stop()
				}
			}
		}()
	}

	wg.Wait()
	return results
}

// notStarted builds the result for a file the run never reached.
func (p *Processor) notStarted(ctx context.Context, filePath string) Result {
	err := ctx.Err()
	if err == nil {
		err = ErrSkipped
	}
	return Result{FilePath: filePath, Error: err}
}
