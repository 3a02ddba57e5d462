// =============================================================================
// Quarterly Sales Report - Record Loader
// =============================================================================
//
// This module turns sales export files into SalesRecords for the aggregation
// pipeline.
//
// LOADING PIPELINE (per file):
//   1. Pick a parser from the file extension (.csv or .xlsx)
//   2. Parse the file into header -> value rows
//   3. Map each row to a SalesRecord
//
// CONCURRENCY:
//   LoadFiles reads each file in its own goroutine. Results are returned in
//   path order regardless of which file finishes first, so the records
//   handed to the pipeline are always in the same order.
//
// ERROR HANDLING:
//   A value that cannot be parsed fails its whole file; the row number is
//   part of the error. Business checks (negative quantities, unknown
//   departments, ...) are not done here. They belong to the pipeline, which
//   skips such records instead of failing.
//
// =============================================================================

package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/quarterly-sales-report/internal/config"
	"github.com/ginjaninja78/quarterly-sales-report/internal/csvparser"
	"github.com/ginjaninja78/quarterly-sales-report/internal/types"
	"github.com/ginjaninja78/quarterly-sales-report/internal/xlsxparser"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of loading a single file.
type Result struct {
	// FilePath is the path to the input file.
	FilePath string

	// Success indicates whether every row of the file was loaded.
	Success bool

	// Error contains the error if loading failed.
	Error error

	// Records are the loaded records, in file order. Empty on failure.
	Records []types.SalesRecord

	// Stats contains loading statistics.
	Stats LoadStats
}

// LoadStats contains statistics about loading one file.
type LoadStats struct {
	// RowsLoaded is the number of data rows turned into records.
	RowsLoaded int

	// LoadTime is the time taken to read and map the file.
	LoadTime time.Duration
}

// =============================================================================
// LOADER STRUCTURE
// =============================================================================

// Loader reads sales export files.
type Loader struct {
	settings config.CSVSettings
	sheet    string
	logger   *zap.Logger
}

// New creates a Loader.
//
// PARAMETERS:
//   - input: The input section of the configuration (CSV settings and
//            XLSX sheet name).
//   - logger: Receives per-file progress. nil discards it.
func New(input config.InputConfig, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		settings: input.CSVSettings,
		sheet:    input.Sheet,
		logger:   logger,
	}
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// LoadFile loads a single CSV or XLSX file.
func (l *Loader) LoadFile(path string) Result {
	start := time.Now()
	result := Result{FilePath: path}

	rows, err := l.readRows(path)
	if err != nil {
		result.Error = err
		l.logger.Warn("file failed to load", zap.String("file", path), zap.Error(err))
		return result
	}

	records := make([]types.SalesRecord, 0, len(rows))
	for _, row := range rows {
		record, err := RecordFromRow(row.Values, row.Number)
		if err != nil {
			result.Error = err
			l.logger.Warn("file failed to load", zap.String("file", path), zap.Error(err))
			return result
		}
		records = append(records, record)
	}

	result.Success = true
	result.Records = records
	result.Stats = LoadStats{RowsLoaded: len(records), LoadTime: time.Since(start)}

	l.logger.Debug("file loaded",
		zap.String("file", path),
		zap.Int("rows", len(records)),
		zap.Duration("elapsed", result.Stats.LoadTime),
	)

	return result
}

func (l *Loader) readRows(path string) ([]csvparser.Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		data, err := csvparser.Parse(path, l.settings)
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		return data.Rows, nil
	case ".xlsx":
		data, err := xlsxparser.Parse(path, l.sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to parse XLSX: %w", err)
		}
		return data.Rows, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFiles loads every path concurrently, one goroutine per file.
//
// RETURNS:
//   - One Result per path, sorted by path.
func (l *Loader) LoadFiles(paths []string) []Result {
	var wg sync.WaitGroup

	// Buffered so that no goroutine blocks on send.
	results := make(chan Result, len(paths))

	for _, path := range paths {
		wg.Add(1)

		go func(filePath string) {
			defer wg.Done()
			results <- l.LoadFile(filePath)
		}(path)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]Result, 0, len(paths))
	for result := range results {
		collected = append(collected, result)
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].FilePath < collected[j].FilePath
	})

	return collected
}

// Records concatenates the records of results in order. Any failed file
// makes the whole set unusable; the returned error joins every failure.
func Records(results []Result) ([]types.SalesRecord, error) {
	var errs []error
	total := 0
	for _, r := range results {
		if !r.Success {
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(r.FilePath), r.Error))
			continue
		}
		total += len(r.Records)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	records := make([]types.SalesRecord, 0, total)
	for _, r := range results {
		records = append(records, r.Records...)
	}
	return records, nil
}
