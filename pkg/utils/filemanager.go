// =============================================================================
// TCG Order Processor - File Manager Utility
// =============================================================================
//
// This module provides the file handling around the batch pipeline:
//   - Input discovery (files, directories, globs and stdin)
//   - Output directory management
//   - Output file naming
//   - Processing summary logs
//
// The pipeline itself never touches the filesystem; everything that reads
// or writes a path goes through here.
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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StdinArg names standard input on the command line.
const StdinArg = "-"

// InputExtensions are the file types picked up when a directory is given.
var InputExtensions = []string{".tsv", ".txt"}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the processor.
type FileManager struct {
	// OutputDir is the directory where export files are placed.
	OutputDir string

	// Stdin is read for the "-" input. Defaults to os.Stdin.
	Stdin io.Reader
}

// NewFileManager creates a FileManager writing into outputDir.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{
		OutputDir: outputDir,
		Stdin:     os.Stdin,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// INPUT DISCOVERY
// =============================================================================

// ResolveInputs expands command line arguments into input paths.
//
// PARAMETERS:
//   - args: File paths, directories, glob patterns or "-" for stdin.
//
// RETURNS:
//   - The input paths in argument order, each listed once. Directories
//     contribute their InputExtensions files in name order.
//   - An error if an argument matches nothing.
func (fm *FileManager) ResolveInputs(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{StdinArg}, nil
	}

	seen := make(map[string]bool)
	var inputs []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			inputs = append(inputs, path)
		}
	}

	for _, arg := range args {
		if arg == StdinArg {
			add(arg)
			continue
		}

		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid input pattern %s: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("input not found: %s", arg)
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, fmt.Errorf("failed to stat input %s: %w", match, err)
			}
			if !info.IsDir() {
				add(match)
				continue
			}

			files, err := DiscoverInputFiles(match)
			if err != nil {
				return nil, err
			}
			for _, file := range files {
				add(file)
			}
		}
	}

	return inputs, nil
}

// DiscoverInputFiles lists the InputExtensions files directly inside dir,
// sorted by name.
func DiscoverInputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range InputExtensions {
			if ext == want {
				files = append(files, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// ReadInput returns the contents of an input path, reading Stdin for "-".
func (fm *FileManager) ReadInput(path string) (string, error) {
	if path == StdinArg {
		stdin := fm.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input %s: %w", path, err)
	}
	return string(data), nil
}

// =============================================================================
// OUTPUT FILES
// =============================================================================

// GenerateOutputFileName expands the placeholders of a file name format.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {date}      - Date (YYYY-MM-DD, UTC)
//               {timestamp} - Timestamp (YYYYMMDD_HHMMSS, UTC)
//               {uuid}      - A random UUID
//               {ext}       - The output extension
//               {original}  - Input file name without extension
//   - ext: The output extension, without the dot.
//   - original: The input path, or "-" for stdin.
//   - now: The reference time.
//
// EXAMPLE:
//   format: "TCGPlayer_Orders_{date}.{ext}"
//   output: "TCGPlayer_Orders_2025-03-07.csv"
func GenerateOutputFileName(format, ext, original string, now time.Time) string {
	now = now.UTC()

	name := "stdin"
	if original != StdinArg && original != "" {
		base := filepath.Base(original)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	replacer := strings.NewReplacer(
		"{date}", now.Format("2006-01-02"),
		"{timestamp}", now.Format("20060102_150405"),
		"{uuid}", uuid.New().String(),
		"{ext}", ext,
		"{original}", name,
	)
	return replacer.Replace(format)
}

// PerInputNameFormat makes format name each input's output after the input,
// by adding "_{original}" before the extension. Formats that already use
// {original} are returned unchanged.
func PerInputNameFormat(format string) string {
	if strings.Contains(format, "{original}") {
		return format
	}
	if strings.Contains(format, ".{ext}") {
		return strings.Replace(format, ".{ext}", "_{original}.{ext}", 1)
	}
	return format + "_{original}"
}

// OutputNames hands out output file names that are unique within one run.
// It is safe for concurrent use.
type OutputNames struct {
	mu    sync.Mutex
	taken map[string]bool
}

// NewOutputNames creates an empty OutputNames.
func NewOutputNames() *OutputNames {
	return &OutputNames{taken: make(map[string]bool)}
}

// Claim returns name if no earlier call claimed it. Otherwise it returns the
// first free "<stem>_<n><ext>" with n counting up from 2.
func (n *OutputNames) Claim(name string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := name
	for i := 2; n.taken[candidate]; i++ {
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
	n.taken[candidate] = true
	return candidate
}

// Create opens name inside OutputDir for writing, creating the directory
// first. Absolute names and names containing a directory are used as is.
func (fm *FileManager) Create(name string) (*os.File, string, error) {
	path := name
	if filepath.Base(name) == name {
		if err := fm.EnsureDirectories(); err != nil {
			return nil, "", err
		}
		path = filepath.Join(fm.OutputDir, name)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create output file: %w", err)
	}
	return file, path, nil
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalOrders     int
	TotalNet        decimal.Decimal
	SkippedRecords  int
	LintFindings    int
	ProcessedFiles  []ProcessedFileInfo
	FailedFilesList []FailedFileInfo
}

// ProcessedFileInfo contains information about a successfully processed file.
type ProcessedFileInfo struct {
	InputFile   string
	OutputFile  string
	Format      string
	Orders      int
	Skipped     int
	Findings    int
	TotalNet    decimal.Decimal
	AllDirect   bool
	DateRange   string
	ProcessTime time.Duration
}

// FailedFileInfo contains information about a failed file.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// Add folds one processed file into the run totals.
func (s *ProcessingSummary) Add(info ProcessedFileInfo) {
	s.SuccessfulFiles++
	s.TotalOrders += info.Orders
	s.TotalNet = s.TotalNet.Add(info.TotalNet)
	s.SkippedRecords += info.Skipped
	s.LintFindings += info.Findings
	s.ProcessedFiles = append(s.ProcessedFiles, info)
}

// Fail records a file that could not be processed.
func (s *ProcessingSummary) Fail(inputFile string, err error) {
	s.FailedFiles++
	s.FailedFilesList = append(s.FailedFilesList, FailedFileInfo{
		InputFile:    inputFile,
		ErrorMessage: err.Error(),
	})
}

// WriteSummaryLog writes a processing summary to a log file.
//
// PARAMETERS:
//   - summary: The processing summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", outputDir, err)
	}

	timestamp := summary.EndTime.Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("processing_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	writeSummary(writer, summary)

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

func writeSummary(w io.Writer, summary ProcessingSummary) {
	rule := strings.Repeat("=", 80)
	thin := strings.Repeat("-", 80)

	fmt.Fprintf(w, "TCG Order Processor - Processing Summary\n%s\n\n", rule)
	fmt.Fprintf(w, "Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime))

	fmt.Fprintf(w, "Statistics:\n"+
		"  Total Files:      %d\n"+
		"  Successful:       %d\n"+
		"  Failed:           %d\n"+
		"  Total Orders:     %d\n"+
		"  Total Net:        $%s\n"+
		"  Skipped Records:  %d\n"+
		"  Lint Findings:    %d\n\n",
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalOrders,
		summary.TotalNet.StringFixed(2),
		summary.SkippedRecords,
		summary.LintFindings)

	if len(summary.ProcessedFiles) > 0 {
		fmt.Fprintf(w, "Successful Files:\n%s\n", thin)
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(w, "  Input:        %s\n", pf.InputFile)
			fmt.Fprintf(w, "  Output:       %s\n", pf.OutputFile)
			fmt.Fprintf(w, "  Format:       %s\n", pf.Format)
			fmt.Fprintf(w, "  Orders:       %d (skipped %d, findings %d)\n", pf.Orders, pf.Skipped, pf.Findings)
			fmt.Fprintf(w, "  Net:          $%s\n", pf.TotalNet.StringFixed(2))
			fmt.Fprintf(w, "  All Direct:   %t\n", pf.AllDirect)
			fmt.Fprintf(w, "  Date:         %s\n", pf.DateRange)
			fmt.Fprintf(w, "  Process Time: %s\n\n", pf.ProcessTime)
		}
	}

	if len(summary.FailedFilesList) > 0 {
		fmt.Fprintf(w, "Failed Files:\n%s\n", thin)
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(w, "  File:  %s\n", ff.InputFile)
			fmt.Fprintf(w, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	fmt.Fprintf(w, "%s\nEnd of Summary\n", rule)
}
