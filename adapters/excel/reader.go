package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"statdesc/domain/core"
	"statdesc/domain/dataset"
	"statdesc/internal"
	"statdesc/internal/errors"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	opts     ReadOptions
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV
// files. The type is chosen from the extension: .csv, .tsv and .txt are
// delimited text, .xlsx and .xlsm are workbooks.
func NewDataReader(filePath string, opts ReadOptions, logger *internal.Logger) (*DataReader, error) {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	r := &DataReader{filePath: filePath, opts: opts, logger: logger.With("DataReader")}

	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".csv", ".txt":
		r.fileType = "csv"
	case ".tsv":
		r.fileType = "csv"
		r.opts.Delimiter = '\t'
	case ".xlsx", ".xlsm":
		r.fileType = "xlsx"
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type %q", ext))
	}
	if r.opts.Delimiter == 0 {
		r.opts.Delimiter = ','
	}
	return r, nil
}

// ReadTable reads the file into raw string cells. Short rows are padded
// with empty cells to the widest row.
func (r *DataReader) ReadTable(ctx context.Context) (*dataset.RawTable, error) {
	r.logger.Debug("starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		return nil, errors.IOError(r.filePath, err)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	return r.processRows(rows)
}

// readExcelRows reads every row of the configured sheet
func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.IOError(r.filePath, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheet := r.opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("sheet %q not found in %s (sheets: %s)",
			sheet, r.filePath, strings.Join(f.GetSheetList(), ", ")))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.IOError(r.filePath, fmt.Errorf("failed to read %s: %w", sheet, err))
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// readCSVRows reads delimited text
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.IOError(r.filePath, err)
	}
	defer file.Close()

	return r.readDelimited(file)
}

func (r *DataReader) readDelimited(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.Comma = r.opts.Delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read CSV file %s: %w", r.filePath, err))
	}
	r.logger.Debug("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// processRows splits off the header and pads rows to a common width
func (r *DataReader) processRows(rows [][]string) (*dataset.RawTable, error) {
	// drop trailing blank lines that spreadsheets like to keep
	for len(rows) > 0 && blank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}

	table := &dataset.RawTable{Source: r.filePath}
	if r.opts.Header && len(rows) > 0 {
		table.Headers = make([]string, len(rows[0]))
		for i, h := range rows[0] {
			table.Headers[i] = strings.TrimSpace(h)
		}
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no data rows", core.ErrInvalidInput, r.filePath)
	}

	width := len(table.Headers)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	table.Rows = make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, width)
		for j, cell := range row {
			padded[j] = strings.TrimSpace(cell)
		}
		table.Rows[i] = padded
	}

	r.logger.Info("%s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), width, len(table.Rows))
	return table, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
