// Package seriesio reads and writes numeric series from CSV, plain text, JSON and
// Excel files.
package seriesio

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format identifies a series file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// Stdin is the path that reads CSV from standard input.
const Stdin = "-"

// ErrNoValues is returned when a source holds no numeric values.
var ErrNoValues = errors.New("no numeric values found")

// FormatFromPath picks the format from the file extension. .txt is read as CSV.
func FormatFromPath(path string) (Format, error) {
	if path == Stdin {
		return FormatCSV, nil
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file type: %q", ext)
	}
}

// ReadInput reads a series from path, taking "-" to mean CSV from stdin.
func ReadInput(path string, stdin io.Reader) ([]float64, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	if path == Stdin {
		return Read(stdin, format)
	}

	if format == FormatXLSX {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open Excel file: %w", err)
		}
		defer f.Close()
		return readWorkbook(f)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return Read(file, format)
}

// Read decodes a series from r.
func Read(r io.Reader, format Format) ([]float64, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatJSON:
		return readJSON(r)
	case FormatXLSX:
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open Excel data: %w", err)
		}
		defer f.Close()
		return readWorkbook(f)
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
}

func readCSV(r io.Reader) ([]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return firstNumericColumn(rows)
}

func readJSON(r io.Reader) ([]float64, error) {
	var values []float64
	if err := json.NewDecoder(r).Decode(&values); err != nil {
		return nil, fmt.Errorf("failed to decode JSON array: %w", err)
	}
	if len(values) == 0 {
		return nil, ErrNoValues
	}
	return values, nil
}

// readWorkbook reads the first numeric column of the first sheet.
func readWorkbook(f *excelize.File) ([]float64, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	return firstNumericColumn(rows)
}

// firstNumericColumn locates the first cell that parses as a number and returns that
// column from there on. Rows before it (headers, titles) are skipped; blank cells
// after it are skipped; any other non-numeric cell is an error.
func firstNumericColumn(rows [][]string) ([]float64, error) {
	col, start := -1, -1
	for i, row := range rows {
		for j, cell := range row {
			if _, err := parseCell(cell); err == nil {
				col, start = j, i
				break
			}
		}
		if col >= 0 {
			break
		}
	}
	if col < 0 {
		return nil, ErrNoValues
	}

	values := make([]float64, 0, len(rows)-start)
	for i := start; i < len(rows); i++ {
		if col >= len(rows[i]) || strings.TrimSpace(rows[i][col]) == "" {
			continue
		}
		v, err := parseCell(rows[i][col])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func parseCell(cell string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(cell), 64)
}

// WriteCSV writes one value per line under a header.
func WriteCSV(w io.Writer, header string, values []float64) error {
	cw := csv.NewWriter(w)
	if header != "" {
		if err := cw.Write([]string{header}); err != nil {
			return err
		}
	}
	for _, v := range values {
		if err := cw.Write([]string{strconv.FormatFloat(v, 'g', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the values to the first column of Sheet1 under a header.
func WriteXLSX(path, header string, values []float64) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	row := 1
	if header != "" {
		if err := f.SetCellValue(sheet, "A1", header); err != nil {
			return err
		}
		row++
	}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(1, row+i)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// WriteFile writes values to path in the format implied by its extension;
// "-" writes CSV to stdout.
func WriteFile(path, header string, values []float64) error {
	if path == Stdin {
		return WriteCSV(os.Stdout, header, values)
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	switch format {
	case FormatXLSX:
		return WriteXLSX(path, header, values)
	case FormatJSON:
		data, err := json.Marshal(values)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	default:
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := WriteCSV(file, header, values); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	}
}
