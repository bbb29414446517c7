package modelcard

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	xlsHelpers "github.com/shakinm/xlsReader/helpers"
	xlsReader "github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/record"
	"github.com/shakinm/xlsReader/xls/structure"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cardops/modelcard/domain/model"
)

// utf8BOM is the byte order mark some spreadsheet tools put in front of CSV exports
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// table is the parsed content of one sheet
type table struct {
	header model.Header
	rows   [][]model.Value
}

// records turns every data row into a raw row keyed by header label.
func (t *table) records() []*model.Record {
	out := make([]*model.Record, 0, len(t.rows))
	for _, cells := range t.rows {
		out = append(out, t.header.Row(cells))
	}
	return out
}

// Parse reads every data row of a CSV, XLSX or XLS file.
//
// The first row with any non-empty cell is the header; its labels become the
// keys of each returned row exactly as written. Rows keep absent values for
// empty cells; use ParseRecords to get filtered records. A header with no
// data rows yields an empty slice.
func Parse(path string) ([]*model.Record, error) {
	fileType, err := validatePath(path)
	if err != nil {
		return nil, err
	}

	f := newFile(path)
	var t *table
	switch fileType {
	case FileTypeCSV:
		t, err = f.parseCSV()
	case FileTypeXLSX:
		t, err = f.parseXLSX()
	case FileTypeXLS:
		t, err = f.parseXLS()
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, NewErrorContext("parse", path).Error(err)
	}
	return t.records(), nil
}

// ParseReader reads every data row from an uncompressed stream of the given type.
func ParseReader(r io.Reader, fileType FileType) ([]*model.Record, error) {
	if err := validateReader(r, fileType); err != nil {
		return nil, err
	}

	var (
		t   *table
		err error
	)
	switch fileType {
	case FileTypeCSV:
		t, err = parseCSV(r)
	case FileTypeXLSX:
		t, err = parseXLSX(r)
	case FileTypeXLS:
		t, err = parseXLS(r)
	}
	if err != nil {
		return nil, NewErrorContext("parse", "").WithDetails(fileType.String() + " stream").Error(err)
	}
	return t.records(), nil
}

// ParseRecords parses path and filters every row, dropping rows without content.
// The result is never nil.
func ParseRecords(path string) ([]*model.Record, error) {
	rows, err := Parse(path)
	if err != nil {
		return nil, err
	}
	return FilterAll(rows), nil
}

// splitHeader finds the header row in a grid of cell text and returns it
// together with the index of the first data row.
func splitHeader(grid [][]string) (model.Header, int, error) {
	for i, row := range grid {
		header := model.NewHeader(row)
		if header.IsBlank() {
			continue
		}
		if err := header.Validate(); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrParse, err)
		}
		return header, i + 1, nil
	}
	return nil, 0, ErrEmptyInput
}

// readAll reads the decompressed content of the file into memory.
func (f *file) readAll() ([]byte, error) {
	reader, closer, err := f.openReader()
	if err != nil {
		return nil, err
	}
	defer closer() //nolint:errcheck // read-only file

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return data, nil
}

// parseCSV parses CSV file with compression support
func (f *file) parseCSV() (*table, error) {
	reader, closer, err := f.openReader()
	if err != nil {
		return nil, err
	}
	defer closer() //nolint:errcheck // read-only file

	return parseCSV(reader)
}

// parseCSV reads comma separated text. Input that is not valid UTF-8 is
// decoded as UTF-16 when it carries a BOM and as Windows-1252 otherwise.
func parseCSV(r io.Reader) (*table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	data, err = toUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	csvReader := csv.NewReader(bytes.NewReader(data))
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	var grid [][]string
	for {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		grid = append(grid, row)
	}

	header, start, err := splitHeader(grid)
	if err != nil {
		return nil, err
	}

	t := &table{header: header, rows: make([][]model.Value, 0, len(grid)-start)}
	for _, row := range grid[start:] {
		t.rows = append(t.rows, inferCells(row))
	}
	return t, nil
}

// toUTF8 strips a UTF-8 BOM, or transcodes legacy encodings to UTF-8.
func toUTF8(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		return bytes.TrimPrefix(data, utf8BOM), nil
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(charmap.Windows1252.NewDecoder()), data)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

// parseXLSX parses the first sheet of an XLSX file with compression support
func (f *file) parseXLSX() (*table, error) {
	if !f.isCompressed() {
		xlsxFile, err := excelize.OpenFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		defer xlsxFile.Close() //nolint:errcheck // read-only workbook
		return readWorkbook(xlsxFile)
	}

	// excelize needs random access, so compressed workbooks are inflated in memory
	data, err := f.readAll()
	if err != nil {
		return nil, err
	}
	return parseXLSX(bytes.NewReader(data))
}

// parseXLSX parses the first sheet of an XLSX stream
func parseXLSX(r io.Reader) (*table, error) {
	xlsxFile, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	defer xlsxFile.Close() //nolint:errcheck // read-only workbook
	return readWorkbook(xlsxFile)
}

// readWorkbook reads the first sheet. Other sheets are ignored.
func readWorkbook(xlsxFile *excelize.File) (*table, error) {
	sheets := xlsxFile.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyInput
	}

	s := &xlsxSheet{file: xlsxFile, name: sheets[0]}
	var err error
	if s.display, err = xlsxFile.GetRows(s.name); err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %s: %w", ErrParse, s.name, err)
	}
	if s.raw, err = xlsxFile.GetRows(s.name, excelize.Options{RawCellValue: true}); err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %s: %w", ErrParse, s.name, err)
	}

	header, start, err := splitHeader(s.display)
	if err != nil {
		return nil, err
	}

	t := &table{header: header, rows: make([][]model.Value, 0, len(s.display)-start)}
	for r := start; r < len(s.display); r++ {
		cells := make([]model.Value, len(header))
		for c := range header {
			if cells[c], err = s.cell(r, c); err != nil {
				return nil, err
			}
		}
		t.rows = append(t.rows, cells)
	}
	return t, nil
}

// xlsxSheet holds the displayed and the raw text of one worksheet
type xlsxSheet struct {
	file    *excelize.File
	name    string
	display [][]string
	raw     [][]string
}

// cell returns the typed value of the cell at zero-based row r and column c.
//
// Text cells stay strings and boolean cells become bool. Numeric cells take
// their raw value unless the number format renders something that is not a
// number, such as a date or a percentage, in which case the displayed text is
// kept.
func (s *xlsxSheet) cell(r, c int) (model.Value, error) {
	shown := gridAt(s.display, r, c)
	raw := gridAt(s.raw, r, c)
	if shown == "" && raw == "" {
		return model.Absent(), nil
	}

	axis, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return model.Absent(), fmt.Errorf("%w: %w", ErrParse, err)
	}
	cellType, err := s.file.GetCellType(s.name, axis)
	if err != nil {
		return model.Absent(), fmt.Errorf("%w: cell %s: %w", ErrParse, axis, err)
	}

	switch cellType {
	case excelize.CellTypeBool:
		return model.Bool(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return model.String(shown), nil
	default:
		if isNumericText(raw) && (shown == raw || isNumericText(strings.ReplaceAll(shown, ",", ""))) {
			return inferCell(raw), nil
		}
		if shown == "" {
			return inferCell(raw), nil
		}
		return inferCell(shown), nil
	}
}

// gridAt returns the cell text at row r and column c, or "" when out of range
func gridAt(grid [][]string, r, c int) string {
	if r >= len(grid) || c >= len(grid[r]) {
		return ""
	}
	return grid[r][c]
}

// parseXLS parses the first sheet of a legacy Excel workbook
func (f *file) parseXLS() (*table, error) {
	data, err := f.readAll()
	if err != nil {
		return nil, err
	}
	return readLegacyWorkbook(data)
}

// parseXLS parses the first sheet of a legacy Excel stream
func parseXLS(r io.Reader) (*table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return readLegacyWorkbook(data)
}

// readLegacyWorkbook converts the first sheet of a BIFF8 workbook into text
// cells and infers their types. The reader indexes records without bounds
// checks, so a truncated workbook panics inside it; that is reported as ErrParse.
func readLegacyWorkbook(data []byte) (t *table, err error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("%w: malformed workbook: %v", ErrParse, r)
		}
	}()

	workbook, err := xlsReader.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if workbook.GetNumberSheets() == 0 {
		return nil, fmt.Errorf("%w: no worksheet found", ErrParse)
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	rows := sheet.GetRows()
	grid := make([][]string, 0, len(rows))
	for _, row := range rows {
		cols := row.GetCols()
		cells := make([]string, len(cols))
		for c, cell := range cols {
			cells[c] = legacyCellText(&workbook, cell)
		}
		grid = append(grid, cells)
	}

	header, start, err := splitHeader(grid)
	if err != nil {
		return nil, err
	}

	t = &table{header: header, rows: make([][]model.Value, 0, len(grid)-start)}
	for _, row := range grid[start:] {
		t.rows = append(t.rows, inferCells(row))
	}
	return t, nil
}

// legacyDateLayouts renders the built-in BIFF date and time formats the way
// excelize renders the same built-in formats for XLSX.
var legacyDateLayouts = map[int]string{
	14: "01-02-06",
	15: "2-Jan-06",
	16: "2-Jan",
	17: "Jan-06",
	18: "3:04 PM",
	19: "3:04:05 PM",
	20: "15:04",
	21: "15:04:05",
	22: "1/2/06 15:04",
	45: "04:05",
}

// legacyCellText returns the text of a cell. Numbers carrying a date format
// come back as the displayed date; other numbers keep their raw value unless
// a custom format turns them into something that is no longer a number.
func legacyCellText(workbook *xlsReader.Workbook, cell structure.CellData) string {
	switch cell.(type) {
	case *record.Number, *record.Rk:
	default:
		return legacyText(cell.GetString())
	}

	raw := cell.GetString()
	xf := workbook.GetXFbyIndex(cell.GetXFIndex())
	formatIndex := xf.GetFormatIndex()
	if layout, ok := legacyDateLayouts[formatIndex]; ok {
		return xlsHelpers.TimeFromExcelTime(cell.GetFloat64(), false).Format(layout)
	}
	if formatIndex < firstCustomFormat {
		return raw
	}

	format := workbook.GetFormatByIndex(formatIndex)
	shown := format.GetFormatString(cell)
	if shown == "" || isNumericText(strings.ReplaceAll(shown, ",", "")) {
		return raw
	}
	return shown
}

// firstCustomFormat is the lowest number format index a workbook may define itself
const firstCustomFormat = 164

// legacyText converts BIFF8 text that is not valid UTF-8 from Windows-1252
func legacyText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	decoded, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return strings.ToValidUTF8(s, "\uFFFD")
	}
	return decoded
}
