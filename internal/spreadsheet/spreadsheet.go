// Package spreadsheet parses tabular import files (CSV or XLSX) into rows
// keyed by canonical column names, normalizing the header spellings and
// numeric/date formats produced by Brazilian banking exports.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Row maps canonical column names to raw cell values.
type Row map[string]string

// Table is a parsed import file.
type Table struct {
	Columns []string // canonical column names, in file order
	Rows    []Row
}

// ErrEmpty is returned when the file contains no header row.
var ErrEmpty = errors.New("spreadsheet: file has no header row")

// columnSynonyms maps normalized (lowercased, diacritic-stripped) header
// names to their canonical equivalents. Unknown headers pass through.
var columnSynonyms = map[string]string{
	"data":      "date",
	"descricao": "description",
	"valor":     "value",
	"tipo":      "type",
	"conta":     "account",
	"categoria": "category_name",
}

// Parse reads file content as XLSX when fileName ends in .xlsx, and as CSV
// otherwise. The first row is treated as the header.
func Parse(fileName string, content []byte) (*Table, error) {
	var records [][]string
	var err error

	if strings.HasSuffix(strings.ToLower(fileName), ".xlsx") {
		records, err = readXLSX(content)
	} else {
		records, err = readCSV(content)
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, ErrEmpty
	}

	columns := make([]string, len(records[0]))
	for i, h := range records[0] {
		columns[i] = CanonicalColumn(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

// HasColumns reports whether every named canonical column is present.
func (t *Table) HasColumns(names ...string) bool {
	present := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		present[c] = true
	}
	for _, n := range names {
		if !present[n] {
			return false
		}
	}
	return true
}

// CanonicalColumn normalizes a header cell: lowercase, diacritics stripped,
// known synonyms mapped to canonical names.
func CanonicalColumn(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = stripDiacritics(h)
	if canonical, ok := columnSynonyms[h]; ok {
		return canonical
	}
	return h
}

// dayFirstLayouts are tried in order when parsing dates. Day-first formats
// come first since that is what the source exports use.
var dayFirstLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"02/01/06",
}

// ParseDate parses a day-first date cell.
func ParseDate(cell string) (time.Time, error) {
	s := strings.TrimSpace(cell)
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, errors.New("spreadsheet: unrecognized date format: " + s)
}

// ParseValue parses a currency cell in Brazilian format: an optional "R$"
// prefix, dots as thousands separators, and a decimal comma.
// "R$ 3.500,00" parses to 3500.00.
func ParseValue(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func readCSV(content []byte) ([][]string, error) {
	// Strip a UTF-8 BOM that spreadsheet exports often prepend.
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func readXLSX(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("spreadsheet: workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

var diacriticStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}
