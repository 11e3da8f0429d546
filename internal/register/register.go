// Package register reads the risk register spreadsheet and looks up records
// by identifier.
//
// The register is a workbook (.xlsx) or a CSV export of it. Column titles sit
// on a fixed row, data follows below, and the twenty record fields occupy
// columns B through U. Titles are not matched by name: columns are mapped
// positionally to ficha.Columns.
package register

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	ficha "github.com/victor-trinidad/Generar-Ficha-de-Riesgo"
)

// Sentinel errors for register loading and lookup.
var (
	ErrRegisterOpen        = errors.New("cannot open register")
	ErrSheetNotFound       = errors.New("sheet not found")
	ErrRiskNotFound        = errors.New("risk not found")
	ErrUnsupportedRegister = errors.New("unsupported register format")
	ErrRegisterTooLarge    = errors.New("register too large")
)

// Register layout defaults.
const (
	DefaultSheet     = "LMM_ORG_04"
	DefaultHeaderRow = 17

	// firstColumn is the zero-based index of column B.
	firstColumn = 1

	// MaxRegisterSize bounds the file read into memory (50MB).
	MaxRegisterSize = 50 << 20
)

// utf8BOM is written by spreadsheet tools at the start of CSV exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options locate the data inside the register.
type Options struct {
	Sheet     string // workbook sheet; empty = DefaultSheet
	HeaderRow int    // 1-based row holding the column titles; 0 = DefaultHeaderRow
	Comma     rune   // CSV field separator; 0 = ','
}

func (o Options) withDefaults() Options {
	if o.Sheet == "" {
		o.Sheet = DefaultSheet
	}
	if o.HeaderRow <= 0 {
		o.HeaderRow = DefaultHeaderRow
	}
	if o.Comma == 0 {
		o.Comma = ','
	}
	return o
}

// Register holds the records of one register file, in sheet order.
type Register struct {
	records []ficha.RiskRecord
	index   map[string]int
}

// Load reads a register file, choosing the reader by extension.
func Load(path string, opts Options) (*Register, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".csv" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedRegister, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegisterOpen, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrRegisterOpen, path)
	}
	if info.Size() > MaxRegisterSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrRegisterTooLarge, info.Size(), MaxRegisterSize)
	}

	f, err := os.Open(path) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegisterOpen, err)
	}
	defer func() { _ = f.Close() }()

	if ext == ".csv" {
		return ReadCSV(f, opts)
	}
	return ReadXLSX(f, opts)
}

// ReadXLSX reads a workbook. Cell values are taken as displayed.
func ReadXLSX(r io.Reader, opts Options) (*Register, error) {
	opts = opts.withDefaults()

	f, err := excelize.OpenReader(io.LimitReader(r, MaxRegisterSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegisterOpen, err)
	}
	defer func() { _ = f.Close() }()

	idx, err := f.GetSheetIndex(opts.Sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrSheetNotFound, opts.Sheet, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(opts.Sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegisterOpen, err)
	}
	return fromRows(rows, opts.HeaderRow)
}

// ReadCSV reads a CSV export with the same row and column layout as the sheet.
func ReadCSV(r io.Reader, opts Options) (*Register, error) {
	opts = opts.withDefaults()

	data, err := io.ReadAll(io.LimitReader(r, MaxRegisterSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegisterOpen, err)
	}
	if len(data) > MaxRegisterSize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrRegisterTooLarge, MaxRegisterSize)
	}

	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	cr.Comma = opts.Comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegisterOpen, err)
	}
	return fromRows(rows, opts.HeaderRow)
}

// fromRows maps the rows below headerRow to records. Missing trailing cells
// are blank and rows without an identifier are dropped.
func fromRows(rows [][]string, headerRow int) (*Register, error) {
	reg := &Register{index: make(map[string]int)}
	if len(rows) <= headerRow {
		return reg, nil
	}

	cells := make([]string, len(ficha.Columns))
	for _, row := range rows[headerRow:] {
		for i := range cells {
			cells[i] = ""
			if c := firstColumn + i; c < len(row) {
				cells[i] = row[c]
			}
		}
		id := strings.TrimSpace(cells[0])
		if id == "" {
			continue
		}

		rec, err := ficha.RecordFromRow(cells)
		if err != nil {
			return nil, err
		}
		if _, dup := reg.index[id]; !dup {
			reg.index[id] = len(reg.records)
		}
		reg.records = append(reg.records, rec)
	}
	return reg, nil
}

// Find returns the first record whose identifier equals id.
// Surrounding whitespace is ignored on both sides.
func (r *Register) Find(id string) (ficha.RiskRecord, error) {
	i, ok := r.index[strings.TrimSpace(id)]
	if !ok {
		return ficha.RiskRecord{}, fmt.Errorf("%w: %q", ErrRiskNotFound, id)
	}
	return r.records[i], nil
}

// IDs returns the record identifiers in sheet order.
func (r *Register) IDs() []string {
	ids := make([]string, len(r.records))
	for i, rec := range r.records {
		ids[i] = strings.TrimSpace(rec.ID)
	}
	return ids
}

// Records returns a copy of all records in sheet order.
func (r *Register) Records() []ficha.RiskRecord {
	out := make([]ficha.RiskRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Len returns the number of records.
func (r *Register) Len() int {
	return len(r.records)
}
