package core

// table.go converts raw pasted text into a uniform row-oriented Table.
//
// Two input shapes are accepted, tried in order:
//   - Structured records: a JSON array of objects. The first object's key
//     order defines the field set.
//   - Delimited text: a comma-separated header line followed by data lines.
//
// Every row carries exactly the first row's fields. Cells that have no value
// (short rows, JSON null, absent keys) hold the Missing sentinel, which is the
// zero Cell.

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CellKind tells what a Cell holds.
type CellKind int

const (
	CellMissing CellKind = iota
	CellString
	CellNumber
)

func (k CellKind) String() string {
	switch k {
	case CellString:
		return "string"
	case CellNumber:
		return "number"
	default:
		return "missing"
	}
}

// Cell is a single table value: a string, a number, or Missing.
type Cell struct {
	kind CellKind
	str  string
	num  float64
}

// StringCell returns a string cell.
func StringCell(s string) Cell { return Cell{kind: CellString, str: s} }

// NumberCell returns a number cell.
func NumberCell(f float64) Cell { return Cell{kind: CellNumber, num: f} }

// MissingCell returns the Missing sentinel.
func MissingCell() Cell { return Cell{} }

func (c Cell) Kind() CellKind  { return c.kind }
func (c Cell) IsMissing() bool { return c.kind == CellMissing }
func (c Cell) IsNumber() bool  { return c.kind == CellNumber }

// Float returns the numeric value of a number cell.
func (c Cell) Float() (float64, bool) {
	if c.kind != CellNumber {
		return 0, false
	}
	return c.num, true
}

// String renders the cell as display text. Missing renders as "".
func (c Cell) String() string {
	switch c.kind {
	case CellNumber:
		return formatNumber(c.num)
	case CellString:
		return c.str
	default:
		return ""
	}
}

// MarshalJSON encodes numbers as numbers, strings as strings and Missing as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CellNumber:
		return []byte(strconv.FormatFloat(c.num, 'g', -1, 64)), nil
	case CellString:
		return json.Marshal(c.str)
	default:
		return []byte("null"), nil
	}
}

// FieldSet is the ordered, deduplicated list of field names of a Table.
type FieldSet struct {
	names []string
	index map[string]int
}

// NewFieldSet builds a FieldSet, keeping the first occurrence of duplicates.
func NewFieldSet(names []string) FieldSet {
	fs := FieldSet{index: make(map[string]int, len(names))}
	for _, n := range names {
		if _, dup := fs.index[n]; dup {
			continue
		}
		fs.index[n] = len(fs.names)
		fs.names = append(fs.names, n)
	}
	return fs
}

// Names returns a copy of the field names in order.
func (fs FieldSet) Names() []string {
	out := make([]string, len(fs.names))
	copy(out, fs.names)
	return out
}

func (fs FieldSet) Len() int { return len(fs.names) }

// At returns the i-th field name.
func (fs FieldSet) At(i int) string { return fs.names[i] }

// Has reports whether name is a field.
func (fs FieldSet) Has(name string) bool {
	_, ok := fs.index[name]
	return ok
}

// Index returns the position of name.
func (fs FieldSet) Index(name string) (int, bool) {
	i, ok := fs.index[name]
	return i, ok
}

// Row is a read-only view of one table row.
type Row struct {
	fields *FieldSet
	cells  []Cell
}

// Get returns the cell for a field. Unknown fields return Missing and false.
func (r Row) Get(field string) (Cell, bool) {
	i, ok := r.fields.Index(field)
	if !ok {
		return Cell{}, false
	}
	return r.cells[i], true
}

// Cells returns a copy of the row's cells in field order.
func (r Row) Cells() []Cell {
	out := make([]Cell, len(r.cells))
	copy(out, r.cells)
	return out
}

// Table is an immutable row-oriented dataset.
type Table struct {
	fields FieldSet
	rows   [][]Cell
}

// NewTable builds a Table from field names and rows of cells. Rows shorter
// than the field set are padded with Missing, longer rows are truncated.
func NewTable(fields []string, rows [][]Cell) *Table {
	t := &Table{fields: NewFieldSet(fields)}
	for _, src := range rows {
		cells := make([]Cell, t.fields.Len())
		copy(cells, src)
		t.rows = append(t.rows, cells)
	}
	return t
}

// Fields returns the table's field set.
func (t *Table) Fields() FieldSet { return t.fields }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the i-th row.
func (t *Table) Row(i int) Row {
	return Row{fields: &t.fields, cells: t.rows[i]}
}

// Column returns a copy of every cell of a field, in row order.
func (t *Table) Column(field string) ([]Cell, bool) {
	idx, ok := t.fields.Index(field)
	if !ok {
		return nil, false
	}
	out := make([]Cell, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out, true
}

// MarshalJSON encodes the table as an array of objects whose keys follow the
// field order.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, name := range t.fields.names {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(name)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			val, err := row[j].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// ParseTable converts raw text into a Table. Structured records are tried
// first; on any failure the input is read as delimited text.
func ParseTable(raw string) (*Table, error) {
	raw = strings.TrimPrefix(strings.ToValidUTF8(raw, "\uFFFD"), "\uFEFF")
	if t, err := parseRecords(raw); err == nil {
		return t, nil
	}
	return parseDelimited(raw)
}

// ============================================================================
// Structured records
// ============================================================================

func parseRecords(raw string) (*Table, error) {
	dec := json.NewDecoder(strings.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errors.New("expected an array of records")
	}

	var (
		t   *Table
		rec int
	)
	for dec.More() {
		rec++
		keys, cells, err := decodeRecord(dec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", rec, err)
		}
		if t == nil {
			t = &Table{fields: NewFieldSet(keys)}
		}
		row := make([]Cell, t.fields.Len())
		for i, k := range keys {
			if idx, ok := t.fields.Index(k); ok {
				row[idx] = cells[i]
			}
		}
		t.rows = append(t.rows, row)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after records")
	}
	if t == nil || t.fields.Len() == 0 {
		return nil, errors.New("no records")
	}
	return t, nil
}

// decodeRecord reads one JSON object keeping key order. Repeated keys keep
// the last value.
func decodeRecord(dec *json.Decoder) ([]string, []Cell, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errors.New("not an object")
	}

	var (
		keys  []string
		cells []Cell
		seen  = make(map[string]int)
	)
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, nil, errors.New("object key is not a string")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		cell := cellFromJSON(raw)
		if i, dup := seen[key]; dup {
			cells[i] = cell
			continue
		}
		seen[key] = len(keys)
		keys = append(keys, key)
		cells = append(cells, cell)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, cells, nil
}

func cellFromJSON(raw json.RawMessage) Cell {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return MissingCell()
	}
	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return StringCell(string(v))
		}
		return StringCell(s)
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return StringCell(string(v))
		}
		return StringCell(buf.String())
	}
	switch string(v) {
	case "null":
		return MissingCell()
	case "true", "false":
		return StringCell(string(v))
	}
	if f, err := strconv.ParseFloat(string(v), 64); err == nil {
		return NumberCell(f)
	}
	return StringCell(string(v))
}

// ============================================================================
// Delimited text
// ============================================================================

func parseDelimited(raw string) (*Table, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &FormatError{Reason: "empty input"}
	}

	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, &FormatError{Reason: "read header", Err: err}
	}

	names, columns := headerFields(header)
	t := &Table{fields: NewFieldSet(names)}

	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &FormatError{Reason: fmt.Sprintf("line %d", line), Err: err}
		}

		cells := make([]Cell, t.fields.Len())
		empty := true
		for i, v := range rec {
			if i >= len(columns) {
				break // extra cells are ignored
			}
			if columns[i] < 0 {
				continue
			}
			v = strings.TrimSpace(v)
			if v != "" {
				empty = false
			}
			cells[columns[i]] = CoerceCell(v)
		}
		if empty {
			continue
		}
		t.rows = append(t.rows, cells)
	}

	if len(t.rows) == 0 {
		return nil, &FormatError{Reason: "no data rows after header"}
	}
	return t, nil
}

// headerFields trims header cells, names blank ones column_N and maps each
// header position to its field index (-1 for duplicates). A generated name
// never shadows a real header: it takes a _2, _3... suffix instead.
func headerFields(header []string) ([]string, []int) {
	names := make([]string, 0, len(header))
	columns := make([]int, len(header))
	seen := make(map[string]bool, len(header))

	real := make(map[string]bool, len(header))
	for _, h := range header {
		if h = strings.TrimSpace(h); h != "" {
			real[h] = true
		}
	}

	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			base := "column_" + strconv.Itoa(i+1)
			h = base
			for n := 2; real[h] || seen[h]; n++ {
				h = base + "_" + strconv.Itoa(n)
			}
		}
		if seen[h] {
			columns[i] = -1
			continue
		}
		seen[h] = true
		columns[i] = len(names)
		names = append(names, h)
	}
	return names, columns
}
