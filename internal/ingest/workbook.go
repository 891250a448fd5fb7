package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
)

// Field is a single named cell of a row.
type Field struct {
	Name  string
	Value any
}

// Row is one record of a sheet with its fields in column order.
type Row []Field

// Workbook is a tabular input source made of named sheets.
type Workbook interface {
	SheetNames() []string
	Rows(sheet string) ([]Row, error)
	Close() error
}

// Supported workbook formats.
const (
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// DetectFormat infers the workbook format from the file extension.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("cannot infer workbook format from %q", path)
}

// Open opens the workbook at path. An empty format is inferred from the
// extension.
func Open(path, format string) (Workbook, error) {
	if format == "" {
		f, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	switch format {
	case FormatJSON:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read workbook: %w", err)
		}
		return ParseJSON(data)
	case FormatSQLite:
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("unsupported workbook format %q", format)
}

// JSONWorkbook reads sheets from a JSON document. The document is either an
// object mapping sheet names to arrays of row objects, or a bare array that
// is treated as a single "Activities" sheet.
type JSONWorkbook struct {
	names  []string
	sheets map[string]gjson.Result
}

// ParseJSON parses a JSON workbook.
func ParseJSON(data []byte) (*JSONWorkbook, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse workbook: invalid JSON")
	}

	wb := &JSONWorkbook{sheets: make(map[string]gjson.Result)}
	root := gjson.ParseBytes(data)

	switch {
	case root.IsArray():
		wb.names = []string{"Activities"}
		wb.sheets["Activities"] = root
	case root.IsObject():
		root.ForEach(func(key, value gjson.Result) bool {
			if value.IsArray() {
				wb.names = append(wb.names, key.String())
				wb.sheets[key.String()] = value
			}
			return true
		})
	default:
		return nil, fmt.Errorf("parse workbook: expected an object or array, got %s", root.Type)
	}

	return wb, nil
}

// SheetNames returns the sheet names in document order.
func (w *JSONWorkbook) SheetNames() []string {
	return w.names
}

// Rows returns the object rows of a sheet. Non-object entries are skipped.
func (w *JSONWorkbook) Rows(sheet string) ([]Row, error) {
	arr, ok := w.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	var rows []Row
	arr.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		var row Row
		item.ForEach(func(key, value gjson.Result) bool {
			row = append(row, Field{Name: key.String(), Value: value.Value()})
			return true
		})
		rows = append(rows, row)
		return true
	})
	return rows, nil
}

// Close is a no-op.
func (w *JSONWorkbook) Close() error {
	return nil
}

// normalize folds a header or sheet name to lowercase letters and digits so
// "Pred ID", "pred_id" and "PredID" compare equal.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// FindSheet returns the first sheet matching the preference list.
func FindSheet(wb Workbook, prefs []string) (string, bool) {
	names := wb.SheetNames()
	for _, p := range prefs {
		want := normalize(p)
		for _, name := range names {
			if normalize(name) == want {
				return name, true
			}
		}
	}
	return "", false
}

// Lookup returns the first non-empty value among the aliases, tried in order.
func (r Row) Lookup(aliases ...string) (any, bool) {
	for _, alias := range aliases {
		want := normalize(alias)
		for _, f := range r {
			if normalize(f.Name) == want && !isBlank(f.Value) {
				return f.Value, true
			}
		}
	}
	return nil, false
}

// LookupFunc returns the first non-empty value whose header satisfies match.
// The header is passed normalized.
func (r Row) LookupFunc(match func(header string) bool) (any, bool) {
	for _, f := range r {
		if match(normalize(f.Name)) && !isBlank(f.Value) {
			return f.Value, true
		}
	}
	return nil, false
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []byte:
		return strings.TrimSpace(string(x)) == ""
	}
	return false
}
