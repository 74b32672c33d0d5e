package tables

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DefaultRowCap bounds normalized row counts against pathological inputs.
const DefaultRowCap = 100

// Record is the canonical table representation. Whenever Headers is
// non-empty, every row has exactly len(Headers) cells; when the source
// shape could not be reconciled, Headers and Rows are empty and the
// original content survives in RawText.
type Record struct {
	ID      string     `json:"id"`
	Page    int        `json:"page"`
	Title   string     `json:"title,omitempty"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	RawText string     `json:"raw_text,omitempty"`
}

// Normalize canonicalizes a raw table candidate. It accepts four shapes:
// a {headers, rows} map, a list of row-dictionaries, a delimited text
// block, or an opaque string. It never fails; anything unrecognized
// degrades to a raw-text-only record.
func Normalize(raw any, page, rowCap int) (rec Record) {
	if rowCap <= 0 {
		rowCap = DefaultRowCap
	}
	rec = Record{ID: uuid.NewString(), Page: page, Headers: []string{}, Rows: [][]string{}}

	defer func() {
		if r := recover(); r != nil {
			rec.Headers = []string{}
			rec.Rows = [][]string{}
			rec.RawText = stringify(raw)
		}
	}()

	switch v := raw.(type) {
	case map[string]any:
		if title, ok := v["title"].(string); ok {
			rec.Title = title
		}
		headers, rows, ok := headerRowShape(v)
		if !ok {
			rec.RawText = stringify(raw)
			return rec
		}
		rec.Headers = headers
		rec.Rows = capRows(rows, rowCap)
	case []any:
		headers, rows, ok := rowDictShape(v)
		if !ok {
			rec.RawText = stringify(raw)
			return rec
		}
		rec.Headers = headers
		rec.Rows = capRows(rows, rowCap)
	case string:
		normalizeText(&rec, v, rowCap)
	case Record:
		return normalizeRecord(v, rowCap)
	default:
		rec.RawText = stringify(raw)
	}
	return rec
}

// normalizeRecord re-normalizes an already-canonical record. The result
// is identical to the input apart from row capping and rectangularity
// repair, which makes normalization idempotent.
func normalizeRecord(in Record, rowCap int) Record {
	out := in
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if out.Headers == nil {
		out.Headers = []string{}
	}
	if len(out.Headers) == 0 {
		out.Rows = [][]string{}
		return out
	}
	rows := make([][]string, 0, len(in.Rows))
	for _, row := range in.Rows {
		rows = append(rows, fitRow(row, len(out.Headers)))
	}
	out.Rows = capRows(rows, rowCap)
	return out
}

// headerRowShape handles {"headers": [...], "rows": [[...], ...]}.
func headerRowShape(v map[string]any) (headers []string, rows [][]string, ok bool) {
	rawHeaders, hok := v["headers"].([]any)
	rawRows, rok := v["rows"].([]any)
	if !hok || !rok {
		return nil, nil, false
	}
	headers = make([]string, 0, len(rawHeaders))
	for _, h := range rawHeaders {
		headers = append(headers, cellString(h))
	}
	rows = make([][]string, 0, len(rawRows))
	for _, rr := range rawRows {
		cells, cok := rr.([]any)
		if !cok {
			return nil, nil, false
		}
		row := make([]string, 0, len(cells))
		for _, c := range cells {
			row = append(row, cellString(c))
		}
		rows = append(rows, fitRow(row, len(headers)))
	}
	return headers, rows, true
}

// rowDictShape handles a list of row-dictionaries: headers become the
// sorted union of all keys, and every row is projected through that
// header list with missing keys as empty strings.
func rowDictShape(v []any) (headers []string, rows [][]string, ok bool) {
	if len(v) == 0 {
		return nil, nil, false
	}
	dicts := make([]map[string]any, 0, len(v))
	keys := map[string]struct{}{}
	for _, item := range v {
		d, dok := item.(map[string]any)
		if !dok {
			return nil, nil, false
		}
		dicts = append(dicts, d)
		for k := range d {
			keys[k] = struct{}{}
		}
	}
	headers = make([]string, 0, len(keys))
	for k := range keys {
		headers = append(headers, k)
	}
	sort.Strings(headers)
	rows = make([][]string, 0, len(dicts))
	for _, d := range dicts {
		row := make([]string, len(headers))
		for i, h := range headers {
			if val, found := d[h]; found {
				row[i] = cellString(val)
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, true
}

// normalizeText handles a delimited text block. The first line is taken
// as the header row only when it actually contains the delimiter;
// otherwise the whole block is kept as raw text.
func normalizeText(rec *Record, text string, rowCap int) {
	delim := ""
	lines := splitLines(text)
	if len(lines) > 0 {
		switch {
		case strings.Contains(lines[0], "|"):
			delim = "|"
		case strings.Contains(lines[0], "\t"):
			delim = "\t"
		}
	}
	if delim == "" {
		rec.RawText = text
		return
	}

	rec.RawText = text
	rec.Headers = splitCells(lines[0], delim)
	rows := make([][]string, 0, len(lines)-1)
	for _, ln := range lines[1:] {
		if isSeparatorLine(ln) {
			continue
		}
		rows = append(rows, fitRow(splitCells(ln, delim), len(rec.Headers)))
	}
	rec.Rows = capRows(rows, rowCap)
}

func splitLines(text string) []string {
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		if strings.TrimSpace(ln) != "" {
			out = append(out, ln)
		}
	}
	return out
}

func splitCells(line, delim string) []string {
	line = strings.Trim(strings.TrimSpace(line), delim)
	parts := strings.Split(line, delim)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// isSeparatorLine reports markdown-style divider rows such as |---|---|.
func isSeparatorLine(line string) bool {
	seen := false
	for _, r := range line {
		switch r {
		case '-', ':':
			seen = true
		case '|', '+', ' ', '\t':
		default:
			return false
		}
	}
	return seen
}

func fitRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func capRows(rows [][]string, rowCap int) [][]string {
	if len(rows) > rowCap {
		return rows[:rowCap]
	}
	return rows
}

func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprintf("%v", c)
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
