package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"docfusion/constants"
	"docfusion/internal/document"
	"docfusion/internal/tables"
)

// TabularAdapter reads structured cell grids (spreadsheets) and
// word-processor tables directly, with exact row/column fidelity; its
// output already satisfies the canonical table invariants.
type TabularAdapter struct {
	logger *slog.Logger
}

func NewTabularAdapter(logger *slog.Logger) *TabularAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TabularAdapter{logger: logger}
}

func (a *TabularAdapter) Name() document.Backend { return document.BackendTabular }

func (a *TabularAdapter) Available() bool { return true }

func (a *TabularAdapter) Attempt(ctx context.Context, doc document.Document, opts Options) Attempt {
	start := time.Now()

	var att Attempt
	switch doc.Format {
	case constants.WORD:
		att = a.attemptWord(doc)
	default:
		att = a.attemptSpreadsheet(ctx, doc)
	}
	att.Elapsed = time.Since(start)
	return att
}

func (a *TabularAdapter) attemptSpreadsheet(ctx context.Context, doc document.Document) Attempt {
	f, err := excelize.OpenFile(doc.Path)
	if err != nil {
		return failedf(document.BackendTabular, "open workbook: %w", err)
	}
	defer f.Close()

	att := Attempt{Backend: document.BackendTabular, Status: StatusOK}
	var text strings.Builder

	for i, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return failed(document.BackendTabular, err)
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			att.Warnings = append(att.Warnings, "sheet "+sheet+": "+err.Error())
			continue
		}
		if len(rows) == 0 {
			continue
		}
		rec := sheetRecord(sheet, i+1, rows)
		att.Tables = append(att.Tables, rec)

		if text.Len() > 0 {
			text.WriteString("\n\f\n")
		}
		text.WriteString(renderSheet(sheet, rows))
		att.Pages = append(att.Pages, Page{
			Number: i + 1,
			Text:   renderSheet(sheet, rows),
			Tables: []tables.Record{rec},
		})
	}
	att.Text = text.String()
	att.Metadata.PageCount = len(att.Pages)
	return att
}

func (a *TabularAdapter) attemptWord(doc document.Document) Attempt {
	content, err := parseDocx(doc.Path)
	if err != nil {
		return failedf(document.BackendTabular, "parse docx: %w", err)
	}

	att := Attempt{Backend: document.BackendTabular, Status: StatusOK}
	att.Text = content.Text
	att.Tables = content.Tables
	if att.Text != "" || len(att.Tables) > 0 {
		att.Pages = []Page{{Number: 1, Text: att.Text, Tables: att.Tables}}
		att.Metadata.PageCount = 1
	}
	return att
}

// sheetRecord converts one sheet grid into a canonical table with the
// first row as headers. excelize returns ragged rows; squareGrid makes
// them rectangular without losing any cell.
func sheetRecord(sheet string, page int, rows [][]string) tables.Record {
	headers, data := squareGrid(rows)
	return tables.Record{
		ID:      uuid.NewString(),
		Page:    page,
		Title:   sheet,
		Headers: headers,
		Rows:    data,
	}
}

// squareGrid pads a ragged grid out to its widest row. When a data row
// is wider than the header row, the headers gain empty names rather
// than the row losing cells.
func squareGrid(grid [][]string) (headers []string, rows [][]string) {
	width := 0
	for _, r := range grid {
		if len(r) > width {
			width = len(r)
		}
	}
	headers = make([]string, width)
	copy(headers, grid[0])
	rows = make([][]string, 0, len(grid)-1)
	for _, r := range grid[1:] {
		fitted := make([]string, width)
		copy(fitted, r)
		rows = append(rows, fitted)
	}
	return headers, rows
}

func renderSheet(sheet string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("[" + sheet + "]\n")
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
