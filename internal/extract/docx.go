package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"docfusion/internal/tables"
)

type docxContent struct {
	Text   string
	Tables []tables.Record
}

// parseDocx walks word/document.xml and collects paragraph text and
// table markup. Only the top-level table nesting is materialized;
// tables inside table cells are flattened into their cell text.
func parseDocx(path string) (docxContent, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return docxContent{}, err
	}
	defer zr.Close()

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return docxContent{}, fmt.Errorf("word/document.xml not found")
	}

	rc, err := doc.Open()
	if err != nil {
		return docxContent{}, err
	}
	defer rc.Close()

	return walkDocumentXML(rc)
}

func walkDocumentXML(r io.Reader) (docxContent, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		para       strings.Builder
		inPara     bool
		inText     bool

		tableDepth int
		grid       [][]string
		row        []string
		cell       strings.Builder
		inCell     bool

		out docxContent
	)

	appendText := func(s string) {
		switch {
		case inCell:
			cell.WriteString(s)
		case inPara:
			para.WriteString(s)
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return docxContent{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					grid = nil
				}
			case "tr":
				if tableDepth == 1 {
					row = nil
				}
			case "tc":
				if tableDepth == 1 {
					inCell = true
					cell.Reset()
				}
			case "p":
				if tableDepth == 0 {
					inPara = true
					para.Reset()
				}
			case "t":
				inText = true
			case "tab":
				appendText("\t")
			case "br":
				appendText("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				if tableDepth == 1 && len(grid) > 0 {
					out.Tables = append(out.Tables, gridRecord(grid))
				}
				tableDepth--
			case "tr":
				if tableDepth == 1 {
					grid = append(grid, row)
				}
			case "tc":
				if tableDepth == 1 {
					row = append(row, strings.TrimSpace(cell.String()))
					inCell = false
				}
			case "p":
				if tableDepth == 0 && inPara {
					if s := strings.TrimSpace(para.String()); s != "" {
						paragraphs = append(paragraphs, s)
					}
					inPara = false
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				appendText(string(t))
			}
		}
	}

	out.Text = strings.Join(paragraphs, "\n")
	return out, nil
}

// gridRecord converts a cell grid into a canonical table, first row as
// headers, squared out to the widest row so merged-cell rows keep
// every cell.
func gridRecord(grid [][]string) tables.Record {
	headers, rows := squareGrid(grid)
	return tables.Record{
		ID:      uuid.NewString(),
		Page:    1,
		Headers: headers,
		Rows:    rows,
	}
}
