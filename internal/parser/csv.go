package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/texgen/internal/doctree"
	"github.com/dgallion1/texgen/internal/latex"
)

// csvBatchSize caps the data rows per table so long files break across
// pages instead of producing one oversized tabular.
const csvBatchSize = 20

// CSVParser handles CSV files.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	tree := &doctree.DocTree{
		Title: titleFromFilename(filename),
	}

	if len(records) == 0 {
		return tree, nil
	}

	// First row is headers.
	headers := records[0]
	dataRows := records[1:]

	if len(dataRows) == 0 {
		tree.Append(csvTable(headers, nil))
		return tree, nil
	}

	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))
		sec := latex.NewSection(fmt.Sprintf("Rows %d-%d", i+2, end+1)) // 1-indexed, skip header
		sec.Add(csvTable(headers, dataRows[i:end]))
		tree.Append(sec)
	}

	return tree, nil
}

func csvTable(headers []string, rows [][]string) *latex.Tabular {
	tab := latex.NewTabular(nil)
	head := make([]latex.Node, len(headers))
	for i, h := range headers {
		head[i] = latex.Text(`\textbf{` + latex.Escape(h) + "}")
	}
	tab.AddRow(head...)
	for _, row := range rows {
		cells := make([]latex.Node, len(row))
		for i, cell := range row {
			cells[i] = latex.Text(latex.Escape(cell))
		}
		tab.AddRow(cells...)
	}
	return tab
}
