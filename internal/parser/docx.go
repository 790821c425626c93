package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/texgen/internal/doctree"
	"github.com/dgallion1/texgen/internal/latex"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	// go-docx needs a ReaderAt+size, so write to temp file.
	tmp, err := os.CreateTemp("", "texgen-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	return convertDOCX(doc, filename), nil
}

// convertDOCX maps body items onto the tree. Heading styles open
// sections, other paragraphs become text and tables become tabulars.
func convertDOCX(doc *docx.Docx, filename string) *doctree.DocTree {
	tree := &doctree.DocTree{
		Title: titleFromFilename(filename),
	}
	out := newOutline(tree)

	for _, item := range doc.Document.Body.Items {
		switch v := item.(type) {
		case *docx.Paragraph:
			text := docxParagraphText(v)
			if text == "" {
				continue
			}
			if level := docxHeadingLevel(v); level > 0 {
				out.heading(level, latex.Escape(text))
				continue
			}
			if docxIsTitle(v) {
				tree.Title = latex.Escape(text)
				continue
			}
			out.add(latex.Text(latex.Escape(text)))

		case *docx.Table:
			out.add(docxTable(v))
		}
	}

	return tree
}

func docxTable(t *docx.Table) *latex.Tabular {
	tab := latex.NewTabular(nil)
	for _, row := range t.TableRows {
		cells := make([]latex.Node, 0, len(row.TableCells))
		for _, cell := range row.TableCells {
			var parts []string
			for _, para := range cell.Paragraphs {
				if t := docxParagraphText(para); t != "" {
					parts = append(parts, t)
				}
			}
			cells = append(cells, latex.Text(latex.Escape(strings.Join(parts, " "))))
		}
		tab.AddRow(cells...)
	}
	return tab
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

func docxHeadingLevel(para *docx.Paragraph) int {
	style := strings.ToLower(strings.ReplaceAll(docxStyle(para), " ", ""))
	rest, ok := strings.CutPrefix(style, "heading")
	if !ok || len(rest) != 1 || rest[0] < '1' || rest[0] > '6' {
		return 0
	}
	return int(rest[0] - '0')
}

func docxIsTitle(para *docx.Paragraph) bool {
	return strings.EqualFold(docxStyle(para), "Title")
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
