package parser

import (
	"testing"

	"github.com/dgallion1/texgen/internal/latex"
	"github.com/fumiama/go-docx"
)

func TestConvertDOCX(t *testing.T) {
	doc := docx.New()
	doc.AddParagraph().Style("Title").AddText("Annual Review")
	doc.AddParagraph().Style("Heading1").AddText("Summary")
	doc.AddParagraph().AddText("Revenue grew 12%.")
	doc.AddParagraph().Style("heading 2").AddText("Details")
	doc.AddParagraph().AddText("   ")

	tbl := doc.AddTable(2, 2, 0, nil)
	tbl.TableRows[0].TableCells[0].AddParagraph().AddText("Q1")
	tbl.TableRows[0].TableCells[1].AddParagraph().AddText("Q2")
	tbl.TableRows[1].TableCells[0].AddParagraph().AddText("10")
	tbl.TableRows[1].TableCells[1].AddParagraph().AddText("12")

	tree := convertDOCX(doc, "review.docx")

	if tree.Title != "Annual Review" {
		t.Errorf("expected Title-styled paragraph as title, got %q", tree.Title)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 top-level section, got %d", len(tree.Children))
	}

	summary := tree.Children[0].(*latex.Section)
	if summary.Title != "Summary" {
		t.Errorf("unexpected section title %q", summary.Title)
	}
	if len(summary.Children) != 2 {
		t.Fatalf("expected text and subsection, got %d", len(summary.Children))
	}
	if summary.Children[0] != latex.Text(`Revenue grew 12\%.`) {
		t.Errorf("unexpected paragraph %#v", summary.Children[0])
	}

	details := summary.Children[1].(*latex.Section)
	if details.Level != latex.LevelSubsection {
		t.Errorf("expected subsection, got %s", details.Level.Command())
	}
	if len(details.Children) != 1 {
		t.Fatalf("blank paragraphs should be skipped, got %d children", len(details.Children))
	}
	want := "\\begin{tabular}{c c}\nQ1 & Q2 \\\\\n10 & 12 \\\\\n\\end{tabular}\n"
	if got := mustRender(t, details.Children[0]); got != want {
		t.Errorf("table:\ngot  %q\nwant %q", got, want)
	}
}

func TestDOCXHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"heading 3", 3},
		{"HEADING6", 6},
		{"Heading7", 0},
		{"Heading", 0},
		{"Normal", 0},
		{"", 0},
	}
	for _, tt := range tests {
		p := docx.New().AddParagraph()
		if tt.style != "" {
			p.Style(tt.style)
		}
		if got := docxHeadingLevel(p); got != tt.want {
			t.Errorf("docxHeadingLevel(%q) = %d, want %d", tt.style, got, tt.want)
		}
	}
}
