package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/texgen/internal/latex"
)

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Title != "Notes" {
		t.Errorf("expected title %q, got %q", "Notes", tree.Title)
	}
	if len(tree.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(tree.Children))
	}

	want := []latex.Node{
		latex.Text("First paragraph line one.\nFirst paragraph line two."),
		latex.Text("Second paragraph."),
		latex.Text("Third paragraph."),
	}
	for i, w := range want {
		if tree.Children[i] != w {
			t.Errorf("child[%d]: expected %#v, got %#v", i, w, tree.Children[i])
		}
	}
}

func TestTextParser_EscapesSpecialCharacters(t *testing.T) {
	tree, err := (&TextParser{}).Parse(strings.NewReader("Costs rose 5% to $10 & more_stuff"), "q3_costs.txt")
	if err != nil {
		t.Fatal(err)
	}
	if tree.Title != "Q3 Costs" {
		t.Errorf("expected title %q, got %q", "Q3 Costs", tree.Title)
	}
	want := latex.Text(`Costs rose 5\% to \$10 \& more\_stuff`)
	if tree.Children[0] != want {
		t.Errorf("expected %q, got %#v", want, tree.Children[0])
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "Empty" {
		t.Errorf("expected title %q, got %q", "Empty", tree.Title)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected 0 children for empty input, got %d", len(tree.Children))
	}
}

func TestTextParser_MultipleBlankLines(t *testing.T) {
	// Multiple consecutive blank lines should not produce empty paragraphs.
	input := "Para one.\n\n\n\nPara two."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(tree.Children))
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	// Lines with only whitespace should be treated as blank.
	input := "Para one.\n   \nPara two."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(tree.Children))
	}
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"quarterly_report-2024.md", "Quarterly Report 2024"},
		{"/tmp/uploads/notes.txt", "Notes"},
		{"a_b.csv", "A B"},
	}
	for _, tt := range tests {
		if got := titleFromFilename(tt.in); got != tt.want {
			t.Errorf("titleFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
