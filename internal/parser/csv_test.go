package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dgallion1/texgen/internal/latex"
)

func TestCSVParser_BatchesRows(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id,name\n")
	for i := 1; i <= 25; i++ {
		fmt.Fprintf(&sb, "%d,item_%d\n", i, i)
	}

	tree, err := (&CSVParser{}).Parse(strings.NewReader(sb.String()), "inventory.csv")
	if err != nil {
		t.Fatal(err)
	}
	if tree.Title != "Inventory" {
		t.Errorf("expected title %q, got %q", "Inventory", tree.Title)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(tree.Children))
	}

	first := tree.Children[0].(*latex.Section)
	if first.Title != "Rows 2-21" {
		t.Errorf("unexpected first batch title %q", first.Title)
	}
	tab := first.Children[0].(*latex.Tabular)
	if len(tab.Rows) != 21 {
		t.Errorf("expected header plus 20 rows, got %d", len(tab.Rows))
	}
	if tab.Rows[1][1] != latex.Text(`item\_1`) {
		t.Errorf("cells should be escaped, got %#v", tab.Rows[1][1])
	}

	second := tree.Children[1].(*latex.Section)
	if second.Title != "Rows 22-26" {
		t.Errorf("unexpected second batch title %q", second.Title)
	}
	if n := len(second.Children[0].(*latex.Tabular).Rows); n != 6 {
		t.Errorf("expected header plus 5 rows, got %d", n)
	}
}

func TestCSVParser_Output(t *testing.T) {
	input := "Country,Capital\nFrance,Paris\nUK,London,extra\n"
	tree, err := (&CSVParser{}).Parse(strings.NewReader(input), "caps.csv")
	if err != nil {
		t.Fatal(err)
	}

	want := "\\section{Rows 2-3}\n" +
		"\\begin{tabular}{c c c}\n" +
		"\\textbf{Country} & \\textbf{Capital} \\\\\n" +
		"France & Paris \\\\\n" +
		"UK & London & extra \\\\\n" +
		"\\end{tabular}\n"
	if got := mustRender(t, tree.Children[0]); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	tree, err := (&CSVParser{}).Parse(strings.NewReader("a,b,c\n"), "h.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected a single table, got %d nodes", len(tree.Children))
	}
	tab, ok := tree.Children[0].(*latex.Tabular)
	if !ok {
		t.Fatalf("expected *latex.Tabular, got %T", tree.Children[0])
	}
	if len(tab.Rows) != 1 || tab.Columns() != 3 {
		t.Errorf("expected one 3-cell header row, got %d rows, %d columns", len(tab.Rows), tab.Columns())
	}
}

func TestCSVParser_Empty(t *testing.T) {
	tree, err := (&CSVParser{}).Parse(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected no content, got %d nodes", len(tree.Children))
	}
}
