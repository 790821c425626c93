package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/texgen/internal/latex"
)

func TestHTMLParser_TitleAndSections(t *testing.T) {
	input := `<html><head><title>Trip &amp; Notes</title><style>p{}</style></head>
<body>
<nav>menu</nav>
<h2>Intro</h2>
<p>Hello <b>world</b> &amp; <em>more</em></p>
<script>alert(1)</script>
<h3>Countries</h3>
<ul><li>France</li><li>UK</li></ul>
<h2>Outro</h2>
<p>Bye</p>
</body></html>`

	tree, err := (&HTMLParser{}).Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatal(err)
	}
	if tree.Title != `Trip \& Notes` {
		t.Errorf("expected title from <title>, got %q", tree.Title)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 top-level sections, got %d", len(tree.Children))
	}

	intro := tree.Children[0].(*latex.Section)
	if intro.Title != "Intro" || intro.Level != latex.LevelSection {
		t.Errorf("unexpected intro: %s{%s}", intro.Level.Command(), intro.Title)
	}
	if len(intro.Children) != 2 {
		t.Fatalf("expected paragraph and subsection, got %d children", len(intro.Children))
	}
	if intro.Children[0] != latex.Text(`Hello \textbf{world} \& \emph{more}`) {
		t.Errorf("unexpected paragraph %#v", intro.Children[0])
	}

	countries := intro.Children[1].(*latex.Section)
	if countries.Level != latex.LevelSubsection {
		t.Errorf("h3 under h2 should be a subsection, got %s", countries.Level.Command())
	}
	want := "\\begin{itemize}\n\\item France\n\\item UK\n\\end{itemize}\n"
	if got := mustRender(t, countries.Children[0]); got != want {
		t.Errorf("list:\ngot  %q\nwant %q", got, want)
	}

	out := mustRender(t, tree.Children[1])
	if strings.Contains(out, "alert") || strings.Contains(out, "menu") {
		t.Errorf("script or nav leaked into output: %q", out)
	}
}

func TestHTMLParser_FiguresTablesAndCode(t *testing.T) {
	input := `<body>
<figure><img src="plot.png" alt="alt text"><figcaption>Growth 10%</figcaption></figure>
<p><img src="logo.png" alt="Logo"></p>
<table><thead><tr><th>Name</th><th>Qty</th></tr></thead>
<tbody><tr><td>a</td><td>1</td></tr></tbody></table>
<pre>x := 1
y := 2</pre>
<p>See <a href="https://go.dev/doc#faq">the FAQ</a>.</p>
</body>`

	tree, err := (&HTMLParser{}).Parse(strings.NewReader(input), "report.htm")
	if err != nil {
		t.Fatal(err)
	}
	if tree.Title != "Report" {
		t.Errorf("expected filename title, got %q", tree.Title)
	}
	if len(tree.Children) != 5 {
		t.Fatalf("expected 5 blocks, got %d", len(tree.Children))
	}

	fig := tree.Children[0].(*latex.Graphic)
	if fig.Path != "plot.png" || fig.Caption != `Growth 10\%` {
		t.Errorf("unexpected figure %+v", fig)
	}
	logo := tree.Children[1].(*latex.Graphic)
	if logo.Path != "logo.png" || logo.Caption != "Logo" {
		t.Errorf("unexpected image %+v", logo)
	}

	want := "\\begin{tabular}{c c}\n\\textbf{Name} & \\textbf{Qty} \\\\\na & 1 \\\\\n\\end{tabular}\n"
	if got := mustRender(t, tree.Children[2]); got != want {
		t.Errorf("table:\ngot  %q\nwant %q", got, want)
	}

	want = "\\begin{verbatim}\nx := 1\ny := 2\n\\end{verbatim}\n"
	if got := mustRender(t, tree.Children[3]); got != want {
		t.Errorf("pre:\ngot  %q\nwant %q", got, want)
	}

	if tree.Children[4] != latex.Text(`See \href{https://go.dev/doc\#faq}{the FAQ}.`) {
		t.Errorf("unexpected link paragraph %#v", tree.Children[4])
	}
	if len(tree.Packages) != 1 || tree.Packages[0] != "hyperref" {
		t.Errorf("expected hyperref to be required, got %v", tree.Packages)
	}
}

func TestHTMLParser_NoHeadings(t *testing.T) {
	input := `<div>loose text<p>Para</p>tail</div>`
	tree, err := (&HTMLParser{}).Parse(strings.NewReader(input), "frag.html")
	if err != nil {
		t.Fatal(err)
	}
	want := []latex.Node{latex.Text("loose text"), latex.Text("Para"), latex.Text("tail")}
	if len(tree.Children) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(tree.Children))
	}
	for i, w := range want {
		if tree.Children[i] != w {
			t.Errorf("node %d: expected %#v, got %#v", i, w, tree.Children[i])
		}
	}
}
