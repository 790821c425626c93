package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/texgen/internal/doctree"
	"github.com/dgallion1/texgen/internal/latex"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark, with GFM tables.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	tree := &doctree.DocTree{
		Title: titleFromFilename(filename),
	}
	c := &mdConverter{src: src, tree: tree}
	c.blocks(doc, newOutline(tree))
	return tree, nil
}

type mdConverter struct {
	src  []byte
	tree *doctree.DocTree
}

// blocks converts the block children of parent into out.
func (c *mdConverter) blocks(parent ast.Node, out flow) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			out.heading(node.Level, strings.TrimSpace(c.inline(node)))

		case *ast.Paragraph, *ast.TextBlock:
			if img, ok := soleImage(node); ok {
				out.add(latex.NewGraphic(string(img.Destination), latex.Escape(c.plain(img))))
				continue
			}
			if t := strings.TrimSpace(c.inline(node)); t != "" {
				out.add(latex.Text(t))
			}

		case *ast.List:
			var entries [][]latex.Node
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				var inner nodeList
				c.blocks(item, &inner)
				entries = append(entries, inner)
			}
			out.add(listBloc(node.IsOrdered(), entries))

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			out.add(verbatim(c.lines(node)))

		case *ast.Blockquote:
			var inner nodeList
			c.blocks(node, &inner)
			out.add(latex.NewBloc("quote", inner...))

		case *ast.ThematicBreak:
			out.add(latex.Text(horizontalRule))

		case *east.Table:
			out.add(c.table(node))

		case *ast.HTMLBlock:
			// Raw HTML has no LaTeX counterpart.

		default:
			if t := escapedText(c.lines(n)); t != nil {
				out.add(t)
			}
		}
	}
}

func (c *mdConverter) table(t *east.Table) *latex.Tabular {
	tab := latex.NewTabular(nil)
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []latex.Node
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, latex.Text(strings.TrimSpace(c.inline(cell))))
		}
		if _, header := row.(*east.TableHeader); header {
			for i, cell := range cells {
				cells[i] = latex.Text(`\textbf{` + string(cell.(latex.RawText)) + "}")
			}
		}
		tab.AddRow(cells...)
	}
	return tab
}

// inline renders the inline children of n as LaTeX.
func (c *mdConverter) inline(n ast.Node) string {
	var buf strings.Builder
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch v := ch.(type) {
		case *ast.Text:
			buf.WriteString(latex.Escape(string(v.Segment.Value(c.src))))
			if v.HardLineBreak() {
				buf.WriteString(`\\` + "\n")
			} else if v.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.WriteString(latex.Escape(string(v.Value)))
		case *ast.Emphasis:
			cmd := `\emph{`
			if v.Level >= 2 {
				cmd = `\textbf{`
			}
			buf.WriteString(cmd + c.inline(v) + "}")
		case *ast.CodeSpan:
			buf.WriteString(`\texttt{` + latex.Escape(c.plain(v)) + "}")
		case *ast.Link:
			c.tree.Require("hyperref")
			buf.WriteString(`\href{` + escapeURL(string(v.Destination)) + "}{" + c.inline(v) + "}")
		case *ast.AutoLink:
			c.tree.Require("hyperref")
			buf.WriteString(`\url{` + escapeURL(string(v.URL(c.src))) + "}")
		case *ast.RawHTML:
			// dropped
		default:
			buf.WriteString(c.inline(ch))
		}
	}
	return buf.String()
}

// plain returns the unformatted text under n.
func (c *mdConverter) plain(n ast.Node) string {
	var buf bytes.Buffer
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch v := ch.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(c.src))
		case *ast.String:
			buf.Write(v.Value)
		default:
			buf.WriteString(c.plain(ch))
		}
	}
	return buf.String()
}

// lines returns the raw source lines of a block node.
func (c *mdConverter) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(c.src))
	}
	return buf.String()
}

// soleImage reports whether a paragraph holds nothing but one image.
func soleImage(n ast.Node) (*ast.Image, bool) {
	if n.ChildCount() != 1 {
		return nil, false
	}
	img, ok := n.FirstChild().(*ast.Image)
	return img, ok
}

var urlEscaper = strings.NewReplacer(`%`, `\%`, `#`, `\#`)

func escapeURL(u string) string {
	return urlEscaper.Replace(u)
}
