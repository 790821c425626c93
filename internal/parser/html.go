package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/texgen/internal/doctree"
	"github.com/dgallion1/texgen/internal/latex"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tree := &doctree.DocTree{
		Title: titleFromFilename(filename),
	}

	// Extract title from <title> tag if present.
	if title := findTitle(doc); title != "" {
		tree.Title = latex.Escape(title)
	}

	c := &htmlConverter{tree: tree}
	// Find <body> or use whole document.
	root := findBody(doc)
	if root == nil {
		root = doc
	}
	c.blocks(root, newOutline(tree))
	return tree, nil
}

type htmlConverter struct {
	tree *doctree.DocTree
}

// blocks converts the children of n. Consecutive inline content is
// gathered into one paragraph.
func (c *htmlConverter) blocks(n *html.Node, out flow) {
	var run strings.Builder
	flush := func() {
		if t := strings.TrimSpace(collapseSpace(run.String())); t != "" {
			out.add(latex.Text(t))
		}
		run.Reset()
	}

	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.TextNode {
			run.WriteString(latex.Escape(ch.Data))
			continue
		}
		if ch.Type != html.ElementNode {
			continue
		}
		if !isBlockElement(ch.Data) {
			run.WriteString(c.inline(ch))
			continue
		}
		flush()
		c.block(ch, out)
	}
	flush()
}

func (c *htmlConverter) block(n *html.Node, out flow) {
	if level := headingLevel(n.Data); level > 0 {
		if title := strings.TrimSpace(collapseSpace(c.inlineChildren(n))); title != "" {
			out.heading(level, title)
		}
		return
	}

	switch n.Data {
	case "script", "style", "nav", "footer", "header", "head", "noscript", "template":
		// Skip non-content elements.

	case "p":
		if img := soleChild(n, "img"); img != nil {
			out.add(htmlGraphic(img, attr(img, "alt")))
			return
		}
		c.blocks(n, out)

	case "img":
		out.add(htmlGraphic(n, attr(n, "alt")))

	case "figure":
		img := findElement(n, "img")
		if img == nil {
			c.blocks(n, out)
			return
		}
		caption := attr(img, "alt")
		if fc := findElement(n, "figcaption"); fc != nil {
			caption = textContent(fc)
		}
		out.add(htmlGraphic(img, caption))

	case "ul", "ol":
		var entries [][]latex.Node
		for li := n.FirstChild; li != nil; li = li.NextSibling {
			if li.Type != html.ElementNode || li.Data != "li" {
				continue
			}
			var inner nodeList
			c.blocks(li, &inner)
			entries = append(entries, inner)
		}
		out.add(listBloc(n.Data == "ol", entries))

	case "blockquote":
		var inner nodeList
		c.blocks(n, &inner)
		out.add(latex.NewBloc("quote", inner...))

	case "pre":
		out.add(verbatim(rawText(n)))

	case "hr":
		out.add(latex.Text(horizontalRule))

	case "table":
		if tab := c.table(n); len(tab.Rows) > 0 {
			out.add(tab)
		}

	default:
		// div, section, article, main and friends are transparent.
		c.blocks(n, out)
	}
}

func (c *htmlConverter) table(n *html.Node) *latex.Tabular {
	tab := latex.NewTabular(nil)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type != html.ElementNode {
				continue
			}
			switch ch.Data {
			case "tr":
				var cells []latex.Node
				for cell := ch.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type != html.ElementNode || (cell.Data != "td" && cell.Data != "th") {
						continue
					}
					text := strings.TrimSpace(collapseSpace(c.inlineChildren(cell)))
					if cell.Data == "th" {
						text = `\textbf{` + text + "}"
					}
					cells = append(cells, latex.Text(text))
				}
				tab.AddRow(cells...)
			case "table":
				// Nested tables are not flattened into the outer grid.
			default:
				walk(ch)
			}
		}
	}
	walk(n)
	return tab
}

// inline renders an inline element as LaTeX.
func (c *htmlConverter) inline(n *html.Node) string {
	inner := c.inlineChildren(n)
	switch n.Data {
	case "em", "i":
		return `\emph{` + inner + "}"
	case "strong", "b":
		return `\textbf{` + inner + "}"
	case "code", "kbd", "samp", "tt":
		return `\texttt{` + inner + "}"
	case "br":
		return `\\` + "\n"
	case "a":
		href := attr(n, "href")
		if href == "" || strings.HasPrefix(href, "#") {
			return inner
		}
		c.tree.Require("hyperref")
		return `\href{` + escapeURL(href) + "}{" + inner + "}"
	case "script", "style":
		return ""
	}
	return inner
}

func (c *htmlConverter) inlineChildren(n *html.Node) string {
	var buf strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		switch ch.Type {
		case html.TextNode:
			buf.WriteString(latex.Escape(ch.Data))
		case html.ElementNode:
			buf.WriteString(c.inline(ch))
		}
	}
	return buf.String()
}

func htmlGraphic(img *html.Node, caption string) *latex.Graphic {
	return latex.NewGraphic(attr(img, "src"), latex.Escape(strings.TrimSpace(caption)))
}

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "details": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "head": true, "header": true, "hr": true, "img": true,
	"li": true, "main": true, "nav": true, "noscript": true, "ol": true,
	"p": true, "pre": true, "script": true, "section": true, "style": true,
	"summary": true, "table": true, "template": true, "ul": true,
}

func isBlockElement(tag string) bool {
	return blockElements[tag]
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// soleChild returns the only element child of n when it has the given
// tag and there is no text beside it.
func soleChild(n *html.Node, tag string) *html.Node {
	var found *html.Node
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		switch ch.Type {
		case html.TextNode:
			if strings.TrimSpace(ch.Data) != "" {
				return nil
			}
		case html.ElementNode:
			if found != nil || ch.Data != tag {
				return nil
			}
			found = ch
		}
	}
	return found
}

func findElement(n *html.Node, tag string) *html.Node {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode && ch.Data == tag {
			return ch
		}
		if found := findElement(ch, tag); found != nil {
			return found
		}
	}
	return nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}), " ")
}

// rawText returns the text under n with whitespace preserved.
func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func textContent(n *html.Node) string {
	return strings.TrimSpace(collapseSpace(rawText(n)))
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
