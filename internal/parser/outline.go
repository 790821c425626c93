package parser

import (
	"path/filepath"
	"strings"

	"github.com/dgallion1/texgen/internal/doctree"
	"github.com/dgallion1/texgen/internal/latex"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// flow receives converted content. Headings are reported separately so
// the receiver decides whether they open sections.
type flow interface {
	add(nodes ...latex.Node)
	heading(depth int, title string)
}

// outline nests content under sections by heading depth. Section levels
// follow the nesting, so a document whose top headings are h2 still
// starts at \section.
type outline struct {
	tree  *doctree.DocTree
	stack []outlineEntry
}

type outlineEntry struct {
	section *latex.Section
	depth   int
}

func newOutline(tree *doctree.DocTree) *outline {
	return &outline{tree: tree}
}

func (o *outline) heading(depth int, title string) {
	// Pop stack until we find a parent with lower depth.
	for len(o.stack) > 0 && o.stack[len(o.stack)-1].depth >= depth {
		o.stack = o.stack[:len(o.stack)-1]
	}
	sec := latex.NewSectionLevel(latex.LevelForDepth(len(o.stack)+1), title)
	o.add(sec)
	o.stack = append(o.stack, outlineEntry{section: sec, depth: depth})
}

func (o *outline) add(nodes ...latex.Node) {
	if len(o.stack) == 0 {
		o.tree.Append(nodes...)
		return
	}
	o.stack[len(o.stack)-1].section.Add(nodes...)
}

// nodeList collects content inside a container such as a list item or a
// quote, where headings become run-in \paragraph headings.
type nodeList []latex.Node

func (l *nodeList) add(nodes ...latex.Node) {
	*l = append(*l, nodes...)
}

func (l *nodeList) heading(_ int, title string) {
	*l = append(*l, latex.NewParagraph(title))
}

// listBloc builds an itemize or enumerate environment. Each entry's first
// node is the item; the rest (nested lists, extra paragraphs) follow it
// inside the same environment.
func listBloc(ordered bool, entries [][]latex.Node) *latex.Bloc {
	name := "itemize"
	if ordered {
		name = "enumerate"
	}
	b := latex.NewBloc(name)
	for _, e := range entries {
		if len(e) == 0 {
			b.Add(latex.Item(latex.Text("")))
			continue
		}
		b.Add(latex.Item(e[0]))
		b.Add(e[1:]...)
	}
	return b
}

func verbatim(code string) *latex.Bloc {
	return latex.NewBloc("verbatim", latex.Text(strings.TrimRight(code, "\n")))
}

const horizontalRule = `\noindent\rule{\linewidth}{0.4pt}`

// escapedText returns an escaped RawText for s, or nil when s is blank.
func escapedText(s string) latex.Node {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return latex.Text(latex.Escape(s))
}

// titleFromFilename turns "quarterly_report-2024.md" into
// "Quarterly Report 2024".
func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	words := strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	if len(words) == 0 {
		return latex.Escape(base)
	}
	return latex.Escape(cases.Title(language.English).String(strings.Join(words, " ")))
}

// paragraphs splits text on blank lines.
func paragraphs(text string) []string {
	var out []string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				out = append(out, strings.Join(current, "\n"))
				current = nil
			}
			continue
		}
		current = append(current, strings.TrimRight(line, " \t\r"))
	}
	if len(current) > 0 {
		out = append(out, strings.Join(current, "\n"))
	}
	return out
}
