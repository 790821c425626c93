package doctree

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dgallion1/texgen/internal/latex"
	"github.com/dgallion1/texgen/internal/texfile"
)

// DocTree is a whole document: metadata plus its top-level content.
type DocTree struct {
	Title    string       // Document title (from metadata or filename)
	Author   string       // Empty omits \author
	Date     string       // Empty omits \date
	Class    string       // Document class; texfile.DefaultClass when empty
	Options  []string     // Document class options
	Packages []string     // Packages requested explicitly
	Children []latex.Node // Top-level content, in order
}

// Append adds top-level nodes in order.
func (t *DocTree) Append(nodes ...latex.Node) {
	t.Children = append(t.Children, nodes...)
}

// Require records packages the content needs beyond what can be inferred
// from node kinds, e.g. hyperref for \href inside raw text.
func (t *DocTree) Require(pkgs ...string) {
	for _, p := range pkgs {
		if !slices.Contains(t.Packages, p) {
			t.Packages = append(t.Packages, p)
		}
	}
}

// packagesByKind lists what each node kind needs in the preamble.
var packagesByKind = map[latex.Kind][]string{
	latex.KindGraphic:  {"graphicx"},
	latex.KindCode:     {"listings"},
	latex.KindEquation: {"amsmath"},
}

// RequiredPackages returns the explicit packages followed by those
// inferred from the content, without duplicates.
func (t *DocTree) RequiredPackages() []string {
	out := make([]string, 0, len(t.Packages)+3)
	for _, p := range t.Packages {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	for _, c := range t.Children {
		latex.Walk(c, func(n latex.Node) bool {
			for _, p := range packagesByKind[n.Kind()] {
				if !slices.Contains(out, p) {
					out = append(out, p)
				}
			}
			return true
		})
	}
	return out
}

// Header returns the preamble description of the document.
func (t *DocTree) Header() texfile.Header {
	return texfile.Header{
		Class:    t.Class,
		Options:  t.Options,
		Title:    t.Title,
		Author:   t.Author,
		Date:     t.Date,
		Packages: t.RequiredPackages(),
	}
}

// Write emits the header, every top-level node and the footer to f. It
// does not flush f.
func (t *DocTree) Write(f *texfile.File) error {
	if err := f.WriteHeader(t.Header()); err != nil {
		return err
	}
	for i, c := range t.Children {
		if err := latex.Render(c, f); err != nil {
			return fmt.Errorf("render node %d: %w", i, err)
		}
	}
	return f.WriteFooter()
}

// Render writes the complete document to w. The document is rendered in
// memory first, so w receives nothing when rendering fails.
func (t *DocTree) Render(w io.Writer) error {
	var sb strings.Builder
	f := texfile.New(&sb)
	if err := t.Write(f); err != nil {
		return err
	}
	if err := f.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Stats counts the nodes of each kind in the document.
func (t *DocTree) Stats() map[latex.Kind]int {
	counts := make(map[latex.Kind]int)
	for _, c := range t.Children {
		latex.Walk(c, func(n latex.Node) bool {
			counts[n.Kind()]++
			return true
		})
	}
	return counts
}
