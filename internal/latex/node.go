// Package latex is the content model: a tree of typed nodes that renders
// itself to LaTeX through a Sink.
//
// Node is a closed set. Every variant lives in this package and every
// dispatch site (Render, AppendChild, Walk) switches over all of them.
package latex

import "fmt"

// Kind identifies the variant of a Node.
type Kind int

const (
	KindSection Kind = iota
	KindRawText
	KindEquation
	KindBloc
	KindTag
	KindTabular
	KindMath
	KindGraphic
	KindCode
	KindTextFromFile

	kindCount
)

var kindNames = [kindCount]string{
	KindSection:      "section",
	KindRawText:      "raw_text",
	KindEquation:     "equation",
	KindBloc:         "bloc",
	KindTag:          "tag",
	KindTabular:      "tabular",
	KindMath:         "math",
	KindGraphic:      "graphic",
	KindCode:         "code",
	KindTextFromFile: "text_from_file",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds lists every variant in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Node is a piece of document content. It is sealed: only the types in
// this package implement it.
type Node interface {
	Kind() Kind
	node()
}

// AppendChild adds child to the end of a Section or Bloc. Any other
// variant is left untouched and an *InvalidOperationError is returned.
func AppendChild(n Node, child Node) error {
	switch v := n.(type) {
	case *Section:
		if v == nil {
			return &InvalidOperationError{Op: "append-child", Kind: n.Kind()}
		}
		v.Add(child)
		return nil
	case *Bloc:
		if v == nil {
			return &InvalidOperationError{Op: "append-child", Kind: n.Kind()}
		}
		v.Add(child)
		return nil
	case nil:
		return &InvalidOperationError{Op: "append-child", Kind: -1}
	default:
		return &InvalidOperationError{Op: "append-child", Kind: n.Kind()}
	}
}

// Walk visits n and its descendants depth-first in insertion order.
// Returning false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || isNilPointer(n) || !fn(n) {
		return
	}
	switch v := n.(type) {
	case *Section:
		for _, c := range v.Children {
			Walk(c, fn)
		}
	case *Bloc:
		for _, c := range v.Children {
			Walk(c, fn)
		}
	case *Tag:
		Walk(v.Child, fn)
	case *Tabular:
		for _, row := range v.Rows {
			for _, c := range row {
				Walk(c, fn)
			}
		}
	case RawText, *Equation, Math, *Graphic, *Code, TextFromFile:
		// leaves
	}
}

// isNilPointer reports whether n is a pointer variant holding nil.
func isNilPointer(n Node) bool {
	switch v := n.(type) {
	case *Section:
		return v == nil
	case *Equation:
		return v == nil
	case *Bloc:
		return v == nil
	case *Tag:
		return v == nil
	case *Tabular:
		return v == nil
	case *Graphic:
		return v == nil
	case *Code:
		return v == nil
	}
	return false
}
