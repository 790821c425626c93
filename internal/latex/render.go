package latex

import "fmt"

// Render writes n and its descendants to s. The first error aborts the
// traversal; anything already written stays written.
func Render(n Node, s Sink) error {
	if isNilPointer(n) {
		return fmt.Errorf("render: nil %s node", n.Kind())
	}
	switch v := n.(type) {
	case *Section:
		return v.render(s)
	case RawText:
		return v.render(s)
	case *Equation:
		return v.render(s)
	case *Bloc:
		return v.render(s)
	case *Tag:
		return v.render(s)
	case *Tabular:
		return v.render(s)
	case Math:
		return v.render(s)
	case *Graphic:
		return v.render(s)
	case *Code:
		return v.render(s)
	case TextFromFile:
		return v.render(s)
	case nil:
		return fmt.Errorf("render: nil node")
	default:
		return fmt.Errorf("render: unhandled node kind %s", n.Kind())
	}
}

// renderChildren renders children in order, naming the failing position.
func renderChildren(children []Node, s Sink, owner string) error {
	for i, c := range children {
		if err := Render(c, s); err != nil {
			return fmt.Errorf("%s: child %d: %w", owner, i, err)
		}
	}
	return nil
}
