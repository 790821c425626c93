package latex

// ItemMarker is the marker Item places before its entry.
const ItemMarker = `\item `

// Tag emits a fixed marker immediately followed by its single child.
type Tag struct {
	Marker string
	Child  Node
}

func NewTag(marker string, child Node) *Tag {
	return &Tag{Marker: marker, Child: child}
}

// Item wraps child as a list entry.
func Item(child Node) *Tag {
	return NewTag(ItemMarker, child)
}

func (*Tag) Kind() Kind { return KindTag }
func (*Tag) node()      {}

func (t *Tag) render(s Sink) error {
	if err := s.WriteFragment(t.Marker); err != nil {
		return err
	}
	if t.Child == nil {
		return s.WriteLine("")
	}
	return renderChildren([]Node{t.Child}, s, "tag "+t.Marker)
}
