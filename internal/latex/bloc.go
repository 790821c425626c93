package latex

// Bloc is a named environment: \begin{name}, children, \end{name}.
type Bloc struct {
	Name     string
	Children []Node
}

func NewBloc(name string, children ...Node) *Bloc {
	return &Bloc{Name: name, Children: children}
}

func (*Bloc) Kind() Kind { return KindBloc }
func (*Bloc) node()      {}

// Add appends children in order.
func (b *Bloc) Add(children ...Node) {
	b.Children = append(b.Children, children...)
}

func (b *Bloc) render(s Sink) error {
	if err := s.WriteLine(`\begin{` + b.Name + "}"); err != nil {
		return err
	}
	if err := renderChildren(b.Children, s, "bloc "+b.Name); err != nil {
		return err
	}
	return s.WriteLine(`\end{` + b.Name + "}")
}

// NewItemize returns an itemize environment holding one Item per entry.
func NewItemize(entries ...Node) *Bloc {
	return newList("itemize", entries)
}

// NewEnumerate returns an enumerate environment holding one Item per entry.
func NewEnumerate(entries ...Node) *Bloc {
	return newList("enumerate", entries)
}

func newList(name string, entries []Node) *Bloc {
	b := &Bloc{Name: name, Children: make([]Node, 0, len(entries))}
	for _, e := range entries {
		b.Children = append(b.Children, Item(e))
	}
	return b
}
