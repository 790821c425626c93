package latex

import "fmt"

// Level is the depth of a heading.
type Level int

const (
	LevelSection Level = iota
	LevelSubsection
	LevelSubsubsection
	LevelParagraph
)

// Command returns the LaTeX heading command for the level, without the
// leading backslash.
func (l Level) Command() string {
	switch l {
	case LevelSection:
		return "section"
	case LevelSubsection:
		return "subsection"
	case LevelSubsubsection:
		return "subsubsection"
	case LevelParagraph:
		return "paragraph"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func (l Level) String() string { return l.Command() }

// LevelForDepth maps a 1-based heading depth (as in Markdown or HTML) to a
// Level. Depths past four collapse into LevelParagraph.
func LevelForDepth(depth int) Level {
	switch {
	case depth <= 1:
		return LevelSection
	case depth == 2:
		return LevelSubsection
	case depth == 3:
		return LevelSubsubsection
	default:
		return LevelParagraph
	}
}

// Section is a heading followed by its content. Heading hierarchy is not
// checked: any level may hold any other.
type Section struct {
	Level    Level
	Title    string
	Children []Node
}

func NewSectionLevel(level Level, title string) *Section {
	return &Section{Level: level, Title: title}
}

func NewSection(title string) *Section { return NewSectionLevel(LevelSection, title) }

func NewSubsection(title string) *Section { return NewSectionLevel(LevelSubsection, title) }

func NewSubsubsection(title string) *Section { return NewSectionLevel(LevelSubsubsection, title) }

func NewParagraph(title string) *Section { return NewSectionLevel(LevelParagraph, title) }

func (*Section) Kind() Kind { return KindSection }
func (*Section) node()      {}

// Add appends children in order.
func (s *Section) Add(children ...Node) {
	s.Children = append(s.Children, children...)
}

func (s *Section) render(out Sink) error {
	if err := out.WriteLine(`\` + s.Level.Command() + "{" + s.Title + "}"); err != nil {
		return err
	}
	return renderChildren(s.Children, out, fmt.Sprintf("%s %q", s.Level.Command(), s.Title))
}
