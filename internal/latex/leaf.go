package latex

import "strconv"

// RawText is trusted LaTeX source, written verbatim.
type RawText string

// Text returns s as a RawText node.
func Text(s string) RawText { return RawText(s) }

func (RawText) Kind() Kind { return KindRawText }
func (RawText) node()      {}

func (t RawText) render(s Sink) error {
	return s.WriteLine(string(t))
}

// Math is inline math source, wrapped in $...$.
type Math string

func NewMath(src string) Math { return Math(src) }

func (Math) Kind() Kind { return KindMath }
func (Math) node()      {}

func (m Math) render(s Sink) error {
	return s.WriteLine("$" + string(m) + "$")
}

// Graphic is an included image inside a figure environment. Scale is nil
// when no scale was requested, which is not the same as a scale of 1.
type Graphic struct {
	Path    string
	Caption string
	Scale   *float64
}

func NewGraphic(path, caption string) *Graphic {
	return &Graphic{Path: path, Caption: caption}
}

func NewScaledGraphic(path, caption string, scale float64) *Graphic {
	return &Graphic{Path: path, Caption: caption, Scale: &scale}
}

func (*Graphic) Kind() Kind { return KindGraphic }
func (*Graphic) node()      {}

// IncludeDirective is the \includegraphics line for the image.
func (g *Graphic) IncludeDirective() string {
	if g.Scale == nil {
		return `\includegraphics{` + g.Path + "}"
	}
	return `\includegraphics[scale=` + strconv.FormatFloat(*g.Scale, 'g', -1, 64) + "]{" + g.Path + "}"
}

func (g *Graphic) render(s Sink) error {
	lines := []string{`\begin{figure}[h]`, `\centering`, g.IncludeDirective()}
	if g.Caption != "" {
		lines = append(lines, `\caption{`+g.Caption+"}")
	}
	lines = append(lines, `\end{figure}`)
	for _, l := range lines {
		if err := s.WriteLine(l); err != nil {
			return err
		}
	}
	return nil
}

// Code includes a source file through the listings package. The file is
// not opened.
type Code struct {
	Path     string
	Language string
}

func NewCode(path, language string) *Code {
	return &Code{Path: path, Language: language}
}

func (*Code) Kind() Kind { return KindCode }
func (*Code) node()      {}

func (c *Code) render(s Sink) error {
	return s.WriteLine(`\lstinputlisting[language=` + c.Language + "]{" + c.Path + "}")
}

// Equation is a display equation environment.
type Equation struct {
	Body     string
	Label    string
	Numbered bool
}

// NewEquation returns a numbered equation.
func NewEquation(body string) *Equation {
	return &Equation{Body: body, Numbered: true}
}

func (*Equation) Kind() Kind { return KindEquation }
func (*Equation) node()      {}

// WithLabel sets the \label of the equation and returns it.
func (e *Equation) WithLabel(label string) *Equation {
	e.Label = label
	return e
}

func (e *Equation) environment() string {
	if e.Numbered {
		return "equation"
	}
	return "equation*"
}

func (e *Equation) render(s Sink) error {
	env := e.environment()
	lines := []string{`\begin{` + env + "}", e.Body}
	if e.Label != "" {
		lines = append(lines, `\label{`+e.Label+"}")
	}
	lines = append(lines, `\end{`+env+"}")
	for _, l := range lines {
		if err := s.WriteLine(l); err != nil {
			return err
		}
	}
	return nil
}
