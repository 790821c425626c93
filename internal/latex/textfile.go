package latex

import "os"

// TextFromFile is raw text whose content lives in a file. Only the path is
// stored; the file is read on every render.
type TextFromFile string

func NewTextFromFile(path string) TextFromFile { return TextFromFile(path) }

func (TextFromFile) Kind() Kind { return KindTextFromFile }
func (TextFromFile) node()      {}

// Path returns the file the node reads from.
func (t TextFromFile) Path() string { return string(t) }

func (t TextFromFile) render(s Sink) error {
	data, err := os.ReadFile(string(t))
	if err != nil {
		return &ReadFailureError{Path: string(t), Err: err}
	}
	return RawText(data).render(s)
}
