package latex

import (
	"io"
	"strings"
)

// Sink is an append-only text destination.
type Sink interface {
	// WriteFragment appends text without a line terminator.
	WriteFragment(text string) error
	// WriteLine appends text followed by a line terminator.
	WriteLine(text string) error
}

// WriterSink adapts an io.Writer to a Sink. It does not buffer.
type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) WriteFragment(text string) error {
	_, err := io.WriteString(s.w, text)
	return err
}

func (s *WriterSink) WriteLine(text string) error {
	_, err := io.WriteString(s.w, text+"\n")
	return err
}

// Buffer is an in-memory Sink. Render into a Buffer and copy it out on
// success when the output must not be left half written.
type Buffer struct {
	b strings.Builder
}

func (b *Buffer) WriteFragment(text string) error {
	b.b.WriteString(text)
	return nil
}

func (b *Buffer) WriteLine(text string) error {
	b.b.WriteString(text)
	b.b.WriteByte('\n')
	return nil
}

func (b *Buffer) String() string { return b.b.String() }

func (b *Buffer) Len() int { return b.b.Len() }

func (b *Buffer) Reset() { b.b.Reset() }

// RenderString renders n into a fresh Buffer and returns its contents.
func RenderString(n Node) (string, error) {
	var buf Buffer
	if err := Render(n, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
