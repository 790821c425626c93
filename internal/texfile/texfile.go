// Package texfile writes the frame of a LaTeX document (preamble, header
// and footer) and exposes the body as a latex.Sink.
package texfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultClass is the document class used when a Header names none.
const DefaultClass = "article"

// Header describes the preamble of a document.
type Header struct {
	Class    string   // Document class; DefaultClass when empty
	Options  []string // Class options, e.g. "11pt", "a4paper"
	Title    string
	Author   string
	Date     string // Omitted when empty, LaTeX then prints today's date
	Packages []string
}

// File is a buffered LaTeX output. It implements latex.Sink.
type File struct {
	w      *bufio.Writer
	closer io.Closer
}

// New wraps w. Closing the File flushes but does not close w.
func New(w io.Writer) *File {
	return &File{w: bufio.NewWriter(w)}
}

// Create opens path for writing, truncating any existing file.
func Create(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &File{w: bufio.NewWriter(f), closer: f}, nil
}

func (f *File) WriteFragment(text string) error {
	_, err := f.w.WriteString(text)
	return err
}

func (f *File) WriteLine(text string) error {
	if _, err := f.w.WriteString(text); err != nil {
		return err
	}
	return f.w.WriteByte('\n')
}

// WriteHeader writes the preamble and opens the document body.
func (f *File) WriteHeader(h Header) error {
	class := h.Class
	if class == "" {
		class = DefaultClass
	}
	var lines []string
	if len(h.Options) > 0 {
		lines = append(lines, fmt.Sprintf(`\documentclass[%s]{%s}`, strings.Join(h.Options, ","), class))
	} else {
		lines = append(lines, fmt.Sprintf(`\documentclass{%s}`, class))
	}
	for _, p := range dedupe(h.Packages) {
		lines = append(lines, `\usepackage{`+p+"}")
	}
	if h.Title != "" {
		lines = append(lines, `\title{`+h.Title+"}")
	}
	if h.Author != "" {
		lines = append(lines, `\author{`+h.Author+"}")
	}
	if h.Date != "" {
		lines = append(lines, `\date{`+h.Date+"}")
	}
	lines = append(lines, `\begin{document}`)
	if h.Title != "" {
		lines = append(lines, `\maketitle`)
	}
	for _, l := range lines {
		if err := f.WriteLine(l); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	return nil
}

// WriteFooter closes the document body.
func (f *File) WriteFooter() error {
	if err := f.WriteLine(`\end{document}`); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}
	return nil
}

// Flush writes any buffered output.
func (f *File) Flush() error {
	return f.w.Flush()
}

// Close flushes and, for files opened with Create, closes the file.
func (f *File) Close() error {
	err := f.w.Flush()
	if f.closer != nil {
		if cerr := f.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// dedupe drops empty and repeated package names, keeping first occurrences.
func dedupe(pkgs []string) []string {
	seen := make(map[string]bool, len(pkgs))
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
