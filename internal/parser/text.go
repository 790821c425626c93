package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/texgen/internal/doctree"
)

// TextParser handles plain text files.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	tree := &doctree.DocTree{
		Title: titleFromFilename(filename),
	}

	// Each paragraph becomes an escaped text node.
	for _, para := range paragraphs(strings.Join(lines, "\n")) {
		if n := escapedText(para); n != nil {
			tree.Append(n)
		}
	}

	return tree, nil
}
