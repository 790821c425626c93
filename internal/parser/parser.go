package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/texgen/internal/doctree"
)

// Parser converts raw document bytes into a DocTree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
	".json":     true,
}

// Options tunes the parsers ForFile returns.
type Options struct {
	// PDFFallbackPdftotext retries failed PDF extraction with pdftotext.
	PDFFallbackPdftotext bool
	// AllowFiles lets JSON trees reference local files.
	AllowFiles bool
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	return ForFileWithOptions(filename, Options{})
}

// ForFileWithOptions is ForFile with explicit parser options.
func ForFileWithOptions(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".json":
		return &TreeParser{AllowFiles: opts.AllowFiles}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Extensions returns the supported extensions in sorted order.
func Extensions() []string {
	out := make([]string, 0, len(SupportedExtensions))
	for ext := range SupportedExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// TreeParser reads the JSON tree description understood by
// doctree.DecodeJSON.
type TreeParser struct {
	AllowFiles bool
}

func (p *TreeParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	tree, err := doctree.DecodeJSON(r, doctree.DecodeOptions{AllowFiles: p.AllowFiles})
	if err != nil {
		return nil, err
	}
	if tree.Title == "" {
		tree.Title = titleFromFilename(filename)
	}
	return tree, nil
}
