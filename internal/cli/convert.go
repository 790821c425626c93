package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dgallion1/texgen/internal/doctree"
	"github.com/dgallion1/texgen/internal/latex"
	"github.com/dgallion1/texgen/internal/parser"
	"github.com/dgallion1/texgen/internal/texfile"
)

// docOpts are the document-level overrides shared by convert and build.
type docOpts struct {
	output   string   // output path; stdout when empty or "-"
	title    string   // plain text, escaped before use
	author   string   // plain text, escaped before use
	class    string   // document class
	options  []string // class options
	packages []string // extra \usepackage entries
}

func (o *docOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output .tex file (default stdout)")
	cmd.Flags().StringVar(&o.title, "title", "", "document title")
	cmd.Flags().StringVar(&o.author, "author", "", "document author")
	cmd.Flags().StringVar(&o.class, "class", "", "document class (default article)")
	cmd.Flags().StringSliceVar(&o.options, "option", nil, "document class option (repeatable)")
	cmd.Flags().StringSliceVarP(&o.packages, "package", "p", nil, "extra package to load (repeatable)")
}

func (o *docOpts) apply(tree *doctree.DocTree) {
	if o.title != "" {
		tree.Title = latex.Escape(o.title)
	}
	if o.author != "" {
		tree.Author = latex.Escape(o.author)
	}
	if o.class != "" {
		tree.Class = o.class
	}
	if len(o.options) > 0 {
		tree.Options = o.options
	}
	tree.Require(o.packages...)
}

func newConvertCmd() *cobra.Command {
	var (
		opts      docOpts
		pdftotext bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a document to LaTeX",
		Long: `Convert parses a text, Markdown, CSV, HTML, PDF, DOCX or JSON tree file
and writes the equivalent LaTeX document. The parser is chosen by extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), cmd.OutOrStdout(), args[0], pdftotext, &opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&pdftotext, "pdftotext", true, "retry failed PDF extraction with pdftotext")

	return cmd
}

func runConvert(ctx context.Context, stdout io.Writer, input string, pdftotext bool, opts *docOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	p, err := parser.ForFileWithOptions(input, parser.Options{
		PDFFallbackPdftotext: pdftotext,
		AllowFiles:           true,
	})
	if err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	logger.Debug("parsing", "input", input, "parser", fmt.Sprintf("%T", p))
	tree, err := p.Parse(f, filepath.Base(input))
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}
	opts.apply(tree)

	if err := writeDocument(tree, opts.output, stdout, logger); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Converted %s", input))
	return nil
}

// writeDocument renders tree to path, or to stdout when path is empty or
// "-". A failed render removes the partially written file.
func writeDocument(tree *doctree.DocTree, path string, stdout io.Writer, logger *log.Logger) error {
	for kind, n := range tree.Stats() {
		logger.Debug("nodes", "kind", kind, "count", n)
	}

	if path == "" || path == "-" {
		return tree.Render(stdout)
	}
	if !strings.EqualFold(filepath.Ext(path), ".tex") {
		logger.Warn("output does not end in .tex", "output", path)
	}

	f, err := texfile.Create(path)
	if err != nil {
		return err
	}
	if err := tree.Write(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Info("wrote document", "output", path)
	return nil
}
