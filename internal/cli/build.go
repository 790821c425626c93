package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/texgen/internal/doctree"
	"github.com/dgallion1/texgen/internal/latex"
	"github.com/dgallion1/texgen/internal/parser"
)

func newBuildCmd() *cobra.Command {
	var (
		opts     docOpts
		maxDepth int
	)

	cmd := &cobra.Command{
		Use:   "build <tree.json|->",
		Short: "Render a JSON document tree",
		Long: `Build reads a JSON document tree (from a file, or stdin with "-") and
renders it. Code and text_from_file nodes read paths relative to the
working directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], maxDepth, &opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum nesting depth (default 64)")

	return cmd
}

func runBuild(ctx context.Context, stdin io.Reader, stdout io.Writer, input string, maxDepth int, opts *docOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	r := stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	tree, err := doctree.DecodeJSON(r, doctree.DecodeOptions{AllowFiles: true, MaxDepth: maxDepth})
	if err != nil {
		return err
	}
	opts.apply(tree)

	if err := writeDocument(tree, opts.output, stdout, logger); err != nil {
		return err
	}
	prog.done("Built document")
	return nil
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported input formats and node kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "extensions: %s\n", strings.Join(parser.Extensions(), " "))
			kinds := make([]string, 0, len(latex.Kinds()))
			for _, k := range latex.Kinds() {
				kinds = append(kinds, k.String())
			}
			fmt.Fprintf(out, "node kinds: %s\n", strings.Join(kinds, " "))
			return nil
		},
	}
}
