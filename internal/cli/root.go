// Package cli implements the texgen command-line interface.
//
// Commands:
//   - convert: turn a supported input file into a .tex document
//   - build: render a JSON document tree
//   - formats: list input extensions and node kinds
//
// All commands accept --verbose (-v) for debug logging on stderr.
package cli

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the texgen CLI.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "texgen",
		Short:        "texgen renders documents as LaTeX source",
		Long:         `texgen converts text, Markdown, CSV, HTML, PDF, DOCX and JSON document trees into standalone LaTeX documents.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("texgen %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newConvertCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newFormatsCmd())

	return root
}
