package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/pbiassist/internal/docs"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
	"github.com/spf13/cobra"
)

// DocsOptions holds options for the docs command.
type DocsOptions struct {
	Out        string // Output file; empty writes to stdout
	NoAnalysis bool   // Omit the best-practices section
}

// NewDocsCommand creates the docs command.
func NewDocsCommand() *cobra.Command {
	opts := &DocsOptions{}
	cmd := &cobra.Command{
		Use:   "docs <file.vpax>",
		Short: "Export Markdown documentation for a model",
		Long: `Generate a Markdown document describing a model: summary, tables,
columns, measures with their DAX, source queries, relationships and
a best-practices summary.`,
		Example: `  # Print documentation
  pbiassist docs sales.vpax

  # Write to a file without the best-practices section
  pbiassist docs sales.vpax --out MODEL.md --no-analysis`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocs(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.NoAnalysis, "no-analysis", false, "Omit the best-practices section")

	return cmd
}

func runDocs(cmd *cobra.Command, path string, opts *DocsOptions) error {
	cmdCtx := NewCommandContext(cmd)

	m, err := loadModel(cmdCtx.Logger, path)
	if err != nil {
		return err
	}

	var result *lint.AnalysisResult
	if !opts.NoAnalysis {
		result = lint.NewAnalyzer(cmdCtx.Cfg.AnalyzerConfig()).Analyze(m.Data)
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.Out != "" {
		f, err := os.Create(opts.Out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.Out, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := docs.Markdown(w, m.Data, result); err != nil {
		return fmt.Errorf("failed to write documentation: %w", err)
	}
	if opts.Out != "" {
		cmdCtx.Renderer.Success(fmt.Sprintf("Documentation written to %s", opts.Out))
	}
	return nil
}
