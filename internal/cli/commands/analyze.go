package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/leapstack-labs/pbiassist/internal/cli/output"
	"github.com/leapstack-labs/pbiassist/pkg/core"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
	_ "github.com/leapstack-labs/pbiassist/pkg/lint/rules" // register rule catalogue
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// AnalyzeOptions holds options for the analyze command.
type AnalyzeOptions struct {
	Strict     bool     // Fail when any rule fails
	Disable    []string // Rule IDs to disable
	Categories []string // Only run these categories
	Format     string   // Output format override
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze <file.vpax>...",
		Short: "Check model exports against best-practice rules",
		Long: `Extract one or more Power BI model exports and run the best-practice
rule catalogue against each of them.

Files are processed concurrently and reported in the order given.
Rules can be disabled or tuned in pbiassist.yaml under "lint".

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # Analyze a model
  pbiassist analyze sales.vpax

  # Analyze several models and fail the build on any finding
  pbiassist analyze models/*.vpax --strict

  # Skip naming rules and a single rule
  pbiassist analyze sales.vpax --disable NC01 --category maintenance,dax-quality

  # Output as JSON
  pbiassist analyze sales.vpax -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit with an error when any rule fails")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringSliceVar(&opts.Categories, "category", nil, "Only run rules of these categories")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	_ = cmd.RegisterFlagCompletionFunc("category", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(core.AllCategories()))
		for _, c := range core.AllCategories() {
			names = append(names, string(c))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("disable", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		ids := make([]string, 0, lint.Count())
		for _, r := range lint.GetAll() {
			ids = append(ids, r.ID+"\t"+r.Name)
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// FileAnalysis is the outcome of analyzing one export.
type FileAnalysis struct {
	File        string               `json:"file" yaml:"file"`
	Model       string               `json:"model" yaml:"model"`
	Fingerprint string               `json:"fingerprint" yaml:"fingerprint"`
	Score       int                  `json:"score" yaml:"score"`
	Result      *lint.AnalysisResult `json:"result" yaml:"result"`
}

func runAnalyze(cmd *cobra.Command, files []string, opts *AnalyzeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := overrideRenderer(cmd, cmdCtx.Renderer, opts.Format)

	lintCfg, err := buildLintConfig(cmdCtx.Cfg.AnalyzerConfig(), opts)
	if err != nil {
		return err
	}
	analyzer := lint.NewAnalyzer(lintCfg)

	results := make([]FileAnalysis, len(files))
	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())
	for i, path := range files {
		g.Go(func() error {
			m, err := loadModel(cmdCtx.Logger, path)
			if err != nil {
				return err
			}
			res := analyzer.Analyze(m.Data)
			results[i] = FileAnalysis{
				File:        path,
				Model:       m.Name(),
				Fingerprint: m.Fingerprint,
				Score:       res.Score(),
				Result:      res,
			}
			cmdCtx.Logger.Debug("analyzed model", "file", path, "score", res.Score())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	structured, err := r.Structured(results)
	if err != nil {
		return err
	}
	if !structured {
		if r.EffectiveMode() == output.ModeMarkdown {
			analyzeMarkdown(r, results)
		} else {
			analyzeText(r, results)
		}
	}

	if opts.Strict {
		failed := 0
		for _, fa := range results {
			failed += fa.Result.Overall.FailedRules
		}
		if failed > 0 {
			return fmt.Errorf("%d rule(s) failed", failed)
		}
	}
	return nil
}

// buildLintConfig merges CLI flags into the configured rule settings.
func buildLintConfig(cfg *lint.Config, opts *AnalyzeOptions) (*lint.Config, error) {
	for _, id := range opts.Disable {
		id = strings.ToUpper(strings.TrimSpace(id))
		if _, ok := lint.GetByID(id); !ok {
			return nil, fmt.Errorf("unknown rule %q", id)
		}
		cfg.Disable(id)
	}
	for _, name := range opts.Categories {
		c, ok := core.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", name)
		}
		cfg.OnlyCategory(c)
	}
	return cfg, nil
}

// analyzeText outputs the analysis in styled text format.
func analyzeText(r *output.Renderer, results []FileAnalysis) {
	styles := r.Styles()

	for _, fa := range results {
		r.Header(1, fmt.Sprintf("%s (%s)", fa.Model, fa.File))
		r.Printf("%s %s  %s\n\n",
			styles.Bold.Render("Score:"),
			scoreStyle(styles, fa.Score).Render(fmt.Sprintf("%d%%", fa.Score)),
			styles.Muted.Render(fmt.Sprintf("%d of %d rules passed", fa.Result.Overall.PassedRules, fa.Result.Overall.TotalRules)),
		)

		r.Table([]string{"Category", "Passed", "Failed", "Compliance"}, categoryRows(fa.Result))
		r.Println()

		for _, cr := range fa.Result.Categories {
			r.Println(styles.Header2.Render(cr.DisplayName))
			for _, info := range cr.Rules {
				res := cr.Results[info.ID]
				status := output.StatusSuccess
				detail := ""
				if !res.Passed {
					status = output.StatusFailed
					detail = fmt.Sprintf("%s, %d object(s)", info.DefaultSeverity, len(res.AffectedObjects))
				}
				r.StatusLine(info.ID+" "+info.Name, status, detail)
				for _, obj := range res.AffectedObjects {
					r.Printf("      %s\n", styles.ObjectPath.Render(obj))
				}
			}
			r.Println()
		}
	}
}

// analyzeMarkdown outputs the analysis in markdown format.
func analyzeMarkdown(r *output.Renderer, results []FileAnalysis) {
	for _, fa := range results {
		r.Println(output.FormatHeader(1, fmt.Sprintf("Analysis: %s", fa.Model)))
		r.Println()
		r.Println(output.FormatKeyValue("File", fa.File))
		r.Println(output.FormatKeyValue("Fingerprint", fa.Fingerprint))
		r.Println(output.FormatKeyValue("Score", fmt.Sprintf("%d%% (%d of %d rules passed)",
			fa.Score, fa.Result.Overall.PassedRules, fa.Result.Overall.TotalRules)))
		r.Println()

		r.Println(output.FormatHeader(2, "Categories"))
		r.Println()
		r.Table([]string{"Category", "Passed", "Failed", "Compliance"}, categoryRows(fa.Result))
		r.Println()

		failures := fa.Result.Failures()
		r.Println(output.FormatHeader(2, "Findings"))
		r.Println()
		if len(failures) == 0 {
			r.Println("No findings.")
			r.Println()
			continue
		}
		for _, f := range failures {
			r.Printf("- **%s** %s (`%s`): %s\n", f.Rule.ID, f.Rule.Name, f.Rule.DefaultSeverity, f.Rule.Description)
			for _, obj := range f.AffectedObjects {
				r.Printf("  - %s\n", obj)
			}
		}
		r.Println()
	}
}

func categoryRows(res *lint.AnalysisResult) [][]string {
	rows := make([][]string, 0, len(res.Categories))
	for _, cr := range res.Categories {
		rows = append(rows, []string{
			cr.DisplayName,
			fmt.Sprintf("%d", cr.PassedRules),
			fmt.Sprintf("%d", cr.FailedRules),
			fmt.Sprintf("%d%%", cr.Compliance()),
		})
	}
	return rows
}
