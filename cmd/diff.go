package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/trackforge/internal/codec"
	"github.com/conneroisu/trackforge/internal/diff"
	"github.com/conneroisu/trackforge/internal/template"
)

var (
	diffLimit    int
	diffExitCode bool
)

// errTemplatesDiffer reports differing templates for --exit-code.
var errTemplatesDiffer = errors.New("templates differ")

var diffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Compare two templates",
	Long: `Compare two templates field by field, in order. Each side is a template
file path or a template name of the active version, which is compared with
its default language.

Examples:
  trackforge diff all_advancements all_advancements/_rsg
  trackforge diff old/1_16_1_all.json all_advancements --limit 20
  trackforge diff a.json b.json --exit-code`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().IntVar(&diffLimit, "limit", 10, "Maximum number of differences to print")
	diffCmd.Flags().BoolVar(&diffExitCode, "exit-code", false, "Fail when the templates differ")
}

func runDiff(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	left, err := loadForDiff(a, args[0])
	if err != nil {
		return err
	}
	right, err := loadForDiff(a, args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !diff.Differs(left, right) {
		fmt.Fprintln(out, "Templates are identical")
		return nil
	}
	for _, c := range diff.Changes(left, right, diffLimit) {
		fmt.Fprintf(out, "~ %s\n", c)
	}
	if diffExitCode {
		return errTemplatesDiffer
	}
	return nil
}

func loadForDiff(a *app, arg string) (*template.Document, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return codec.LoadFiles(arg, "")
	}
	ref, err := a.parseRef(arg)
	if err != nil {
		return nil, err
	}
	return codec.LoadFiles(a.catalog.TemplatePath(ref), a.catalog.LanguagePath(ref, ""))
}
