package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/trackforge/internal/catalog"
	fe "github.com/conneroisu/trackforge/internal/errors"
)

var (
	validateAll  bool
	validateLang string
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate [template...]",
	Short: "Validate templates without saving them",
	Long: `Validate templates for the problems that would block a save:

- Empty or duplicate root names
- Missing icons of visible entries
- Stats with a target of zero
- Helper stats no multi-stage goal uses
- Malformed multi-stage goal stages

Legacy helper stats are synchronized in memory first, exactly as a save
would do. Nothing is written.

Examples:
  trackforge validate                    # Validate all templates
  trackforge validate all_advancements   # Validate one template
  trackforge validate --format json      # Output results as JSON`,
	RunE: runValidateCommand,
}

var validateFlags *OutputFlags

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().
		BoolVar(&validateAll, "all", false, "Validate all templates (default if no templates specified)")
	AddLanguageFlag(validateCmd, &validateLang)
	validateFlags = AddOutputFlags(validateCmd, "text", "json")
}

type ValidationResult struct {
	Template string `json:"template"`
	Valid    bool   `json:"valid"`
	Code     string `json:"code,omitempty"`
	Entry    string `json:"entry,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ValidationSummary struct {
	Total   int                `json:"total"`
	Valid   int                `json:"valid"`
	Invalid int                `json:"invalid"`
	Results []ValidationResult `json:"results"`
}

func runValidateCommand(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var refs []catalog.Ref
	if validateAll || len(args) == 0 {
		if refs, err = a.refs(ctx); err != nil {
			return err
		}
	} else {
		for _, arg := range args {
			ref, err := a.parseRef(arg)
			if err != nil {
				return err
			}
			refs = append(refs, ref)
		}
	}

	collector := fe.NewErrorCollector()
	handler := fe.NewErrorHandler(a.logger)
	summary := ValidationSummary{Total: len(refs)}
	for _, ref := range refs {
		err := validateTemplate(cmd, a, ref)
		collector.Add(ref.String(), err)
		handler.Handle(ctx, err)
		summary.Results = append(summary.Results, newValidationResult(ref, err))
	}
	summary.Invalid = collector.Count()
	summary.Valid = summary.Total - summary.Invalid

	out := cmd.OutOrStdout()
	if strings.EqualFold(validateFlags.Format, "json") {
		if err := writeJSON(out, summary); err != nil {
			return err
		}
	} else if !validateFlags.Quiet {
		outputValidationText(out, summary)
	}
	return collector.Err()
}

func validateTemplate(cmd *cobra.Command, a *app, ref catalog.Ref) error {
	s, err := a.open(cmd.Context(), ref, validateLang)
	if err != nil {
		return err
	}
	return s.Validate()
}

func newValidationResult(ref catalog.Ref, err error) ValidationResult {
	r := ValidationResult{Template: ref.String(), Valid: err == nil}
	if err == nil {
		return r
	}
	r.Code = fe.CodeOf(err)
	r.Entry = fe.EntryOf(err)
	var forgeErr *fe.ForgeError
	if errors.As(err, &forgeErr) {
		r.Error = forgeErr.Message
	} else {
		r.Error = err.Error()
	}
	return r
}

func outputValidationText(w io.Writer, summary ValidationSummary) {
	if summary.Total == 0 {
		fmt.Fprintln(w, "No templates found to validate")
		return
	}
	for _, r := range summary.Results {
		if r.Valid {
			fmt.Fprintf(w, "✓ %s\n", r.Template)
			continue
		}
		fmt.Fprintf(w, "✗ %s [%s] %s\n", r.Template, r.Code, r.Error)
	}
	fmt.Fprintf(w, "\n%d templates, %d valid, %d invalid\n", summary.Total, summary.Valid, summary.Invalid)
}
