package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/trackforge/internal/importer"
)

var (
	importAll    bool
	importSelect []string
	importLang   string
	importDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "import <template> <candidates>",
	Short: "Merge candidate entries into a template",
	Long: `Merge advancements, stats and unlocks from a candidates file into a
template and save it. The candidates file is JSON or YAML (by extension)
with advancements, stats and unlocks lists, typically produced from a
player's save. Only selected candidates are merged.

Recipe advancements and completed advancements with a single criterion are
merged without criteria. Merged entries get the configured placeholder icon.
A merge is rejected as a whole if any selected root name already exists.

Examples:
  trackforge import all_advancements save.json --all
  trackforge import all_advancements save.yaml --select minecraft:story/root
  trackforge import all_advancements save.json --all --dry-run`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&importAll, "all", false, "Select every candidate")
	importCmd.Flags().StringSliceVar(&importSelect, "select", nil, "Select candidates by root name")
	importCmd.Flags().BoolVarP(&importDryRun, "dry-run", "n", false, "Merge without saving")
	AddLanguageFlag(importCmd, &importLang)
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ref, err := a.parseRef(args[0])
	if err != nil {
		return err
	}

	candidates, err := importer.LoadCandidates(args[1])
	if err != nil {
		return err
	}
	if importAll {
		candidates.SelectAll()
	}
	candidates.Select(importSelect...)

	s, err := a.open(cmd.Context(), ref, importLang)
	if err != nil {
		return err
	}
	res, err := s.Merge(cmd.Context(), candidates)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Merged %d advancements (%d criteria), %d stats, %d unlocks into %s\n",
		res.Advancements, res.Criteria, res.Stats, res.Unlocks, ref)
	if importDryRun || res.Total() == 0 {
		return nil
	}
	if err := s.Save(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %s\n", ref)
	return nil
}
