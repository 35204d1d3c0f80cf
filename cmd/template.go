package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/trackforge/internal/legacy"
)

var createCmd = &cobra.Command{
	Use:   "create <template>",
	Short: "Create an empty template",
	Long: `Create an empty template with its default language file.

Examples:
  trackforge create all_advancements        # Category only
  trackforge create all_advancements/_rsg   # Category with a flag`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

var copyVersion string

var copyCmd = &cobra.Command{
	Use:     "copy <source> <destination>",
	Aliases: []string{"cp"},
	Short:   "Copy a template with its language files",
	Long: `Copy a template, every language file and its notes under a new name.
The destination may belong to another game version.

Examples:
  trackforge copy all_advancements all_advancements/_set
  trackforge copy all_advancements all_advancements --to-version 1.17`,
	Args: cobra.ExactArgs(2),
	RunE: runCopy,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <template>",
	Aliases: []string{"rm"},
	Short:   "Delete a template with its language files",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var (
	syncLang   string
	syncDryRun bool
)

var syncCmd = &cobra.Command{
	Use:   "sync <template>",
	Short: "Synchronize legacy helper stats and save",
	Long: `Add the hidden helper stats that legacy multi-stage goals need and drop
the ones no goal uses, then save. On modern versions this is a no-op.

Examples:
  trackforge sync -g 1.6.4 all_achievements
  trackforge sync -g 1.6.4 all_achievements --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

var fmtLang string

var fmtCmd = &cobra.Command{
	Use:   "fmt <template...>",
	Short: "Rewrite templates in canonical form",
	Long: `Load and save templates. A save synchronizes, validates and writes keys
in canonical order, so fmt normalizes hand edited files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(createCmd, copyCmd, deleteCmd, syncCmd, fmtCmd)

	copyCmd.Flags().StringVar(&copyVersion, "to-version", "", "Game version of the destination (default is the active version)")

	AddLanguageFlag(syncCmd, &syncLang)
	syncCmd.Flags().BoolVarP(&syncDryRun, "dry-run", "n", false, "Report helper changes without saving")

	AddLanguageFlag(fmtCmd, &fmtLang)
}

func runCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ref, err := a.parseRef(args[0])
	if err != nil {
		return err
	}
	if err := a.catalog.CreateTemplate(cmd.Context(), ref); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", ref)
	return nil
}

func runCopy(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	src, err := a.parseRef(args[0])
	if err != nil {
		return err
	}

	dstVersion := a.version
	if copyVersion != "" {
		if dstVersion, err = a.cfg.ParseVersion(copyVersion); err != nil {
			return err
		}
	}
	dst, err := a.parseRefIn(dstVersion, args[1])
	if err != nil {
		return err
	}

	if err := a.catalog.CopyTemplate(cmd.Context(), src, dst); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Copied %s to %s\n", src, dst)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ref, err := a.parseRef(args[0])
	if err != nil {
		return err
	}
	if err := a.catalog.DeleteTemplate(cmd.Context(), ref); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", ref)
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ref, err := a.parseRef(args[0])
	if err != nil {
		return err
	}
	s, err := a.open(cmd.Context(), ref, syncLang)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	before := legacy.Helpers(s.Document())
	if !s.Synchronize() {
		fmt.Fprintf(out, "%s is already synchronized\n", ref)
		return nil
	}
	after := legacy.Helpers(s.Document())
	fmt.Fprintf(out, "Helper stats of %s: %s -> %s\n", ref, helperList(before), helperList(after))

	if syncDryRun {
		return nil
	}
	if err := s.Save(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %s\n", ref)
	return nil
}

func helperList(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func runFmt(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	for _, arg := range args {
		ref, err := a.parseRef(arg)
		if err != nil {
			return err
		}
		s, err := a.open(cmd.Context(), ref, fmtLang)
		if err != nil {
			return err
		}
		if err := s.Save(cmd.Context()); err != nil {
			return fmt.Errorf("%s: %w", ref, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Formatted %s\n", ref)
	}
	return nil
}
