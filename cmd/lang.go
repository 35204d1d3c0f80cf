package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	fe "github.com/conneroisu/trackforge/internal/errors"
)

var langCmd = &cobra.Command{
	Use:   "lang",
	Short: "Manage the language files of a template",
	Long: `Manage the language files of a template. A language file holds the
display names of the template's entries; the default language has no flag.

Examples:
  trackforge lang list all_advancements
  trackforge lang create all_advancements de
  trackforge lang copy all_advancements de de-AT
  trackforge lang delete all_advancements de-AT`,
}

var langListCmd = &cobra.Command{
	Use:   "list <template>",
	Short: "List the languages of a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runLangList,
}

var langCreateCmd = &cobra.Command{
	Use:   "create <template> <language>",
	Short: "Create a language file named after the root names",
	Args:  cobra.ExactArgs(2),
	RunE:  runLangCreate,
}

var langCopyCmd = &cobra.Command{
	Use:   "copy <template> <from> <to>",
	Short: "Copy a language file",
	Long:  `Copy a language file. Use "" as <from> for the default language.`,
	Args:  cobra.ExactArgs(3),
	RunE:  runLangCopy,
}

var langDeleteCmd = &cobra.Command{
	Use:   "delete <template> <language>",
	Short: "Delete a language file",
	Args:  cobra.ExactArgs(2),
	RunE:  runLangDelete,
}

func init() {
	rootCmd.AddCommand(langCmd)
	langCmd.AddCommand(langListCmd, langCreateCmd, langCopyCmd, langDeleteCmd)
}

func runLangList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ref, err := a.parseRef(args[0])
	if err != nil {
		return err
	}
	if !a.catalog.Exists(ref) {
		return fe.NewNotFoundError(a.catalog.TemplatePath(ref), fmt.Sprintf("template '%s' does not exist", ref))
	}
	langs, err := a.catalog.Languages(ref)
	if err != nil {
		return err
	}
	for _, l := range langs {
		fmt.Fprintln(cmd.OutOrStdout(), languageLabel(l))
	}
	return nil
}

func runLangCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ref, err := a.parseRef(args[0])
	if err != nil {
		return err
	}
	if err := a.catalog.CreateLanguage(cmd.Context(), ref, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created language %s of %s\n", args[1], ref)
	return nil
}

func runLangCopy(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ref, err := a.parseRef(args[0])
	if err != nil {
		return err
	}
	if err := a.catalog.CopyLanguage(cmd.Context(), ref, args[1], args[2]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Copied language %s of %s to %s\n", languageLabel(args[1]), ref, args[2])
	return nil
}

func runLangDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ref, err := a.parseRef(args[0])
	if err != nil {
		return err
	}
	if err := a.catalog.DeleteLanguage(cmd.Context(), ref, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted language %s of %s\n", args[1], ref)
	return nil
}
