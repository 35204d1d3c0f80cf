package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/trackforge/internal/archive"
)

var exportCmd = &cobra.Command{
	Use:   "export <template> <archive.zip>",
	Short: "Pack a template and its language files into a zip archive",
	Args:  cobra.ExactArgs(2),
	RunE:  runExport,
}

var unpackCmd = &cobra.Command{
	Use:   "unpack <archive.zip> <template>",
	Short: "Unpack an exported archive as a new template",
	Long: `Unpack an archive written by export as a new template. The destination
must not exist yet. Entries that are not a template, language or notes file
are skipped and reported.

Examples:
  trackforge unpack shared.zip all_advancements/_shared
  trackforge unpack shared.zip all_advancements -g 1.12.2`,
	Args: cobra.ExactArgs(2),
	RunE: runUnpack,
}

func init() {
	rootCmd.AddCommand(exportCmd, unpackCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ref, err := a.parseRef(args[0])
	if err != nil {
		return err
	}
	n, err := archive.Export(cmd.Context(), a.catalog, ref, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%d files) to %s\n", ref, n, args[1])
	return nil
}

func runUnpack(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ref, err := a.parseRef(args[1])
	if err != nil {
		return err
	}
	skipped, err := archive.Import(cmd.Context(), a.catalog, args[0], ref)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range skipped {
		fmt.Fprintf(out, "Skipped %s\n", name)
	}
	fmt.Fprintf(out, "Unpacked %s into %s\n", args[0], ref)
	return nil
}
