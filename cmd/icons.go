package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var iconsExt []string

var iconsCmd = &cobra.Command{
	Use:   "icons",
	Short: "List the icons templates can reference",
	Long: `List every icon below the icons directory as the relative path a
template uses to reference it.

Examples:
  trackforge icons
  trackforge icons --ext .png --ext .gif`,
	Args: cobra.NoArgs,
	RunE: runIcons,
}

func init() {
	rootCmd.AddCommand(iconsCmd)

	iconsCmd.Flags().StringSliceVar(&iconsExt, "ext", nil, "Only list files with these extensions")
}

func runIcons(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	paths, err := a.icons.List(iconsExt...)
	if err != nil {
		return fmt.Errorf("failed to list icons: %w", err)
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}
