package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/conneroisu/trackforge/internal/registry"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the templates of a game version",
	Long: `List every template of the active game version with its language files.
Language flags that are language tags are shown with their English name.

Examples:
  trackforge list                    # List templates in table format
  trackforge list -g 1.12.2          # List templates of another version
  trackforge list -f json            # Output as JSON
  trackforge list --format yaml      # Output as YAML`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listFlags *OutputFlags

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddOutputFlags(listCmd, "table", "json", "yaml")
}

type listEntry struct {
	Template  string    `json:"template" yaml:"template"`
	Category  string    `json:"category" yaml:"category"`
	Flag      string    `json:"flag,omitempty" yaml:"flag,omitempty"`
	Path      string    `json:"path" yaml:"path"`
	Languages []string  `json:"languages" yaml:"languages"`
	Modified  time.Time `json:"modified" yaml:"modified"`
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	infos, err := a.scanner.Refresh(cmd.Context(), a.version)
	if err != nil {
		return fmt.Errorf("failed to scan templates: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		if !listFlags.Quiet {
			fmt.Fprintf(out, "No templates found for %s.\n", a.version)
		}
		return nil
	}

	entries := make([]listEntry, len(infos))
	for i, info := range infos {
		entries[i] = newListEntry(info)
	}

	switch strings.ToLower(listFlags.Format) {
	case "json":
		return writeJSON(out, entries)
	case "yaml":
		return writeYAML(out, entries)
	default:
		return outputTable(out, entries)
	}
}

func newListEntry(info *registry.TemplateInfo) listEntry {
	langs := make([]string, len(info.Languages))
	copy(langs, info.Languages)
	return listEntry{
		Template:  info.Key(),
		Category:  info.Category,
		Flag:      info.Flag,
		Path:      info.Path,
		Languages: langs,
		Modified:  info.LastMod,
	}
}

func outputTable(w io.Writer, entries []listEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TEMPLATE\tLANGUAGES\tMODIFIED")
	for _, e := range entries {
		labels := make([]string, len(e.Languages))
		for i, l := range e.Languages {
			labels[i] = languageLabel(l)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Template, strings.Join(labels, ", "), e.Modified.Format(time.DateTime))
	}
	return tw.Flush()
}

// languageLabel names a language flag. Flags that parse as a BCP 47 tag get
// their English display name.
func languageLabel(flag string) string {
	if flag == "" {
		return "default"
	}
	tag, err := language.Parse(flag)
	if err != nil {
		return flag
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return flag
	}
	return fmt.Sprintf("%s (%s)", flag, name)
}
