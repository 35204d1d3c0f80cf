package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/trackforge/internal/catalog"
	"github.com/conneroisu/trackforge/internal/registry"
	"github.com/conneroisu/trackforge/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Watch the templates of a version and report changes",
	Long: `Watch the template directory of the active game version. Changed files
trigger a rescan, and every added, updated or removed template is reported.
With --validate, added and updated templates are validated as well.

Examples:
  trackforge watch                   # Report changes
  trackforge watch --validate        # Report and validate changes
  trackforge watch --delay 1s        # Coalesce bursts of writes for a second`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var (
	watchDelay    time.Duration
	watchValidate bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDelay, "delay", 300*time.Millisecond, "Debounce delay for file changes")
	watchCmd.Flags().BoolVar(&watchValidate, "validate", false, "Validate added and updated templates")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events := a.registry.Watch()
	defer a.registry.UnWatch(events)

	out := cmd.OutOrStdout()
	infos, err := a.scanner.Refresh(ctx, a.version)
	if err != nil {
		return err
	}
	// The initial scan reports every template as added.
	drain(events)
	fmt.Fprintf(out, "Found %d templates for %s\n", len(infos), a.version)

	root := a.scanner.Layout().VersionDir(a.version)
	fw, err := watcher.WatchTemplates(ctx, root, watchDelay, a.registry, a.logger)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	defer fw.Stop()

	fmt.Fprintf(out, "Watching %s (Press Ctrl+C to stop)\n", root)
	return watchLoop(ctx, a, events, out)
}

// watchLoop rescans whenever the watcher marked the registry dirty and
// reports the resulting registry events until ctx is done.
func watchLoop(ctx context.Context, a *app, events <-chan registry.TemplateEvent, out io.Writer) error {
	ticker := time.NewTicker(watchDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "Stopping watcher")
			return nil
		case <-ticker.C:
			if !a.registry.IsDirty() {
				continue
			}
			if _, err := a.scanner.Refresh(ctx, a.version); err != nil {
				a.logger.Warn(ctx, err, "Rescan failed")
			}
		case event := <-events:
			reportEvent(ctx, a, event, out)
		}
	}
}

func reportEvent(ctx context.Context, a *app, event registry.TemplateEvent, out io.Writer) {
	fmt.Fprintf(out, "%s %s\n", event.Type, event.Template.Key())
	if !watchValidate || event.Type == registry.EventTypeRemoved {
		return
	}

	ref := catalog.Ref{Version: a.version, Category: event.Template.Category, Flag: event.Template.Flag}
	s, err := a.open(ctx, ref, "")
	if err == nil {
		err = s.Validate()
	}
	if err != nil {
		fmt.Fprintf(out, "  ✗ %v\n", err)
		return
	}
	fmt.Fprintln(out, "  ✓ valid")
}

func drain(events <-chan registry.TemplateEvent) {
	for {
		select {
		case <-events:
		default:
			return
		}
	}
}
