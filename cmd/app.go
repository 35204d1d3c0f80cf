package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/trackforge/internal/catalog"
	"github.com/conneroisu/trackforge/internal/config"
	"github.com/conneroisu/trackforge/internal/editor"
	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/icons"
	"github.com/conneroisu/trackforge/internal/logging"
	"github.com/conneroisu/trackforge/internal/registry"
	"github.com/conneroisu/trackforge/internal/scanner"
	"github.com/conneroisu/trackforge/internal/version"
)

// app wires the services every command works with.
type app struct {
	cfg      *config.Config
	logger   logging.Logger
	version  version.Game
	registry *registry.TemplateRegistry
	scanner  *scanner.TemplateScanner
	catalog  *catalog.Catalog
	icons    *icons.DirResolver
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	v, err := cfg.GameVersion()
	if err != nil {
		return nil, err
	}

	lc := cfg.LoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	logger := logging.NewLogger(lc)

	reg := registry.NewTemplateRegistry()
	s := scanner.NewTemplateScanner(cfg.Layout(), reg, logger)
	return &app{
		cfg:      cfg,
		logger:   logger,
		version:  v,
		registry: reg,
		scanner:  s,
		catalog:  catalog.New(s, catalog.Options{MaxNameLength: cfg.Editor.MaxNameLength, Logger: logger}),
		icons:    icons.NewDirResolver(cfg.Paths.IconsDir),
	}, nil
}

// parseRef reads a template argument of the form category or category/flag
// in the active game version.
func (a *app) parseRef(arg string) (catalog.Ref, error) {
	return a.parseRefIn(a.version, arg)
}

func (a *app) parseRefIn(v version.Game, arg string) (catalog.Ref, error) {
	category, flag, _ := strings.Cut(arg, "/")
	if category == "" {
		return catalog.Ref{}, fe.NewValidationError(fe.ErrCodeEmptyName, arg,
			fmt.Sprintf("template '%s' has no category", arg))
	}
	return catalog.Ref{Version: v, Category: category, Flag: flag}, nil
}

// refs lists every template of the active version.
func (a *app) refs(ctx context.Context) ([]catalog.Ref, error) {
	infos, err := a.scanner.Refresh(ctx, a.version)
	if err != nil {
		return nil, err
	}
	refs := make([]catalog.Ref, 0, len(infos))
	for _, info := range infos {
		refs = append(refs, catalog.Ref{Version: a.version, Category: info.Category, Flag: info.Flag})
	}
	return refs, nil
}

func (a *app) open(ctx context.Context, ref catalog.Ref, lang string) (*editor.Session, error) {
	return editor.Open(ctx, a.catalog, ref, lang, editor.Options{
		Icons:           a.icons,
		PlaceholderIcon: a.cfg.Editor.PlaceholderIcon,
		Logger:          a.logger,
	})
}
