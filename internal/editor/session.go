// Package editor implements an editing session over one template and one of
// its language files.
//
// A Session owns two documents: the working copy that edit operations
// mutate and the snapshot last read from or written to disk. Entries are
// selected by collection and root name, so a selection survives inserts,
// removals and reorders. Saving synchronizes legacy helper stats, validates,
// and only then writes; a rejected save leaves the files untouched.
package editor

import (
	"context"
	"fmt"

	"github.com/conneroisu/trackforge/internal/catalog"
	"github.com/conneroisu/trackforge/internal/codec"
	"github.com/conneroisu/trackforge/internal/diff"
	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/importer"
	"github.com/conneroisu/trackforge/internal/legacy"
	"github.com/conneroisu/trackforge/internal/logging"
	"github.com/conneroisu/trackforge/internal/template"
	"github.com/conneroisu/trackforge/internal/validation"
)

// Options configures a Session.
type Options struct {
	// Icons answers icon existence during validation. Nil only checks that
	// visible entries have an icon path.
	Icons validation.IconResolver
	// PlaceholderIcon is used for merged candidates.
	PlaceholderIcon string
	Logger          logging.Logger
}

// Selection addresses the selected entry.
type Selection struct {
	Collection template.Collection
	RootName   string
}

// Session edits one template in one language.
type Session struct {
	catalog *catalog.Catalog
	ref     catalog.Ref
	lang    string
	opts    Options
	logger  logging.Logger

	current   *template.Document
	saved     *template.Document
	selection *Selection
}

// Open loads the template ref with language lang ("" is the default
// language) and starts a session with no unsaved changes.
func Open(ctx context.Context, cat *catalog.Catalog, ref catalog.Ref, lang string, opts Options) (*Session, error) {
	if !cat.Exists(ref) {
		return nil, fe.NewNotFoundError(cat.TemplatePath(ref), fmt.Sprintf("template '%s' does not exist", ref))
	}
	doc, err := codec.LoadFiles(cat.TemplatePath(ref), cat.LanguagePath(ref, lang))
	if err != nil {
		return nil, err
	}

	s := &Session{
		catalog: cat,
		ref:     ref,
		lang:    lang,
		opts:    opts,
		logger:  logging.OrNop(opts.Logger).WithComponent("editor").With("template", ref.String()),
		current: doc,
		saved:   doc.Clone(),
	}
	s.logger.Debug(ctx, "Template opened", "language", lang)
	return s, nil
}

// Ref returns the template being edited.
func (s *Session) Ref() catalog.Ref { return s.ref }

// Language returns the language flag of the session.
func (s *Session) Language() string { return s.lang }

// Document returns the working copy. Callers may mutate it directly; call
// Synchronize afterwards when Stat stages changed.
func (s *Session) Document() *template.Document { return s.current }

// Saved returns a copy of the last saved document.
func (s *Session) Saved() *template.Document { return s.saved.Clone() }

// HasUnsavedChanges reports whether the working copy differs from the last
// saved document.
func (s *Session) HasUnsavedChanges() bool {
	return diff.Differs(s.current, s.saved)
}

// Changes lists up to limit differences between the working copy and the
// last saved document.
func (s *Session) Changes(limit int) []string {
	return diff.Changes(s.saved, s.current, limit)
}

// Revert discards every unsaved change. The selection is kept when the
// selected entry still exists.
func (s *Session) Revert(ctx context.Context) {
	s.current = s.saved.Clone()
	s.dropStaleSelection()
	s.logger.Debug(ctx, "Unsaved changes discarded")
}

// Synchronize brings legacy helper stats in step with the Stat stages and
// reports whether the working copy changed.
func (s *Session) Synchronize() bool {
	changed := legacy.Synchronize(s.current, s.ref.Version)
	if changed {
		s.dropStaleSelection()
	}
	return changed
}

// Validate synchronizes and validates the working copy.
func (s *Session) Validate() error {
	s.Synchronize()
	return validation.Validate(s.current, s.ref.Version, s.opts.Icons)
}

// Save synchronizes, validates and writes the template and the session's
// language file. Nothing is written when validation fails.
func (s *Session) Save(ctx context.Context) error {
	return s.saveTo(ctx, s.lang)
}

// SaveAsLanguage writes the working copy under a new language flag and
// switches the session to it. The language must not exist yet.
func (s *Session) SaveAsLanguage(ctx context.Context, lang string) error {
	if err := s.catalog.CheckNewLanguage(s.ref, lang); err != nil {
		return err
	}
	if err := s.saveTo(ctx, lang); err != nil {
		return err
	}
	s.lang = lang
	return nil
}

func (s *Session) saveTo(ctx context.Context, lang string) error {
	perf := logging.StartOperation(s.logger, "save")
	if err := s.Validate(); err != nil {
		s.logger.Warn(ctx, err, "Save rejected", "entry", fe.EntryOf(err))
		return err
	}
	if err := codec.SaveFiles(s.catalog.TemplatePath(s.ref), s.catalog.LanguagePath(s.ref, lang), s.current); err != nil {
		perf.EndWithError(ctx, err)
		return err
	}
	s.saved = s.current.Clone()
	perf.End(ctx)
	s.catalog.MarkChanged(ctx, "Template saved", "template", s.ref.String(), "language", lang)
	return nil
}

// Merge adds the selected import candidates to the working copy. A
// duplicate leaves the working copy untouched.
func (s *Session) Merge(ctx context.Context, c importer.Candidates) (importer.Result, error) {
	res, err := importer.Merge(s.current, c, importer.Options{PlaceholderIcon: s.opts.PlaceholderIcon})
	if err != nil {
		return res, err
	}
	s.logger.Info(ctx, "Candidates merged",
		"advancements", res.Advancements, "criteria", res.Criteria,
		"stats", res.Stats, "unlocks", res.Unlocks)
	return res, nil
}
