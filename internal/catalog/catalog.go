// Package catalog creates, copies and deletes templates and their language
// files. Every mutation checks names and uniqueness before touching disk and
// marks the registry dirty so the next listing rescans.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/conneroisu/trackforge/internal/codec"
	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/logging"
	"github.com/conneroisu/trackforge/internal/scanner"
	"github.com/conneroisu/trackforge/internal/template"
	"github.com/conneroisu/trackforge/internal/validation"
	"github.com/conneroisu/trackforge/internal/version"
)

// Ref names one template.
type Ref struct {
	Version  version.Game
	Category string
	Flag     string
}

// ID is the category followed by the flag.
func (r Ref) ID() string {
	return r.Category + r.Flag
}

func (r Ref) String() string {
	return r.Version.String() + "/" + r.ID()
}

// Options configures a Catalog.
type Options struct {
	// MaxNameLength bounds categories, flags and language flags. Zero uses
	// validation.DefaultMaxNameLength.
	MaxNameLength int
	Logger        logging.Logger
}

// Catalog performs file level template operations.
type Catalog struct {
	scanner *scanner.TemplateScanner
	layout  scanner.Layout
	maxName int
	logger  logging.Logger
}

// New creates a Catalog over the scanner's layout and registry.
func New(s *scanner.TemplateScanner, opts Options) *Catalog {
	return &Catalog{
		scanner: s,
		layout:  s.Layout(),
		maxName: opts.MaxNameLength,
		logger:  logging.OrNop(opts.Logger).WithComponent("catalog"),
	}
}

// TemplatePath is the template file of ref.
func (c *Catalog) TemplatePath(ref Ref) string {
	return c.layout.TemplatePath(ref.Version, ref.Category, ref.Flag)
}

// NotesPath is the notes file of ref.
func (c *Catalog) NotesPath(ref Ref) string {
	return c.layout.NotesPath(ref.Version, ref.Category, ref.Flag)
}

// LanguagePath is the language file of ref for lang.
func (c *Catalog) LanguagePath(ref Ref, lang string) string {
	return c.layout.LanguagePath(ref.Version, ref.Category, ref.Flag, lang)
}

// Exists reports whether the template file of ref exists.
func (c *Catalog) Exists(ref Ref) bool {
	return fileExists(c.TemplatePath(ref))
}

// Languages lists the language flags of ref.
func (c *Catalog) Languages(ref Ref) ([]string, error) {
	return c.scanner.Languages(ref.Version, ref.Category, ref.Flag)
}

// Files lists every existing file that belongs to ref: the template, its
// language files and its notes.
func (c *Catalog) Files(ref Ref) ([]string, error) {
	if !c.Exists(ref) {
		return nil, fe.NewNotFoundError(c.TemplatePath(ref), fmt.Sprintf("template '%s' does not exist", ref))
	}
	files := []string{c.TemplatePath(ref)}
	langs, err := c.Languages(ref)
	if err != nil {
		return nil, err
	}
	for _, lang := range langs {
		if p := c.LanguagePath(ref, lang); fileExists(p) {
			files = append(files, p)
		}
	}
	if p := c.NotesPath(ref); fileExists(p) {
		files = append(files, p)
	}
	return files, nil
}

// CheckNewTemplate validates the names of ref and fails with a duplicate
// error if the template already exists.
func (c *Catalog) CheckNewTemplate(ref Ref) error {
	if err := validation.ValidateName("category", ref.Category, true, c.maxName); err != nil {
		return err
	}
	if err := validation.ValidateName("flag", ref.Flag, false, c.maxName); err != nil {
		return err
	}
	if c.Exists(ref) {
		return fe.NewDuplicateError("template", ref.ID()).WithPath(c.TemplatePath(ref))
	}
	return nil
}

// CreateTemplate writes an empty template with a default language file.
func (c *Catalog) CreateTemplate(ctx context.Context, ref Ref) error {
	if err := c.CheckNewTemplate(ref); err != nil {
		return err
	}
	if err := codec.SaveFiles(c.TemplatePath(ref), c.LanguagePath(ref, ""), template.New()); err != nil {
		return err
	}
	c.MarkChanged(ctx, "Template created", "template", ref.String())
	return nil
}

// CopyTemplate duplicates src with all of its language files and notes
// under dst. src and dst may belong to different versions.
func (c *Catalog) CopyTemplate(ctx context.Context, src, dst Ref) error {
	if !c.Exists(src) {
		return fe.NewNotFoundError(c.TemplatePath(src), fmt.Sprintf("template '%s' does not exist", src))
	}
	if err := c.CheckNewTemplate(dst); err != nil {
		return err
	}

	langs, err := c.Languages(src)
	if err != nil {
		return err
	}
	if err := copyFile(c.TemplatePath(src), c.TemplatePath(dst)); err != nil {
		return err
	}
	for _, lang := range langs {
		from := c.LanguagePath(src, lang)
		if !fileExists(from) {
			continue
		}
		if err := copyFile(from, c.LanguagePath(dst, lang)); err != nil {
			return err
		}
	}
	notes := c.NotesPath(src)
	if fileExists(notes) {
		if err := copyFile(notes, c.NotesPath(dst)); err != nil {
			return err
		}
	}

	c.MarkChanged(ctx, "Template copied", "from", src.String(), "to", dst.String(), "languages", len(langs))
	return nil
}

// DeleteTemplate removes the template of ref and every companion file.
func (c *Catalog) DeleteTemplate(ctx context.Context, ref Ref) error {
	files, err := c.Files(ref)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fe.WrapIO(err, fe.ErrCodeWriteFailed, f, "failed to delete file")
		}
	}
	// Remove the category directory once it is empty.
	_ = os.Remove(c.layout.CategoryDir(ref.Version, ref.Category))

	c.MarkChanged(ctx, "Template deleted", "template", ref.String(), "files", len(files))
	return nil
}

// CheckNewLanguage validates a language flag for ref and fails with a
// duplicate error if the language file already exists.
func (c *Catalog) CheckNewLanguage(ref Ref, lang string) error {
	if !c.Exists(ref) {
		return fe.NewNotFoundError(c.TemplatePath(ref), fmt.Sprintf("template '%s' does not exist", ref))
	}
	if err := validation.ValidateName("language", lang, true, c.maxName); err != nil {
		return err
	}
	if p := c.LanguagePath(ref, lang); fileExists(p) {
		return fe.NewDuplicateError("language", lang).WithPath(p)
	}
	return nil
}

// CreateLanguage writes a new language file for ref whose display names are
// the root names of the template's entries.
func (c *Catalog) CreateLanguage(ctx context.Context, ref Ref, lang string) error {
	if err := c.CheckNewLanguage(ref, lang); err != nil {
		return err
	}
	doc, err := codec.LoadFiles(c.TemplatePath(ref), "")
	if err != nil {
		return err
	}
	_, data, err := codec.Encode(doc)
	if err != nil {
		return err
	}
	if err := codec.WriteFileAtomic(c.LanguagePath(ref, lang), data); err != nil {
		return err
	}
	c.MarkChanged(ctx, "Language created", "template", ref.String(), "language", lang)
	return nil
}

// CopyLanguage duplicates the language file from under the name to.
func (c *Catalog) CopyLanguage(ctx context.Context, ref Ref, from, to string) error {
	src := c.LanguagePath(ref, from)
	if !fileExists(src) {
		return fe.NewNotFoundError(src, fmt.Sprintf("language '%s' of template '%s' does not exist", from, ref))
	}
	if err := c.CheckNewLanguage(ref, to); err != nil {
		return err
	}
	if err := copyFile(src, c.LanguagePath(ref, to)); err != nil {
		return err
	}
	c.MarkChanged(ctx, "Language copied", "template", ref.String(), "from", from, "to", to)
	return nil
}

// DeleteLanguage removes a named language file. The default language cannot
// be deleted.
func (c *Catalog) DeleteLanguage(ctx context.Context, ref Ref, lang string) error {
	if lang == "" {
		return fe.NewValidationError(fe.ErrCodeProtectedDelete, ref.ID(),
			fmt.Sprintf("the default language of template '%s' cannot be deleted", ref))
	}
	p := c.LanguagePath(ref, lang)
	if !fileExists(p) {
		return fe.NewNotFoundError(p, fmt.Sprintf("language '%s' of template '%s' does not exist", lang, ref))
	}
	if err := os.Remove(p); err != nil {
		return fe.WrapIO(err, fe.ErrCodeWriteFailed, p, "failed to delete language file")
	}
	c.MarkChanged(ctx, "Language deleted", "template", ref.String(), "language", lang)
	return nil
}

// MarkChanged logs a catalog change and requests a rescan.
func (c *Catalog) MarkChanged(ctx context.Context, msg string, fields ...interface{}) {
	c.scanner.GetRegistry().MarkDirty()
	c.logger.Info(ctx, msg, fields...)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func copyFile(from, to string) error {
	data, err := os.ReadFile(from)
	if err != nil {
		return fe.WrapIO(err, fe.ErrCodeReadFailed, from, "failed to read file")
	}
	return codec.WriteFileAtomic(to, data)
}
