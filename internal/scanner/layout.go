package scanner

import (
	"path/filepath"
	"strings"

	"github.com/conneroisu/trackforge/internal/version"
)

const (
	langInfix      = "_lang"
	notesInfix     = "_notes"
	snapshotSuffix = "_snapshot.json"
	jsonExt        = ".json"
	notesExt       = ".txt"
)

// Layout maps templates to files below a templates root:
//
//	<root>/<version>/<category>/<version_underscored>_<category><flag>.json
//	<root>/<version>/<category>/<base>_lang.json
//	<root>/<version>/<category>/<base>_lang_<language>.json
//	<root>/<version>/<category>/<base>_notes.txt
type Layout struct {
	Root string
}

// VersionDir is the directory holding every category of v.
func (l Layout) VersionDir(v version.Game) string {
	return filepath.Join(l.Root, v.String())
}

// CategoryDir is the directory holding the templates of one category.
func (l Layout) CategoryDir(v version.Game, category string) string {
	return filepath.Join(l.VersionDir(v), category)
}

// BaseName is the template file name without extension.
func BaseName(v version.Game, category, flag string) string {
	return v.Underscored() + "_" + category + flag
}

// TemplatePath is the template file of category and flag.
func (l Layout) TemplatePath(v version.Game, category, flag string) string {
	return filepath.Join(l.CategoryDir(v, category), BaseName(v, category, flag)+jsonExt)
}

// LanguagePath is the language file for a language flag; "" is the default
// language.
func (l Layout) LanguagePath(v version.Game, category, flag, lang string) string {
	return filepath.Join(l.CategoryDir(v, category), LanguageFileName(BaseName(v, category, flag), lang))
}

// NotesPath is the free-form notes file kept next to a template.
func (l Layout) NotesPath(v version.Game, category, flag string) string {
	return filepath.Join(l.CategoryDir(v, category), BaseName(v, category, flag)+notesInfix+notesExt)
}

// LanguageFileName is the language file name for base and a language flag.
func LanguageFileName(base, lang string) string {
	if lang == "" {
		return base + langInfix + jsonExt
	}
	return base + langInfix + "_" + lang + jsonExt
}

// parseTemplateName extracts the flag from a template file name in the
// directory of category. ok is false for companion files and names that do
// not belong to the category.
func parseTemplateName(v version.Game, category, name string) (flag string, ok bool) {
	if !strings.HasSuffix(name, jsonExt) {
		return "", false
	}
	if strings.Contains(name, langInfix) || strings.Contains(name, notesInfix) {
		return "", false
	}
	if v.IsLegacy() && strings.HasSuffix(name, snapshotSuffix) {
		return "", false
	}
	prefix := v.Underscored() + "_" + category
	stem := strings.TrimSuffix(name, jsonExt)
	if !strings.HasPrefix(stem, prefix) {
		return "", false
	}
	return stem[len(prefix):], true
}

// ParseLanguageName returns the language flag of a language file name
// belonging to base. ok is false for any other file.
func ParseLanguageName(base, name string) (lang string, ok bool) {
	stem, found := strings.CutSuffix(name, jsonExt)
	if !found {
		return "", false
	}
	if stem == base+langInfix {
		return "", true
	}
	lang, found = strings.CutPrefix(stem, base+langInfix+"_")
	if !found || lang == "" {
		return "", false
	}
	return lang, true
}
