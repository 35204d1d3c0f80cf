// Package archive packs a template with its language and notes files into a
// zip file and unpacks such a file under a new template name.
//
// Entries are stored flat by file name. On unpack the template entry is the
// single .json entry that is not a language or notes file; companions are
// recognized by its base name and renamed to the destination.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/conneroisu/trackforge/internal/catalog"
	"github.com/conneroisu/trackforge/internal/codec"
	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/scanner"
	"github.com/conneroisu/trackforge/internal/validation"
)

// MaxEntrySize bounds the uncompressed size of a single archive entry.
const MaxEntrySize = 32 << 20

// Export writes every file of ref into a zip archive at dest and returns the
// number of entries written. A failed export removes dest.
func Export(ctx context.Context, cat *catalog.Catalog, ref catalog.Ref, dest string) (n int, err error) {
	files, err := cat.Files(ref)
	if err != nil {
		return 0, err
	}

	out, err := os.Create(dest)
	if err != nil {
		return 0, fe.WrapIO(err, fe.ErrCodeWriteFailed, dest, "failed to create archive")
	}
	defer func() {
		if err != nil {
			_ = os.Remove(dest)
		}
	}()
	zw := zip.NewWriter(out)

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()
			_ = out.Close()
			return 0, err
		}
		if err := addFile(zw, f); err != nil {
			_ = zw.Close()
			_ = out.Close()
			return 0, err
		}
	}

	if err := zw.Close(); err != nil {
		_ = out.Close()
		return 0, fe.WrapIO(err, fe.ErrCodeWriteFailed, dest, "failed to finish archive")
	}
	if err := out.Close(); err != nil {
		return 0, fe.WrapIO(err, fe.ErrCodeWriteFailed, dest, "failed to close archive")
	}
	return len(files), nil
}

func addFile(zw *zip.Writer, name string) error {
	in, err := os.Open(name)
	if err != nil {
		return fe.WrapIO(err, fe.ErrCodeReadFailed, name, "failed to open file")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fe.WrapIO(err, fe.ErrCodeReadFailed, name, "failed to stat file")
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fe.WrapIO(err, fe.ErrCodeWriteFailed, name, "failed to build archive header")
	}
	header.Name = filepath.Base(name)
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fe.WrapIO(err, fe.ErrCodeWriteFailed, name, "failed to add archive entry")
	}
	if _, err := io.Copy(w, in); err != nil {
		return fe.WrapIO(err, fe.ErrCodeWriteFailed, name, "failed to write archive entry")
	}
	return nil
}

// entryKind classifies archive entries relative to the template base name.
type entryKind int

const (
	entryTemplate entryKind = iota
	entryLanguage
	entryNotes
)

type plannedEntry struct {
	file *zip.File
	kind entryKind
	lang string
	data []byte
}

// Import unpacks the archive at src as the template dst. The destination
// must be a valid, unused template name, and the template entry must decode
// with each of its language entries; nothing is written otherwise. A write
// failure part way removes the files already written. Entries that do not
// belong to the archived template are skipped and returned.
func Import(ctx context.Context, cat *catalog.Catalog, src string, dst catalog.Ref) (skipped []string, err error) {
	if err := cat.CheckNewTemplate(dst); err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fe.NewNotFoundError(src, "archive does not exist")
		}
		return nil, fe.WrapIO(err, fe.ErrCodeParseFailed, src, "failed to open archive")
	}
	defer zr.Close()

	plan, skipped, err := planEntries(zr.File)
	if err != nil {
		return nil, fe.Wrap(err, fe.ErrorTypeValidation, fe.ErrCodeInvalidPath, "archive rejected").WithPath(src)
	}

	for i := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := readEntry(plan[i].file)
		if err != nil {
			return nil, err
		}
		plan[i].data = data
	}
	if err := checkDecodes(plan); err != nil {
		return nil, fe.Wrap(err, fe.ErrorTypeValidation, fe.ErrCodeParseFailed, "archive holds an invalid template").WithPath(src)
	}

	var written []string
	for _, p := range plan {
		target := cat.TemplatePath(dst)
		switch p.kind {
		case entryLanguage:
			target = cat.LanguagePath(dst, p.lang)
		case entryNotes:
			target = cat.NotesPath(dst)
		}
		if err := codec.WriteFileAtomic(target, p.data); err != nil {
			for _, w := range written {
				_ = os.Remove(w)
			}
			return nil, err
		}
		written = append(written, target)
	}

	cat.MarkChanged(ctx, "Template imported", "archive", src, "template", dst.String(), "entries", len(plan))
	return skipped, nil
}

// checkDecodes decodes the template entry together with every language
// entry, or alone when the archive holds no language file.
func checkDecodes(plan []plannedEntry) error {
	var tmpl []byte
	var langs []plannedEntry
	for _, p := range plan {
		switch p.kind {
		case entryTemplate:
			tmpl = p.data
		case entryLanguage:
			langs = append(langs, p)
		}
	}
	if len(langs) == 0 {
		_, err := codec.Decode(tmpl, nil)
		return err
	}
	for _, l := range langs {
		if _, err := codec.Decode(tmpl, l.data); err != nil {
			return fmt.Errorf("%s: %w", l.file.Name, err)
		}
	}
	return nil
}

func planEntries(files []*zip.File) ([]plannedEntry, []string, error) {
	var base string
	for _, f := range files {
		if err := checkEntryName(f.Name); err != nil {
			return nil, nil, err
		}
		name := path.Base(f.Name)
		if !strings.HasSuffix(name, ".json") || strings.Contains(name, "_lang") || strings.Contains(name, "_notes") {
			continue
		}
		if base != "" {
			return nil, nil, fmt.Errorf("archive holds more than one template: %s and %s", base+".json", name)
		}
		base = strings.TrimSuffix(name, ".json")
	}
	if base == "" {
		return nil, nil, fmt.Errorf("archive holds no template file")
	}

	var plan []plannedEntry
	var skipped []string
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		name := path.Base(f.Name)
		switch {
		case name == base+".json":
			plan = append(plan, plannedEntry{file: f, kind: entryTemplate})
		case name == base+"_notes.txt":
			plan = append(plan, plannedEntry{file: f, kind: entryNotes})
		default:
			if lang, ok := scanner.ParseLanguageName(base, name); ok {
				plan = append(plan, plannedEntry{file: f, kind: entryLanguage, lang: lang})
				continue
			}
			skipped = append(skipped, f.Name)
		}
	}
	return plan, skipped, nil
}

func checkEntryName(name string) error {
	if err := validation.ValidateRelativePath(name); err != nil {
		return fmt.Errorf("unsafe archive entry %q: %w", name, err)
	}
	return nil
}

func readEntry(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > MaxEntrySize {
		return nil, fe.NewIOError(fe.ErrCodeReadFailed, f.Name,
			fmt.Sprintf("archive entry %s exceeds %d bytes", f.Name, MaxEntrySize), nil)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fe.WrapIO(err, fe.ErrCodeReadFailed, f.Name, "failed to open archive entry")
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxEntrySize+1))
	if err != nil {
		return nil, fe.WrapIO(err, fe.ErrCodeReadFailed, f.Name, "failed to read archive entry")
	}
	if len(data) > MaxEntrySize {
		return nil, fe.NewIOError(fe.ErrCodeReadFailed, f.Name,
			fmt.Sprintf("archive entry %s exceeds %d bytes", f.Name, MaxEntrySize), nil)
	}
	return data, nil
}
