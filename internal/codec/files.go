package codec

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/template"
)

// LoadFiles reads a template file and its language file. A missing language
// file is not an error: every display name falls back to its root name.
func LoadFiles(templatePath, langPath string) (*template.Document, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fe.NewNotFoundError(templatePath, "template file does not exist")
		}
		return nil, fe.WrapIO(err, fe.ErrCodeReadFailed, templatePath, "failed to read template")
	}

	var lang []byte
	if langPath != "" {
		lang, err = os.ReadFile(langPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fe.WrapIO(err, fe.ErrCodeReadFailed, langPath, "failed to read language file")
		}
	}

	doc, err := Decode(data, lang)
	if err != nil {
		var forgeErr *fe.ForgeError
		if errors.As(err, &forgeErr) {
			return nil, forgeErr.WithPath(templatePath)
		}
		return nil, err
	}
	return doc, nil
}

// SaveFiles encodes doc and writes both files. Encoding happens before any
// write, so an encoding failure leaves the disk untouched.
func SaveFiles(templatePath, langPath string, doc *template.Document) error {
	tmpl, lang, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := WriteFileAtomic(templatePath, tmpl); err != nil {
		return err
	}
	if langPath == "" {
		return nil
	}
	return WriteFileAtomic(langPath, lang)
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, creating parent directories as needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fe.WrapIO(err, fe.ErrCodeWriteFailed, dir, "failed to create directory")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fe.WrapIO(err, fe.ErrCodeWriteFailed, path, "failed to create temporary file")
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fe.WrapIO(err, fe.ErrCodeWriteFailed, path, "failed to write file")
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fe.WrapIO(err, fe.ErrCodeWriteFailed, path, "failed to write file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fe.WrapIO(err, fe.ErrCodeWriteFailed, path, "failed to set file mode")
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fe.WrapIO(err, fe.ErrCodeWriteFailed, path, "failed to replace file")
	}
	return nil
}
