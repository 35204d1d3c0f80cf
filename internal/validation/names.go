package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	fe "github.com/conneroisu/trackforge/internal/errors"
)

// DefaultMaxNameLength bounds category, flag and language flag names so the
// resulting file names stay well inside common file system limits.
const DefaultMaxNameLength = 64

// ValidateName checks a category, flag or language flag used to build a
// file name. Only letters, digits, '_' and '-' are allowed. Flags may be
// empty; pass required=true for categories.
func ValidateName(kind, name string, required bool, maxLen int) error {
	if maxLen <= 0 {
		maxLen = DefaultMaxNameLength
	}
	if name == "" {
		if required {
			return fe.NewValidationError(fe.ErrCodeInvalidName, name, fmt.Sprintf("%s cannot be empty", kind))
		}
		return nil
	}
	if len(name) > maxLen {
		return fe.NewValidationError(fe.ErrCodeInvalidName, name,
			fmt.Sprintf("%s '%s' is longer than %d characters", kind, name, maxLen))
	}
	for _, r := range name {
		ok := r == '_' || r == '-' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !ok {
			return fe.NewValidationError(fe.ErrCodeInvalidName, name,
				fmt.Sprintf("%s '%s' contains invalid character %q; use letters, digits, '_' or '-'", kind, name, r))
		}
	}
	if strings.Contains(name, "_lang") || strings.Contains(name, "_notes") {
		return fe.NewValidationError(fe.ErrCodeInvalidName, name,
			fmt.Sprintf("%s '%s' cannot contain the reserved infixes '_lang' or '_notes'", kind, name))
	}
	return nil
}

// ValidateRelativePath validates a path that must stay inside some root, such
// as an icon path or an archive entry.
func ValidateRelativePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") {
		return fmt.Errorf("absolute path not allowed: %s", path)
	}

	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path traversal detected: %s", path)
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path contains NUL byte")
	}
	return nil
}
