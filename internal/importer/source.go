package importer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	fe "github.com/conneroisu/trackforge/internal/errors"
)

// LoadCandidates reads candidates from a JSON or YAML file, chosen by
// extension.
func LoadCandidates(path string) (Candidates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Candidates{}, fe.NewNotFoundError(path, "import source does not exist")
		}
		return Candidates{}, fe.WrapIO(err, fe.ErrCodeReadFailed, path, "failed to read import source")
	}

	c, err := ParseCandidates(data, filepath.Ext(path))
	if err != nil {
		return Candidates{}, fe.WrapIO(err, fe.ErrCodeParseFailed, path, "failed to parse import source")
	}
	return c, nil
}

// ParseCandidates decodes candidates. ext selects YAML for ".yaml" and
// ".yml" and JSON otherwise.
func ParseCandidates(data []byte, ext string) (Candidates, error) {
	var c Candidates
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Candidates{}, err
		}
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return Candidates{}, err
		}
	}
	return c, nil
}
