// ABOUTME: Decodes version documents (YAML or JSON) into content.Version values.
// ABOUTME: Fills the version ID from the file stem and block languages from default_language.

package versions

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2389-research/quire/content"
	"gopkg.in/yaml.v3"
)

// document is the on-disk shape of a version file.
type document struct {
	content.Version `yaml:",inline"`
	DefaultLanguage string `yaml:"default_language,omitempty"`
}

// Decode reads one version document from r. YAML is a superset of JSON, so
// both formats are accepted.
func Decode(r io.Reader) (*content.Version, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("decode version: empty document")
		}
		return nil, fmt.Errorf("decode version: %w", err)
	}

	v := doc.Version
	if v.ContentBlocks == nil {
		v.ContentBlocks = []content.Block{}
	}
	if doc.DefaultLanguage != "" {
		for i := range v.ContentBlocks {
			if v.ContentBlocks[i].Language == "" {
				v.ContentBlocks[i].Language = doc.DefaultLanguage
			}
		}
	}
	return &v, nil
}

// LoadFile decodes the version document at path. A document without an id
// takes the file name without its extension.
func LoadFile(path string) (*content.Version, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open version file: %w", err)
	}
	defer f.Close()

	v, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if v.ID == "" {
		base := filepath.Base(path)
		v.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return v, nil
}
