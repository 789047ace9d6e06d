package catalogue

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a catalogue from path and validates it. Files ending in
// .yaml or .yml are decoded as YAML, everything else as TOML.
func LoadFile(path string) (*Catalogue, error) {
	var (
		c   Catalogue
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(path, &c)
	default:
		err = decodeTOML(path, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("decode catalogue %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalogue %s: %w", path, err)
	}
	return &c, nil
}

func decodeTOML(path string, c *Catalogue) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		log.Warnf("catalogue %s: ignoring unknown keys %v", path, undecoded)
	}
	return nil
}

func decodeYAML(path string, c *Catalogue) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(c)
}

// Load returns the catalogue at path, or the built-in one when path is empty.
func Load(path string) (*Catalogue, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
