package director

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteComposition writes a composition to a YAML file
func WriteComposition(c *Composition, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadComposition reads a composition from a YAML file and validates it.
// Fields missing from the file keep their canonical values.
func ReadComposition(path string) (*Composition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseComposition(data)
}

// ParseComposition decodes YAML on top of the canonical composition. A file
// that replaces reveal.sprites without declared_frames drops the canonical
// declared total.
func ParseComposition(data []byte) (*Composition, error) {
	c := Canonical()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode composition: %w", err)
	}

	var given struct {
		Reveal struct {
			Sprites  *yaml.Node `yaml:"sprites"`
			Declared *int       `yaml:"declared_frames"`
		} `yaml:"reveal"`
	}
	if err := yaml.Unmarshal(data, &given); err != nil {
		return nil, fmt.Errorf("decode composition: %w", err)
	}
	if given.Reveal.Sprites != nil && given.Reveal.Declared == nil {
		c.Reveal.Declared = 0
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
