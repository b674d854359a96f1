package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a catalog from a YAML file. An empty path selects Default.
// The returned catalog is normalized and validated.
func Load(path string) (*Catalog, error) {
	var c *Catalog
	if path == "" {
		c = Default()
	} else {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		c = &Catalog{}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		c.Normalize()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
