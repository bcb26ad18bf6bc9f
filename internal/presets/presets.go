// Package presets loads the wizard flows and their preset options from YAML.
package presets

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"gifty/pkg/wizard"
)

const (
	FlowPerfect = "perfect"
	FlowQuick   = "quick"
)

var ErrUnknownFlow = errors.New("unknown wizard flow")

//go:embed presets.yaml
var defaultCatalog []byte

type Catalog struct {
	Flows []wizard.Flow `yaml:"flows"`

	byName map[string]wizard.Flow
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads the catalog at path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	if len(c.Flows) == 0 {
		return nil, errors.New("presets: no flows defined")
	}

	c.byName = make(map[string]wizard.Flow, len(c.Flows))
	for _, f := range c.Flows {
		if err := f.Check(); err != nil {
			return nil, err
		}
		if _, dup := c.byName[f.Name]; dup {
			return nil, fmt.Errorf("presets: flow %q defined twice", f.Name)
		}
		c.byName[f.Name] = f
	}
	return &c, nil
}

func (c *Catalog) Flow(name string) (wizard.Flow, error) {
	f, ok := c.byName[name]
	if !ok {
		return wizard.Flow{}, fmt.Errorf("%w: %q", ErrUnknownFlow, name)
	}
	return f, nil
}

// Engine builds a wizard engine for the named flow.
func (c *Catalog) Engine(name string) (*wizard.Engine, error) {
	f, err := c.Flow(name)
	if err != nil {
		return nil, err
	}
	return wizard.NewEngine(f)
}

func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
