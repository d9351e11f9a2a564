// Package advisory holds the static advisory content of the dashboard: the
// auction strategy and the impact-player scenarios.
package advisory

import (
	"embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed content/*.yaml
var content embed.FS

// Content is the full advisory content.
type Content struct {
	Version   string     `yaml:"version"`
	Strategy  Strategy   `yaml:"strategy"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// Strategy is a titled list of grouped recommendations.
type Strategy struct {
	Title  string  `yaml:"title"`
	Team   string  `yaml:"team"`
	Groups []Group `yaml:"groups"`
}

// Group is one heading of the strategy.
type Group struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

// Scenario is one impact-player situation and what to do about it.
type Scenario struct {
	Key            string   `yaml:"key"`
	Title          string   `yaml:"title"`
	Situation      string   `yaml:"situation"`
	Recommendation string   `yaml:"recommendation"`
	Players        []string `yaml:"players"`
}

// Load returns the built-in content.
func Load() (*Content, error) {
	var c Content
	for _, name := range []string{"content/strategy.yaml", "content/impact.yaml"} {
		data, err := content.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid advisory content: %w", err)
	}
	return &c, nil
}

// MustLoad is Load for the built-in content, which is validated by tests.
func MustLoad() *Content {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFile loads content from a YAML file holding both the strategy and
// the scenarios. Sections missing from the file fall back to the built-in ones.
func LoadFile(path string) (*Content, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("reading advisory file: %w", err)
	}

	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing advisory file: %w", err)
	}

	builtin, err := Load()
	if err != nil {
		return nil, err
	}
	if c.Version == "" {
		c.Version = builtin.Version
	}
	if c.Strategy.Title == "" && len(c.Strategy.Groups) == 0 {
		c.Strategy = builtin.Strategy
	}
	if len(c.Scenarios) == 0 {
		c.Scenarios = builtin.Scenarios
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid advisory file: %w", err)
	}
	return &c, nil
}

// Validate checks that the content is well-formed.
func (c *Content) Validate() error {
	if c.Version != "1" {
		return fmt.Errorf("unsupported advisory version: %q (supported: 1)", c.Version)
	}
	if c.Strategy.Title == "" {
		return errors.New("strategy title is required")
	}
	seen := make(map[string]bool, len(c.Scenarios))
	for i, s := range c.Scenarios {
		if s.Key == "" || s.Title == "" {
			return fmt.Errorf("scenario %d needs a key and a title", i)
		}
		if seen[s.Key] {
			return fmt.Errorf("duplicate scenario key %q", s.Key)
		}
		seen[s.Key] = true
	}
	return nil
}

// Scenario returns the scenario with key.
func (c *Content) Scenario(key string) (Scenario, bool) {
	for _, s := range c.Scenarios {
		if s.Key == key {
			return s, true
		}
	}
	return Scenario{}, false
}

// ScenarioKeys returns the scenario keys in display order.
func (c *Content) ScenarioKeys() []string {
	keys := make([]string, len(c.Scenarios))
	for i, s := range c.Scenarios {
		keys[i] = s.Key
	}
	return keys
}
