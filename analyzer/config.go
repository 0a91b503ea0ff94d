package analyzer

import (
	"context"
	"fmt"
	"github.com/viant/afs"
	"github.com/viant/steplinage/graph"
	"gopkg.in/yaml.v3"
)

// Config represents lineage builder settings
type Config struct {
	Concurrency       int    `yaml:"concurrency,omitempty"`       // Max steps analyzed at once
	InputNodeType     string `yaml:"inputNodeType,omitempty"`     // Type tag of input field nodes
	OutputNodeType    string `yaml:"outputNodeType,omitempty"`    // Type tag of output field nodes
	TransientNodeType string `yaml:"transientNodeType,omitempty"` // Type tag of synthesized placeholder nodes
	DerivesLabel      string `yaml:"derivesLabel,omitempty"`      // Label of input to output field links
}

// Init sets defaults for unset values
func (c *Config) Init() {
	defaults := DefaultConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = defaults.Concurrency
	}
	if c.InputNodeType == "" {
		c.InputNodeType = defaults.InputNodeType
	}
	if c.OutputNodeType == "" {
		c.OutputNodeType = defaults.OutputNodeType
	}
	if c.TransientNodeType == "" {
		c.TransientNodeType = defaults.TransientNodeType
	}
	if c.DerivesLabel == "" {
		c.DerivesLabel = defaults.DerivesLabel
	}
}

func DefaultConfig() *Config {
	return &Config{
		Concurrency:       4,
		InputNodeType:     graph.NodeTypeField,
		OutputNodeType:    graph.NodeTypeField,
		TransientNodeType: graph.NodeTypePlaceholder,
		DerivesLabel:      graph.LinkDerives,
	}
}

// LoadConfig loads YAML config, unset values use defaults
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download config %v: %w", URL, err)
	}
	config := &Config{}
	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	config.Init()
	return config, nil
}
