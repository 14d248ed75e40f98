// CLAUDE:SUMMARY Notebook configuration (database, body format, structural and rasterized export) and YAML loader.
package notebook

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/notebook/notes"
	"github.com/hazyhaar/notebook/pdfexport"
	"github.com/hazyhaar/notebook/rasterexport"
)

// Config holds all notebook configuration.
type Config struct {
	DBPath     string              `yaml:"db_path"`
	BodyFormat string              `yaml:"body_format"` // "html" or "markdown"
	OutputDir  string              `yaml:"output_dir"`  // root of files written by MCP tools
	Export     pdfexport.Config    `yaml:"export"`
	Raster     rasterexport.Config `yaml:"raster"`
}

func (c *Config) defaults() {
	if c.DBPath == "" {
		c.DBPath = "notebook.db"
	}
	if c.BodyFormat == "" {
		c.BodyFormat = string(notes.FormatHTML)
	}
	if c.OutputDir == "" {
		c.OutputDir = "exports"
	}
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("notebook: read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("notebook: parse config: %w", err)
	}
	return cfg, nil
}
