package format

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Engine names.
const (
	EngineNone   = "none"
	EngineMinify = "minify"
	EngineTidy   = "tidy"
	EngineIndent = "indent"
)

// Config selects and configures a formatter. It is usually loaded from a
// YAML file:
//
//	engine: tidy
//	tidy:
//	  path: /usr/local/bin/tidy
//	  wrap: 100
type Config struct {
	// Engine is one of "none", "minify", "tidy" or "indent".
	Engine string       `yaml:"engine"`
	Minify MinifyConfig `yaml:"minify"`
	Tidy   TidyConfig   `yaml:"tidy"`
	Indent IndentConfig `yaml:"indent"`
}

// MinifyConfig mirrors the options of the HTML minifier.
type MinifyConfig struct {
	KeepComments        bool `yaml:"keep_comments"`
	KeepDefaultAttrVals bool `yaml:"keep_default_attr_vals"`
	KeepDocumentTags    bool `yaml:"keep_document_tags"`
	KeepEndTags         bool `yaml:"keep_end_tags"`
	KeepQuotes          bool `yaml:"keep_quotes"`
	KeepWhitespace      bool `yaml:"keep_whitespace"`
	// CSS and JS enable minification of <style> and <script> contents.
	CSS bool `yaml:"css"`
	JS  bool `yaml:"js"`
}

// TidyConfig configures the external tidy program.
type TidyConfig struct {
	// Path is the executable, looked up in PATH when it has no slash.
	Path   string `yaml:"path"`
	Wrap   int    `yaml:"wrap"`
	Indent bool   `yaml:"indent"`
	// Args replaces the generated command line when set.
	Args []string `yaml:"args,omitempty"`
}

// IndentConfig configures the built-in indenting formatter.
type IndentConfig struct {
	Width int `yaml:"width"`
	// DisableScripting treats noscript content as markup.
	DisableScripting bool `yaml:"disable_scripting"`
}

// DefaultConfig returns the configuration used when no file is given: tidy
// with indentation and lines wrapped at 120 columns.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineTidy,
		Minify: MinifyConfig{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			CSS:              true,
			JS:               true,
		},
		Tidy: TidyConfig{
			Path:   "tidy",
			Wrap:   120,
			Indent: true,
		},
		Indent: IndentConfig{
			Width: 2,
		},
	}
}

// LoadConfig reads a YAML configuration. Fields missing from the input keep
// their DefaultConfig values. Unknown fields are an error.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse format config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFile is like LoadConfig but reads the named file.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read format config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

// Validate checks the engine name and the settings of the selected engine.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineNone, EngineMinify:
	case EngineTidy:
		if c.Tidy.Path == "" {
			return fmt.Errorf("format config: tidy.path is empty")
		}
		if c.Tidy.Wrap < 0 {
			return fmt.Errorf("format config: tidy.wrap is negative")
		}
	case EngineIndent:
		if c.Indent.Width < 0 {
			return fmt.Errorf("format config: indent.width is negative")
		}
	default:
		return fmt.Errorf("format config: unknown engine %q", c.Engine)
	}
	return nil
}
