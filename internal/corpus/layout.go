// Package corpus assembles the fixed catalog of seed files into a
// categorized output tree and reports what was written.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Layout defines the on-disk directory layout of a corpus root. Directory
// names double as category labels in reports and the index.
type Layout struct {
	Root         string
	DocumentsDir string // document-format encodings
	MalformedDir string // malformed document variants, nested under documents
	MessagesDir  string // tag-value encodings
	TextDir      string // plain-text fixtures
	PatternsDir  string // raw byte patterns
}

// DefaultLayout builds the default layout under the given root.
func DefaultLayout(root string) Layout {
	return Layout{
		Root:         root,
		DocumentsDir: "bson",
		MalformedDir: filepath.Join("bson", "malformed"),
		MessagesDir:  "protobuf",
		TextDir:      "json",
		PatternsDir:  "binary",
	}
}

// Config is the optional YAML configuration overriding the corpus root and
// category directory names. Empty fields keep their defaults.
type Config struct {
	Root       string `yaml:"root"`
	Categories struct {
		Documents string `yaml:"documents"`
		Malformed string `yaml:"malformed"`
		Messages  string `yaml:"messages"`
		Text      string `yaml:"text"`
		Patterns  string `yaml:"patterns"`
	} `yaml:"categories"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("corpus: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Layout resolves the config against defaults. The root argument wins over
// the config file when non-empty, so a -out flag can override.
func (c Config) Layout(root string) Layout {
	if root == "" {
		root = c.Root
	}
	if root == "" {
		root = "corpus"
	}
	l := DefaultLayout(root)
	if c.Categories.Documents != "" {
		l.DocumentsDir = c.Categories.Documents
		l.MalformedDir = filepath.Join(c.Categories.Documents, "malformed")
	}
	if c.Categories.Malformed != "" {
		l.MalformedDir = filepath.Join(l.DocumentsDir, c.Categories.Malformed)
	}
	if c.Categories.Messages != "" {
		l.MessagesDir = c.Categories.Messages
	}
	if c.Categories.Text != "" {
		l.TextDir = c.Categories.Text
	}
	if c.Categories.Patterns != "" {
		l.PatternsDir = c.Categories.Patterns
	}
	return l
}

// Dirs returns every category directory, parents before children.
func (l Layout) Dirs() []string {
	return []string{
		l.DocumentsDir,
		l.MalformedDir,
		l.MessagesDir,
		l.TextDir,
		l.PatternsDir,
	}
}
