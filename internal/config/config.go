package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "escrido.yaml"

type Config struct {
	Include     []string          `yaml:"include"`
	Extensions  []string          `yaml:"extensions"`
	TemplateDir string            `yaml:"template_dir"`
	Namespaces  []string          `yaml:"namespaces"`
	ExcludeGrps []string          `yaml:"exclude_groups"`
	Internal    bool              `yaml:"internal"`
	Relabel     map[string]string `yaml:"relabel"`

	HTML struct {
		Enabled bool   `yaml:"enabled"`
		OutDir  string `yaml:"out_dir"`
		Postfix string `yaml:"file_ending"`
	} `yaml:"html"`

	SearchIndex struct {
		Enabled  bool   `yaml:"enabled"`
		File     string `yaml:"file"`
		Encoding string `yaml:"encoding"` // json, js or sqlite
	} `yaml:"search_index"`

	LaTeX struct {
		Enabled bool   `yaml:"enabled"`
		OutDir  string `yaml:"out_dir"`
	} `yaml:"latex"`

	Log struct {
		Format string `yaml:"format"` // text or json
		Level  string `yaml:"level"`
	} `yaml:"log"`

	// DB is the SQLite file of the sqlite search index encoding.
	DB     string `yaml:"db"`
	Report string `yaml:"report"`
}

// Default returns the configuration used for unset values.
func Default() *Config {
	var cfg Config
	cfg.Include = []string{"."}
	cfg.TemplateDir = "./template/"
	cfg.HTML.Enabled = true
	cfg.HTML.OutDir = "./html/"
	cfg.HTML.Postfix = ".html"
	cfg.SearchIndex.File = "srchidx.json"
	cfg.SearchIndex.Encoding = "json"
	cfg.LaTeX.OutDir = "./latex/"
	cfg.DB = "escrido.db"
	cfg.Log.Format = "text"
	cfg.Log.Level = "info"
	return &cfg
}

// LoadConfig reads the YAML file at path over the defaults. A missing file
// at the default path is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read config: %w", err)
	}

	// 3. Override with Environment Variables if present
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	str := map[string]*string{
		"ESCRIDO_TEMPLATE_DIR":     &cfg.TemplateDir,
		"ESCRIDO_HTML_DIR":         &cfg.HTML.OutDir,
		"ESCRIDO_HTML_FILE_ENDING": &cfg.HTML.Postfix,
		"ESCRIDO_LATEX_DIR":        &cfg.LaTeX.OutDir,
		"ESCRIDO_SEARCH_INDEX":     &cfg.SearchIndex.File,
		"ESCRIDO_SEARCH_ENCODING":  &cfg.SearchIndex.Encoding,
		"ESCRIDO_LOG_FORMAT":       &cfg.Log.Format,
		"ESCRIDO_LOG_LEVEL":        &cfg.Log.Level,
		"ESCRIDO_DB":               &cfg.DB,
		"ESCRIDO_REPORT":           &cfg.Report,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	list := map[string]*[]string{
		"ESCRIDO_INCLUDE":        &cfg.Include,
		"ESCRIDO_NAMESPACES":     &cfg.Namespaces,
		"ESCRIDO_EXCLUDE_GROUPS": &cfg.ExcludeGrps,
	}
	for key, dst := range list {
		if v := os.Getenv(key); v != "" {
			*dst = strings.Fields(v)
		}
	}
	flags := map[string]*bool{
		"ESCRIDO_HTML":         &cfg.HTML.Enabled,
		"ESCRIDO_LATEX":        &cfg.LaTeX.Enabled,
		"ESCRIDO_SEARCH":       &cfg.SearchIndex.Enabled,
		"ESCRIDO_INTERNAL_TAG": &cfg.Internal,
	}
	for key, dst := range flags {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
	}
	return nil
}

// Validate checks values that have a fixed set of choices.
func (c *Config) Validate() error {
	switch c.SearchIndex.Encoding {
	case "json", "js", "sqlite":
	default:
		return fmt.Errorf("unknown search index encoding %q", c.SearchIndex.Encoding)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if len(c.Include) == 0 {
		return errors.New("no include path given")
	}
	return nil
}
