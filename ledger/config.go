package ledger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	EventsDir  string       `yaml:"events_dir" env:"PHOTOLEDGER_EVENTS_DIR"`
	Extensions []string     `yaml:"extensions" env:"PHOTOLEDGER_EXTENSIONS" envSeparator:","`
	Report     ConfigReport `yaml:"report"`
}

type ConfigReport struct {
	Format string `yaml:"format" env:"PHOTOLEDGER_REPORT_FORMAT"`
}

var DefaultExtensions = []string{".jpg", ".jpeg", ".png"}

func DefaultConfig() *Config {
	return &Config{
		EventsDir:  ".",
		Extensions: append([]string(nil), DefaultExtensions...),
		Report: ConfigReport{
			Format: string(FormatText),
		},
	}
}

// LoadConfig reads filename on top of the defaults and applies environment
// overrides. An empty filename skips the file.
func LoadConfig(filename string) (*Config, error) {
	ret := DefaultConfig()
	if filename != "" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		err = yaml.Unmarshal(data, ret)
		if err != nil {
			return nil, fmt.Errorf("while parsing config '%s': %w", filename, err)
		}
	}
	if err := env.Parse(ret); err != nil {
		return nil, fmt.Errorf("while reading environment: %w", err)
	}
	if err := ret.normalize(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *Config) normalize() error {
	if c.EventsDir == "" {
		c.EventsDir = "."
	}
	extensions := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions = append(extensions, ext)
	}
	if len(extensions) == 0 {
		return fmt.Errorf("no image extensions configured")
	}
	c.Extensions = extensions
	if c.Report.Format == "" {
		c.Report.Format = string(FormatText)
	}
	if _, err := ParseFormat(c.Report.Format); err != nil {
		return err
	}
	return nil
}
