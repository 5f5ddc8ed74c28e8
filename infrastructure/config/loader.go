package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete run configuration. Every field has a
// matching command-line flag; flags override file values and the file itself
// is optional.
type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Output     OutputConfig     `yaml:"output"`
	Cookies    CookiesConfig    `yaml:"cookies"`
	Soundboard SoundboardConfig `yaml:"soundboard"`
	Server     ServerConfig     `yaml:"server"`
}

// PathsConfig contains the snippet output and download cache directories.
type PathsConfig struct {
	OutputDirectory string `yaml:"output_directory"`
	CacheDirectory  string `yaml:"cache_directory"`
}

// OutputConfig contains trimming and format defaults.
type OutputConfig struct {
	Format  string `yaml:"format"`  // m4a, mp3, or wav
	Precise bool   `yaml:"precise"` // re-encode for frame-accurate cuts
}

// CookiesConfig selects the yt-dlp authentication source.
type CookiesConfig struct {
	File    string `yaml:"file"`    // cookies.txt path; no fallback on failure
	Browser string `yaml:"browser"` // browser name; falls back to no cookies
}

// SoundboardConfig contains the optional fixed grid dimensions. When both
// are zero the layout is computed from the clip count.
type SoundboardConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// ServerConfig contains the soundboard web server bind address.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Paths:  PathsConfig{OutputDirectory: "snippets", CacheDirectory: "downloads"},
		Output: OutputConfig{Format: "m4a"},
		Server: ServerConfig{Host: "localhost", Port: 8080},
	}
}

// Load reads and parses the configuration from the specified YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
