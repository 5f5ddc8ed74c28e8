package soundboard

import (
	"encoding/json"
	"fmt"
	"os"
)

// Button is one playable cell in the grid. Row and Col are 1-based.
type Button struct {
	File  string `json:"file"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Label string `json:"label"`
}

// LayoutDoc is the layout block of the configuration document.
type LayoutDoc struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Config is the soundboard configuration document. The playback front end
// reads it, loads each referenced file, and exposes play/stop per button
// plus stop-all.
type Config struct {
	Layout  LayoutDoc `json:"layout"`
	Buttons []Button  `json:"buttons"`
}

// NewConfig places buttons row-major into the given layout.
func NewConfig(layout Layout, buttons []Button) Config {
	return Config{
		Layout:  LayoutDoc{Rows: layout.Rows, Cols: layout.Cols},
		Buttons: buttons,
	}
}

// Validate checks the structural invariants: positive layout dimensions,
// required button fields, and every cell index within bounds.
func (c Config) Validate() error {
	if c.Layout.Rows <= 0 || c.Layout.Cols <= 0 {
		return fmt.Errorf("layout must specify positive rows and cols, got %dx%d", c.Layout.Rows, c.Layout.Cols)
	}
	for i, b := range c.Buttons {
		if b.File == "" {
			return fmt.Errorf("button %d: missing file", i)
		}
		if b.Row < 1 || b.Row > c.Layout.Rows || b.Col < 1 || b.Col > c.Layout.Cols {
			return fmt.Errorf("button %d: position (%d,%d) is outside layout bounds %dx%d",
				i, b.Row, b.Col, c.Layout.Rows, c.Layout.Cols)
		}
	}
	return nil
}

// CheckFiles verifies that every referenced audio file exists on disk.
// Separate from Validate so generation-time tests do not need real files.
func (c Config) CheckFiles() error {
	for i, b := range c.Buttons {
		if _, err := os.Stat(b.File); err != nil {
			return fmt.Errorf("button %d: audio file not found: %s", i, b.File)
		}
	}
	return nil
}

// Save writes the document as two-space-indented JSON.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize soundboard config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write soundboard config: %w", err)
	}
	return nil
}

// LoadConfig reads and validates a configuration document.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read soundboard config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON in soundboard config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
