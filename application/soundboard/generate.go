// Package soundboard assembles grid configuration documents, either from the
// artifacts a batch just produced or from an existing folder of audio files.
package soundboard

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/L3GJ0N/audio-snippet-automation/domain/snippet"
	"github.com/L3GJ0N/audio-snippet-automation/domain/soundboard"
	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/logging"
)

// defaultExtensions are the audio types picked up by folder scans,
// matched case-insensitively.
var defaultExtensions = []string{".wav", ".mp3", ".m4a", ".ogg", ".flac"}

// FromArtifacts builds a config for the clips a batch produced, in
// completion order. A zero fixed layout means the grid is computed from the
// clip count and never truncates; a fixed layout drops excess clips with a
// warning naming the dropped count.
func FromArtifacts(artifacts []snippet.ClipArtifact, fixed soundboard.Layout, log *logging.Logger) soundboard.Config {
	layout := fixed
	if layout.IsZero() {
		layout = soundboard.PlanGrid(len(artifacts))
	} else if len(artifacts) > layout.Slots() {
		log.Warn("too many snippets (%d) for %dx%d grid; dropping %d",
			len(artifacts), layout.Rows, layout.Cols, len(artifacts)-layout.Slots())
		artifacts = artifacts[:layout.Slots()]
	}

	buttons := make([]soundboard.Button, 0, len(artifacts))
	for i, a := range artifacts {
		path := a.Path
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		buttons = append(buttons, soundboard.Button{
			File:  filepath.ToSlash(path),
			Row:   i/layout.Cols + 1,
			Col:   i%layout.Cols + 1,
			Label: a.Label,
		})
	}

	return soundboard.NewConfig(layout, buttons)
}

// FolderOptions configures FromFolder.
type FolderOptions struct {
	// ExtraExtensions adds to the default audio extensions.
	ExtraExtensions []string
	// AbsolutePaths writes absolute instead of working-directory-relative
	// file paths into the document.
	AbsolutePaths bool
}

// FromFolder scans a directory of audio files, plans a grid for them, and
// builds the config. Files are ordered by lowercased name so regeneration is
// deterministic.
func FromFolder(dir string, opts FolderOptions, log *logging.Logger) (soundboard.Config, error) {
	files, err := findAudioFiles(dir, append(append([]string{}, defaultExtensions...), opts.ExtraExtensions...))
	if err != nil {
		return soundboard.Config{}, err
	}
	if len(files) == 0 {
		return soundboard.Config{}, fmt.Errorf("no audio files found in %s", dir)
	}

	layout := soundboard.PlanGrid(len(files))
	log.Info("found %d audio files; %dx%d grid (%d slots)", len(files), layout.Rows, layout.Cols, layout.Slots())

	buttons := make([]soundboard.Button, 0, len(files))
	for i, f := range files {
		path := f
		if opts.AbsolutePaths {
			if abs, err := filepath.Abs(f); err == nil {
				path = abs
			}
		} else if wd, err := os.Getwd(); err == nil {
			if rel, err := filepath.Rel(wd, f); err == nil && !strings.HasPrefix(rel, "..") {
				path = rel
			}
		}

		stem := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		buttons = append(buttons, soundboard.Button{
			File:  filepath.ToSlash(path),
			Row:   i/layout.Cols + 1,
			Col:   i%layout.Cols + 1,
			Label: snippet.DeriveLabel(stem),
		})
	}

	return soundboard.NewConfig(layout, buttons), nil
}

func findAudioFiles(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read audio folder %s: %w", dir, err)
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = true
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if wanted[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})
	return files, nil
}
