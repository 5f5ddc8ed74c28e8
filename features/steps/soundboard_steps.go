//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	appsb "github.com/L3GJ0N/audio-snippet-automation/application/soundboard"
	domsb "github.com/L3GJ0N/audio-snippet-automation/domain/soundboard"
	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/logging"

	"github.com/cucumber/godog"
)

// soundboardContext holds test state for soundboard scenarios
type soundboardContext struct {
	dir    string
	cfg    domsb.Config
	output *bytes.Buffer
	err    error
}

// SharedSoundboardContext is reset before each scenario via Before hook
var SharedSoundboardContext *soundboardContext

func getSoundboardContext() *soundboardContext {
	return SharedSoundboardContext
}

func InitializeSoundboardScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "asa-soundboard-*")
		if err != nil {
			return c, err
		}
		SharedSoundboardContext = &soundboardContext{
			dir:    dir,
			output: &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedSoundboardContext != nil {
			os.RemoveAll(SharedSoundboardContext.dir)
		}
		SharedSoundboardContext = nil
		return c, nil
	})

	ctx.Step(`^a folder with (\d+) audio files?$`, aFolderWithAudioFiles)
	ctx.Step(`^a folder containing "([^"]*)"$`, aFolderContaining)
	ctx.Step(`^the folder also contains "([^"]*)"$`, aFolderContaining)
	ctx.Step(`^I generate a soundboard config from the folder$`, iGenerateASoundboardConfigFromTheFolder)
	ctx.Step(`^the grid should be (\d+) rows by (\d+) columns$`, theGridShouldBe)
	ctx.Step(`^the config should have (\d+) buttons$`, theConfigShouldHaveButtons)
	ctx.Step(`^button (\d+) should be labelled "([^"]*)"$`, buttonShouldBeLabelled)
}

func aFolderWithAudioFiles(count int) error {
	s := getSoundboardContext()
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("clip_%02d.wav", i+1)
		if err := os.WriteFile(filepath.Join(s.dir, name), []byte("x"), 0644); err != nil {
			return err
		}
	}
	return nil
}

func aFolderContaining(name string) error {
	s := getSoundboardContext()
	return os.WriteFile(filepath.Join(s.dir, name), []byte("x"), 0644)
}

func iGenerateASoundboardConfigFromTheFolder() error {
	s := getSoundboardContext()
	log := logging.NewWithWriters(s.output, s.output)
	s.cfg, s.err = appsb.FromFolder(s.dir, appsb.FolderOptions{}, log)
	if s.err != nil {
		return fmt.Errorf("unexpected error: %v", s.err)
	}
	return nil
}

func theGridShouldBe(rows, cols int) error {
	s := getSoundboardContext()
	if s.cfg.Layout.Rows != rows || s.cfg.Layout.Cols != cols {
		return fmt.Errorf("expected %dx%d grid, got %dx%d", rows, cols, s.cfg.Layout.Rows, s.cfg.Layout.Cols)
	}
	return nil
}

func theConfigShouldHaveButtons(count int) error {
	s := getSoundboardContext()
	if len(s.cfg.Buttons) != count {
		return fmt.Errorf("expected %d buttons, got %d", count, len(s.cfg.Buttons))
	}
	return nil
}

func buttonShouldBeLabelled(index int, label string) error {
	s := getSoundboardContext()
	if index < 1 || index > len(s.cfg.Buttons) {
		return fmt.Errorf("no button %d, only %d present", index, len(s.cfg.Buttons))
	}
	if got := s.cfg.Buttons[index-1].Label; got != label {
		return fmt.Errorf("expected button %d label %q, got %q", index, label, got)
	}
	return nil
}
