package soundboard

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/L3GJ0N/audio-snippet-automation/domain/snippet"
	domsb "github.com/L3GJ0N/audio-snippet-automation/domain/soundboard"
	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/logging"
)

func testLogger(buf *bytes.Buffer) *logging.Logger {
	return logging.NewWithWriters(buf, buf)
}

func artifacts(names ...string) []snippet.ClipArtifact {
	out := make([]snippet.ClipArtifact, 0, len(names))
	for _, n := range names {
		out = append(out, snippet.NewClipArtifact(filepath.Join("/snippets", n+".wav"), n))
	}
	return out
}

func TestFromArtifactsComputedLayout(t *testing.T) {
	var buf bytes.Buffer
	cfg := FromArtifacts(artifacts("a", "b", "c", "d", "e"), domsb.Layout{}, testLogger(&buf))

	if cfg.Layout.Rows != 3 || cfg.Layout.Cols != 2 {
		t.Errorf("layout = %dx%d, want 3x2 for five clips", cfg.Layout.Rows, cfg.Layout.Cols)
	}
	if len(cfg.Buttons) != 5 {
		t.Fatalf("buttons = %d", len(cfg.Buttons))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	// Row-major placement with 1-based coordinates.
	want := []struct{ row, col int }{{1, 1}, {1, 2}, {2, 1}, {2, 2}, {3, 1}}
	for i, w := range want {
		b := cfg.Buttons[i]
		if b.Row != w.row || b.Col != w.col {
			t.Errorf("button %d at (%d,%d), want (%d,%d)", i, b.Row, b.Col, w.row, w.col)
		}
	}
	if strings.Contains(buf.String(), "[WARN]") {
		t.Error("computed layout should never warn about truncation")
	}
}

func TestFromArtifactsFixedLayoutDropsExcess(t *testing.T) {
	var buf bytes.Buffer
	cfg := FromArtifacts(artifacts("a", "b", "c", "d", "e"), domsb.Layout{Rows: 2, Cols: 2}, testLogger(&buf))

	if len(cfg.Buttons) != 4 {
		t.Fatalf("fixed 2x2 grid keeps 4 buttons, got %d", len(cfg.Buttons))
	}
	if cfg.Buttons[3].Label != "D" {
		t.Errorf("kept buttons should be the first four, last label = %q", cfg.Buttons[3].Label)
	}
	if !strings.Contains(buf.String(), "dropping 1") {
		t.Errorf("truncation should warn with the dropped count, got %q", buf.String())
	}
}

func TestFromArtifactsWritesForwardSlashAbsolutePaths(t *testing.T) {
	var buf bytes.Buffer
	cfg := FromArtifacts(artifacts("clip"), domsb.Layout{}, testLogger(&buf))

	file := cfg.Buttons[0].File
	if !filepath.IsAbs(filepath.FromSlash(file)) {
		t.Errorf("file should be absolute: %q", file)
	}
	if strings.Contains(file, "\\") {
		t.Errorf("file should use forward slashes: %q", file)
	}
}

func TestFromFolderSortsAndLabels(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zebra_call.wav", "Air_horn.mp3", "drum-roll.m4a", "notes.txt", "cover.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	cfg, err := FromFolder(dir, FolderOptions{}, testLogger(&buf))
	if err != nil {
		t.Fatalf("FromFolder: %v", err)
	}

	if len(cfg.Buttons) != 3 {
		t.Fatalf("buttons = %d, want 3 audio files", len(cfg.Buttons))
	}
	wantLabels := []string{"Air Horn", "Drum Roll", "Zebra Call"}
	for i, want := range wantLabels {
		if cfg.Buttons[i].Label != want {
			t.Errorf("button %d label = %q, want %q", i, cfg.Buttons[i].Label, want)
		}
	}
	if cfg.Layout.Rows != 3 || cfg.Layout.Cols != 1 {
		t.Errorf("layout = %dx%d, want 3x1", cfg.Layout.Rows, cfg.Layout.Cols)
	}
}

func TestFromFolderExtraExtensions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"clip.opus", "clip.wav"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	cfg, err := FromFolder(dir, FolderOptions{ExtraExtensions: []string{".opus"}}, testLogger(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Buttons) != 2 {
		t.Errorf("buttons = %d, want opus picked up alongside wav", len(cfg.Buttons))
	}
}

func TestFromFolderEmptyDirFails(t *testing.T) {
	var buf bytes.Buffer
	if _, err := FromFolder(t.TempDir(), FolderOptions{}, testLogger(&buf)); err == nil {
		t.Error("empty folder should be an error")
	}
}
