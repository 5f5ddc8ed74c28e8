// Package ffmpeg adapts the external ffmpeg binary to the trim and convert
// ports. ffmpeg accepts timecodes both as plain seconds and as
// HH:MM:SS[.fraction], so job timecodes pass through verbatim.
package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"github.com/L3GJ0N/audio-snippet-automation/domain/snippet"
)

// preciseBitrate is the fixed AAC bitrate used for frame-accurate re-encodes.
const preciseBitrate = "192k"

// Trimmer implements snippet.Trimmer using ffmpeg
type Trimmer struct {
	ffmpegPath string
	runner     CommandRunner
	echo       cmdEchoer
}

// TrimmerOption is a functional option for configuring Trimmer
type TrimmerOption func(*Trimmer)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) TrimmerOption {
	return func(t *Trimmer) {
		t.ffmpegPath = path
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) TrimmerOption {
	return func(t *Trimmer) {
		t.runner = runner
	}
}

// WithCommandEcho logs each ffmpeg invocation before it runs
func WithCommandEcho(echo cmdEchoer) TrimmerOption {
	return func(t *Trimmer) {
		t.echo = echo
	}
}

// NewTrimmer creates a new ffmpeg-based trimmer
func NewTrimmer(opts ...TrimmerOption) *Trimmer {
	t := &Trimmer{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// TempPath returns the intermediate cut file placed next to finalPath:
// {name}.{ext} becomes {name}.cut.m4a.
func TempPath(finalPath string) string {
	stem := finalPath
	if i := strings.LastIndex(finalPath, "."); i > strings.LastIndexByte(finalPath, '/') {
		stem = finalPath[:i]
	}
	return stem + ".cut.m4a"
}

// Trim implements snippet.Trimmer. Fast mode stream-copies between the
// timecodes; precise mode re-encodes at a fixed bitrate.
func (t *Trimmer) Trim(ctx context.Context, inputPath, finalPath string, start, end snippet.Timecode, mode snippet.TrimMode) (string, error) {
	tempPath := TempPath(finalPath)

	args := []string{
		"-y",
		"-ss", start.String(),
		"-to", end.String(),
		"-i", inputPath,
	}
	if mode == snippet.TrimPrecise {
		args = append(args, "-c:a", "aac", "-b:a", preciseBitrate)
	} else {
		args = append(args, "-c", "copy")
	}
	args = append(args, tempPath)

	if t.echo != nil {
		t.echo.Cmd(t.ffmpegPath, args...)
	}
	if err := t.runner.Run(ctx, t.ffmpegPath, args...); err != nil {
		return "", fmt.Errorf("%w: ffmpeg cut %s..%s of %s: %v", snippet.ErrTrim, start, end, inputPath, err)
	}

	return tempPath, nil
}

// VerifyInstalled checks that ffmpeg is available
func (t *Trimmer) VerifyInstalled(ctx context.Context) error {
	_, err := t.runner.Output(ctx, t.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("%w: ffmpeg not found or not executable: %v", snippet.ErrConfiguration, err)
	}
	return nil
}

// Ensure Trimmer implements snippet.Trimmer
var _ snippet.Trimmer = (*Trimmer)(nil)
