package ffmpeg

import (
	"context"
	"fmt"
	"os"

	"github.com/L3GJ0N/audio-snippet-automation/domain/snippet"
)

// Converter implements snippet.Converter using ffmpeg
type Converter struct {
	ffmpegPath string
	runner     CommandRunner
	echo       cmdEchoer
}

// ConverterOption is a functional option for configuring Converter
type ConverterOption func(*Converter)

// WithConverterFFmpegPath sets a custom ffmpeg executable path
func WithConverterFFmpegPath(path string) ConverterOption {
	return func(c *Converter) {
		c.ffmpegPath = path
	}
}

// WithConverterCommandRunner sets a custom command runner (for testing)
func WithConverterCommandRunner(runner CommandRunner) ConverterOption {
	return func(c *Converter) {
		c.runner = runner
	}
}

// WithConverterCommandEcho logs each ffmpeg invocation before it runs
func WithConverterCommandEcho(echo cmdEchoer) ConverterOption {
	return func(c *Converter) {
		c.echo = echo
	}
}

// NewConverter creates a new ffmpeg-based converter
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Convert implements snippet.Converter. m4a is the intermediate's own
// format, so the temp file is promoted by rename, overwriting any existing
// final output. Other formats re-encode and then remove the intermediate.
func (c *Converter) Convert(ctx context.Context, tempPath, finalPath string, format snippet.Format) error {
	switch format {
	case snippet.FormatM4A:
		if err := os.Remove(finalPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: failed to replace %s: %v", snippet.ErrConvert, finalPath, err)
		}
		if err := os.Rename(tempPath, finalPath); err != nil {
			return fmt.Errorf("%w: failed to promote %s: %v", snippet.ErrConvert, tempPath, err)
		}
		return nil

	case snippet.FormatMP3:
		// -q:a 2 is LAME VBR ~190kbps
		return c.reencode(ctx, tempPath, finalPath, "-q:a", "2")

	case snippet.FormatWAV:
		return c.reencode(ctx, tempPath, finalPath)

	default:
		return fmt.Errorf("%w: unsupported format %q", snippet.ErrConvert, format)
	}
}

func (c *Converter) reencode(ctx context.Context, tempPath, finalPath string, extra ...string) error {
	args := append([]string{"-y", "-i", tempPath}, extra...)
	args = append(args, finalPath)

	if c.echo != nil {
		c.echo.Cmd(c.ffmpegPath, args...)
	}
	if err := c.runner.Run(ctx, c.ffmpegPath, args...); err != nil {
		return fmt.Errorf("%w: ffmpeg encode to %s: %v", snippet.ErrConvert, finalPath, err)
	}

	if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: failed to remove intermediate %s: %v", snippet.ErrConvert, tempPath, err)
	}
	return nil
}

// Ensure Converter implements snippet.Converter
var _ snippet.Converter = (*Converter)(nil)
