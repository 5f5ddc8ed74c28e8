// Package ytdlp adapts the external yt-dlp binary to the resolve and fetch
// ports. Both operations run the same ordered credential strategy list:
// a cookie file is authoritative and never falls back, browser cookies fall
// back once to no credential, and the bare attempt stands alone.
package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/L3GJ0N/audio-snippet-automation/domain/snippet"
)

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Run executes a command and returns any error
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// notifier matches logging.Logger; nil disables warnings and command echo.
type notifier interface {
	Warn(format string, args ...interface{})
	Help(format string, args ...interface{})
	Cmd(name string, args ...string)
}

// Client implements snippet.Resolver and snippet.Fetcher using yt-dlp.
type Client struct {
	ytdlpPath  string
	runner     CommandRunner
	credential snippet.Credential
	log        notifier
}

// Option is a functional option for configuring Client
type Option func(*Client)

// WithYTDLPPath sets a custom yt-dlp executable path
func WithYTDLPPath(path string) Option {
	return func(c *Client) {
		c.ytdlpPath = path
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) Option {
	return func(c *Client) {
		c.runner = runner
	}
}

// WithLogger enables fallback warnings and command echo
func WithLogger(log notifier) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a yt-dlp client using the given run-level credential.
func NewClient(credential snippet.Credential, opts ...Option) *Client {
	c := &Client{
		ytdlpPath:  "yt-dlp",
		runner:     &ExecCommandRunner{},
		credential: credential,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Resolve implements snippet.Resolver via `yt-dlp --get-id`.
func (c *Client) Resolve(ctx context.Context, sourceURL string) (string, error) {
	base := []string{"--no-playlist", "--get-id"}

	out, err := c.runWithFallback(ctx, base, sourceURL, true)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", snippet.ErrResolution, sourceURL, err)
	}

	id := strings.TrimSpace(string(out))
	if id == "" {
		return "", fmt.Errorf("%w: %s: yt-dlp returned an empty ID", snippet.ErrResolution, sourceURL)
	}
	return id, nil
}

// Fetch implements snippet.Fetcher: extract audio as m4a into destDir, named
// by video ID. The download target doubles as the cache entry path.
func (c *Client) Fetch(ctx context.Context, sourceURL, videoID, destDir string) (string, error) {
	base := []string{
		"-x",
		"--audio-format", "m4a",
		"-o", filepath.Join(destDir, "%(id)s.%(ext)s"),
		"--no-playlist",
	}

	if _, err := c.runWithFallback(ctx, base, sourceURL, false); err != nil {
		return "", fmt.Errorf("%w: %s: %v", snippet.ErrFetch, sourceURL, err)
	}

	path := filepath.Join(destDir, videoID+".m4a")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s: download completed but %s is missing", snippet.ErrFetch, sourceURL, path)
	}
	return path, nil
}

// runWithFallback tries each credential attempt in order and short-circuits
// on the first success. Failures of a non-final attempt emit the attempt's
// fallback hint; when every attempt fails the error enumerates what was
// tried and remediation steps are logged.
func (c *Client) runWithFallback(ctx context.Context, base []string, url string, capture bool) ([]byte, error) {
	attempts := c.credential.Attempts()

	var failures []string
	for i, attempt := range attempts {
		args := append(append([]string{}, base...), attempt.Args...)
		args = append(args, url)

		if c.log != nil {
			c.log.Cmd(c.ytdlpPath, args...)
		}

		var out []byte
		var err error
		if capture {
			out, err = c.runner.Output(ctx, c.ytdlpPath, args...)
		} else {
			err = c.runner.Run(ctx, c.ytdlpPath, args...)
		}
		if err == nil {
			return out, nil
		}

		failures = append(failures, fmt.Sprintf("%s: %v", attempt.Label, err))

		if i < len(attempts)-1 {
			if c.log != nil && attempt.FallbackHint != "" {
				c.log.Warn("%s", attempt.FallbackHint)
			}
			continue
		}

		if c.log != nil {
			for _, a := range attempts {
				for _, r := range a.Remediation {
					c.log.Help("%s", r)
				}
			}
		}
	}

	if len(failures) == 1 {
		return nil, fmt.Errorf("yt-dlp failed (%s)", failures[0])
	}
	return nil, fmt.Errorf("yt-dlp failed after %d attempts (%s)", len(failures), strings.Join(failures, "; "))
}

// VerifyInstalled checks that yt-dlp is available
func (c *Client) VerifyInstalled(ctx context.Context) error {
	_, err := c.runner.Output(ctx, c.ytdlpPath, "--version")
	if err != nil {
		return fmt.Errorf("%w: yt-dlp not found or not executable: %v", snippet.ErrConfiguration, err)
	}
	return nil
}

// Ensure Client implements both retrieval ports
var (
	_ snippet.Resolver = (*Client)(nil)
	_ snippet.Fetcher  = (*Client)(nil)
)
