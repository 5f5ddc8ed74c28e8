// Package logging provides the leveled console logger shared by every
// command. Lines carry a bracketed level tag so batch output stays easy to
// grep; colors degrade automatically on dumb terminals and NO_COLOR.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	shellquote "github.com/kballard/go-shellquote"
)

var (
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	cmdStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

// Logger writes leveled lines to stdout/stderr. Safe for use from the
// pipeline goroutine and signal handlers.
type Logger struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

// New returns a logger writing to stdout and stderr.
func New() *Logger {
	return &Logger{out: os.Stdout, err: os.Stderr}
}

// NewWithWriters returns a logger with custom sinks (for tests).
func NewWithWriters(out, err io.Writer) *Logger {
	return &Logger{out: out, err: err}
}

func (l *Logger) line(w io.Writer, style lipgloss.Style, level, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(w, "%s %s\n", style.Render("["+level+"]"), text)
}

// Info logs progress at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.line(l.out, infoStyle, "INFO", fmt.Sprintf(format, args...))
}

// OK logs a completed artifact.
func (l *Logger) OK(format string, args ...interface{}) {
	l.line(l.out, okStyle, "OK", fmt.Sprintf(format, args...))
}

// Warn logs a recoverable problem (skipped row, fallback attempt).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line(l.out, warnStyle, "WARN", fmt.Sprintf(format, args...))
}

// Error logs a per-job or fatal failure to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line(l.err, errStyle, "ERROR", fmt.Sprintf(format, args...))
}

// Help logs a remediation step for credential failures.
func (l *Logger) Help(format string, args ...interface{}) {
	l.line(l.out, helpStyle, "HELP", fmt.Sprintf(format, args...))
}

// Cmd echoes an external command, shell-quoted, before it runs.
func (l *Logger) Cmd(name string, args ...string) {
	l.line(l.out, cmdStyle, "CMD", shellquote.Join(append([]string{name}, args...)...))
}
