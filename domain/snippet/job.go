package snippet

import (
	"fmt"
	"strings"
)

// Format is a supported output audio format.
type Format string

const (
	// FormatM4A is the native intermediate format produced by the trim step.
	// Converting to it is a plain rename, not a re-encode.
	FormatM4A Format = "m4a"
	FormatMP3 Format = "mp3"
	FormatWAV Format = "wav"
)

// ParseFormat validates a format string from the CSV or the command line.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatM4A:
		return FormatM4A, nil
	case FormatMP3:
		return FormatMP3, nil
	case FormatWAV:
		return FormatWAV, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q (expected m4a, mp3, or wav)", ErrConvert, s)
	}
}

// Timecode is a point in time as the user wrote it: either a decimal number
// of seconds ("90.5") or HH:MM:SS with an optional fraction. It is trimmed of
// surrounding whitespace and otherwise passed to ffmpeg verbatim; ffmpeg
// accepts both forms.
type Timecode string

// NewTimecode trims surrounding whitespace and returns the timecode.
func NewTimecode(s string) Timecode {
	return Timecode(strings.TrimSpace(s))
}

// IsEmpty reports whether the timecode is missing.
func (t Timecode) IsEmpty() bool {
	return t == ""
}

func (t Timecode) String() string {
	return string(t)
}

// Job is one row of the job table. It is immutable once parsed.
type Job struct {
	Row        int
	SourceURL  string
	Start      Timecode
	End        Timecode
	OutputName string // optional; defaults to the resolved video ID
	Format     Format
}

// NewJob builds a Job from the raw cell values of one CSV row. rowFormat may
// be empty, in which case defaultFormat applies. The row number is 1-based
// and counts data rows, matching user-facing log output.
func NewJob(row int, url, start, end, output, rowFormat string, defaultFormat Format) (Job, error) {
	j := Job{
		Row:        row,
		SourceURL:  strings.TrimSpace(url),
		Start:      NewTimecode(start),
		End:        NewTimecode(end),
		OutputName: strings.TrimSpace(output),
	}

	if err := j.validate(); err != nil {
		return Job{}, err
	}

	f := strings.TrimSpace(rowFormat)
	if f == "" {
		j.Format = defaultFormat
	} else {
		parsed, err := ParseFormat(f)
		if err != nil {
			return Job{}, fmt.Errorf("%w: row %d: %v", ErrValidation, row, err)
		}
		j.Format = parsed
	}

	return j, nil
}

func (j Job) validate() error {
	var missing []string
	if j.SourceURL == "" {
		missing = append(missing, "url")
	}
	if j.Start.IsEmpty() {
		missing = append(missing, "start")
	}
	if j.End.IsEmpty() {
		missing = append(missing, "end")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: row %d missing %s", ErrValidation, j.Row, strings.Join(missing, "/"))
	}
	return nil
}
