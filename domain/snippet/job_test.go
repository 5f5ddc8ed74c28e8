package snippet

import (
	"errors"
	"testing"
)

func TestNewJob(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		start      string
		end        string
		output     string
		format     string
		wantFormat Format
		wantErr    bool
	}{
		{
			name:       "valid row with defaults",
			url:        "https://youtu.be/dQw4w9WgXcQ",
			start:      "00:00:05",
			end:        "00:00:12",
			wantFormat: FormatM4A,
		},
		{
			name:       "row format overrides default",
			url:        "https://youtu.be/dQw4w9WgXcQ",
			start:      "5",
			end:        "12",
			format:     "mp3",
			wantFormat: FormatMP3,
		},
		{
			name:       "format is case-insensitive",
			url:        "https://youtu.be/dQw4w9WgXcQ",
			start:      "5",
			end:        "12",
			format:     "WAV",
			wantFormat: FormatWAV,
		},
		{
			name:    "missing url",
			start:   "5",
			end:     "12",
			wantErr: true,
		},
		{
			name:    "missing start",
			url:     "https://youtu.be/dQw4w9WgXcQ",
			end:     "12",
			wantErr: true,
		},
		{
			name:    "missing end",
			url:     "https://youtu.be/dQw4w9WgXcQ",
			start:   "5",
			wantErr: true,
		},
		{
			name:    "whitespace-only start is missing",
			url:     "https://youtu.be/dQw4w9WgXcQ",
			start:   "   ",
			end:     "12",
			wantErr: true,
		},
		{
			name:    "unknown row format",
			url:     "https://youtu.be/dQw4w9WgXcQ",
			start:   "5",
			end:     "12",
			format:  "flac",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := NewJob(1, tt.url, tt.start, tt.end, tt.output, tt.format, FormatM4A)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if job.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", job.Format, tt.wantFormat)
			}
		})
	}
}

func TestTimecodePassthrough(t *testing.T) {
	// Timecodes are not normalized: both spellings go to ffmpeg verbatim.
	tests := []struct {
		input string
		want  string
	}{
		{"90.5", "90.5"},
		{"00:01:30.250", "00:01:30.250"},
		{"  00:00:05 ", "00:00:05"},
		{"5", "5"},
	}

	for _, tt := range tests {
		if got := NewTimecode(tt.input).String(); got != tt.want {
			t.Errorf("NewTimecode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if _, err := ParseFormat("ogg"); !errors.Is(err, ErrConvert) {
		t.Errorf("expected ErrConvert for unsupported format, got %v", err)
	}
	if f, err := ParseFormat(" M4A "); err != nil || f != FormatM4A {
		t.Errorf("ParseFormat(\" M4A \") = %q, %v", f, err)
	}
}
