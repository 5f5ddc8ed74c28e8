package snippet

import "errors"

var (
	// ErrValidation is returned when a job row is missing required fields
	ErrValidation = errors.New("invalid job row")

	// ErrResolution is returned when a source URL cannot be resolved to a video ID
	ErrResolution = errors.New("failed to resolve video ID")

	// ErrFetch is returned when the full-length audio cannot be downloaded
	ErrFetch = errors.New("failed to download audio")

	// ErrTrim is returned when ffmpeg fails to cut the requested range
	ErrTrim = errors.New("failed to trim audio")

	// ErrConvert is returned when the final format conversion fails or the
	// target format is not supported
	ErrConvert = errors.New("failed to convert audio")

	// ErrConfiguration is returned for fatal setup problems: unreadable job
	// table, missing required columns, missing yt-dlp or ffmpeg
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInterrupted is returned when the operator cancels the batch
	ErrInterrupted = errors.New("interrupted")
)
