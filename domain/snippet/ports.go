package snippet

import "context"

// Resolver resolves a source URL to the platform's stable video ID.
// This is a port that can be implemented by different infrastructure adapters
type Resolver interface {
	// Resolve returns the video ID for the given source URL
	Resolve(ctx context.Context, sourceURL string) (string, error)
}

// Fetcher downloads the full-length audio for a source URL into destDir.
type Fetcher interface {
	// Fetch materializes the audio file and returns its path
	Fetch(ctx context.Context, sourceURL, videoID, destDir string) (string, error)
}

// TrimMode selects the accuracy/speed tradeoff for cutting.
type TrimMode int

const (
	// TrimFast stream-copies the source codec. Boundaries land on the
	// container's keyframe/packet granularity; this imprecision is
	// caller-visible and documented, not a bug.
	TrimFast TrimMode = iota
	// TrimPrecise re-encodes the audio stream for frame-accurate boundaries.
	// Strictly slower.
	TrimPrecise
)

func (m TrimMode) String() string {
	if m == TrimPrecise {
		return "precise"
	}
	return "fast"
}

// Trimmer cuts a time range out of a downloaded audio file.
type Trimmer interface {
	// Trim writes the cut range to a temporary intermediate file placed
	// next to finalPath and returns the intermediate's path
	Trim(ctx context.Context, inputPath, finalPath string, start, end Timecode, mode TrimMode) (string, error)
}

// Converter turns the trim intermediate into the final output format.
type Converter interface {
	// Convert produces finalPath in the target format and removes the
	// intermediate. When the target equals the intermediate format the file
	// is promoted by rename instead of re-encoded.
	Convert(ctx context.Context, tempPath, finalPath string, format Format) error
}

// CacheStore maps a video ID to the locally downloaded full-length audio.
// Explicit as an interface so tests can swap an in-memory implementation
// without touching the orchestrator.
type CacheStore interface {
	// Get returns the cached path for the ID, or ok=false on a miss
	Get(videoID string) (path string, ok bool)
	// Put registers a downloaded file under the ID
	Put(videoID, path string) error
}
