// Package batch orchestrates the job table: each row runs its full
// resolve -> cache/fetch -> trim -> convert sequence before the next row
// starts. A row's failure never aborts the batch; only a structural problem
// with the table or an operator interrupt does.
package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/L3GJ0N/audio-snippet-automation/domain/snippet"
	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/logging"
)

// Stage is how far a job got. Jobs advance Parsed -> Validated -> Resolved
// -> Cached|Fetched -> Trimmed -> Converted -> Completed; a failure freezes
// the stage it happened in.
type Stage string

const (
	StageParsed    Stage = "parsed"
	StageValidated Stage = "validated"
	StageResolved  Stage = "resolved"
	StageCached    Stage = "cached"
	StageFetched   Stage = "fetched"
	StageTrimmed   Stage = "trimmed"
	StageConverted Stage = "converted"
	StageCompleted Stage = "completed"
)

// JobResult is the per-row outcome. Failures are values here, not escaping
// errors, so the batch loop cannot be broken by one bad row.
type JobResult struct {
	Row      int
	Job      snippet.Job
	Stage    Stage
	Skipped  bool
	Err      error
	Artifact *snippet.ClipArtifact
}

// Completed reports whether the row produced an artifact.
func (r JobResult) Completed() bool {
	return r.Stage == StageCompleted && r.Err == nil
}

// Summary aggregates a batch run.
type Summary struct {
	Results   []JobResult
	Artifacts []snippet.ClipArtifact
}

// Counts returns completed, skipped and failed row totals.
func (s *Summary) Counts() (completed, skipped, failed int) {
	for _, r := range s.Results {
		switch {
		case r.Completed():
			completed++
		case r.Skipped:
			skipped++
		default:
			failed++
		}
	}
	return
}

// Options carries the run-level configuration of a batch.
type Options struct {
	OutputDir     string
	DefaultFormat snippet.Format
	Mode          snippet.TrimMode
	// ForceWAV overrides every job's format, row values included; used by
	// soundboard-ready runs because the playback page wants WAV.
	ForceWAV bool
}

// Service coordinates the snippet pipeline ports over a job table.
type Service struct {
	resolver  snippet.Resolver
	fetcher   snippet.Fetcher
	cache     snippet.CacheStore
	trimmer   snippet.Trimmer
	converter snippet.Converter
	log       *logging.Logger
	opts      Options
}

// NewService creates a new batch Service with injected ports.
func NewService(
	resolver snippet.Resolver,
	fetcher snippet.Fetcher,
	cache snippet.CacheStore,
	trimmer snippet.Trimmer,
	converter snippet.Converter,
	log *logging.Logger,
	opts Options,
) *Service {
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = snippet.FormatM4A
	}
	return &Service{
		resolver:  resolver,
		fetcher:   fetcher,
		cache:     cache,
		trimmer:   trimmer,
		converter: converter,
		log:       log,
		opts:      opts,
	}
}

// Run processes the job table at csvPath. The returned error is non-nil only
// for structural failures (unreadable table, missing columns) or an operator
// interrupt; per-row failures live in the Summary.
func (s *Service) Run(ctx context.Context, csvPath string) (*Summary, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read job table %s: %v", snippet.ErrConfiguration, csvPath, err)
	}
	defer f.Close()

	if err := os.MkdirAll(s.opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: cannot create output directory %s: %v", snippet.ErrConfiguration, s.opts.OutputDir, err)
	}

	return s.run(ctx, csv.NewReader(f))
}

// column indices of the job table; -1 when the optional column is absent.
type columns struct {
	url, start, end, output, format int
}

func readHeader(r *csv.Reader) (columns, error) {
	header, err := r.Read()
	if err != nil {
		return columns{}, fmt.Errorf("%w: job table has no header row: %v", snippet.ErrConfiguration, err)
	}

	cols := columns{url: -1, start: -1, end: -1, output: -1, format: -1}
	for i, name := range header {
		switch name {
		case "url":
			cols.url = i
		case "start":
			cols.start = i
		case "end":
			cols.end = i
		case "output":
			cols.output = i
		case "format":
			cols.format = i
		}
	}

	if cols.url < 0 || cols.start < 0 || cols.end < 0 {
		return columns{}, fmt.Errorf("%w: job table must include columns url, start, end (plus optional output, format)", snippet.ErrConfiguration)
	}
	return cols, nil
}

func (s *Service) run(ctx context.Context, r *csv.Reader) (*Summary, error) {
	r.FieldsPerRecord = -1

	cols, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	for row := 1; ; row++ {
		if ctx.Err() != nil {
			s.log.Warn("interrupted; %d row(s) already completed are kept", len(summary.Artifacts))
			return summary, fmt.Errorf("%w: batch cancelled before row %d", snippet.ErrInterrupted, row)
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed row, not a malformed table: skip and continue.
			s.log.Warn("row %d: unreadable (%v), skipping", row, err)
			summary.Results = append(summary.Results, JobResult{Row: row, Stage: StageParsed, Skipped: true, Err: err})
			continue
		}

		result := s.processRow(ctx, row, record, cols)
		summary.Results = append(summary.Results, result)
		if result.Completed() {
			summary.Artifacts = append(summary.Artifacts, *result.Artifact)
		}
	}

	completed, skipped, failed := summary.Counts()
	s.log.Info("all jobs processed: %d completed, %d skipped, %d failed", completed, skipped, failed)
	return summary, nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

func (s *Service) processRow(ctx context.Context, row int, record []string, cols columns) JobResult {
	job, err := snippet.NewJob(
		row,
		cell(record, cols.url),
		cell(record, cols.start),
		cell(record, cols.end),
		cell(record, cols.output),
		cell(record, cols.format),
		s.opts.DefaultFormat,
	)
	if err != nil {
		s.log.Warn("row %d: %v, skipping", row, err)
		return JobResult{Row: row, Stage: StageParsed, Skipped: true, Err: err}
	}

	if s.opts.ForceWAV {
		job.Format = snippet.FormatWAV
	}

	result := s.processJob(ctx, job)
	if result.Err != nil {
		s.log.Error("row %d: %v", row, result.Err)
	}
	return result
}

// processJob drives one job through the pipeline. All declared per-job error
// kinds are returned inside the JobResult, attributed to the stage reached.
func (s *Service) processJob(ctx context.Context, job snippet.Job) JobResult {
	result := JobResult{Row: job.Row, Job: job, Stage: StageValidated}

	videoID, err := s.resolver.Resolve(ctx, job.SourceURL)
	if err != nil {
		result.Err = err
		return result
	}
	result.Stage = StageResolved

	srcPath, ok := s.cache.Get(videoID)
	if ok {
		s.log.Info("using cached: %s", srcPath)
		result.Stage = StageCached
	} else {
		fetched, err := s.fetcher.Fetch(ctx, job.SourceURL, videoID, s.cacheDir())
		if err != nil {
			result.Err = err
			return result
		}
		if err := s.cache.Put(videoID, fetched); err != nil {
			result.Err = fmt.Errorf("%w: %v", snippet.ErrFetch, err)
			return result
		}
		srcPath, _ = s.cache.Get(videoID)
		if srcPath == "" {
			srcPath = fetched
		}
		result.Stage = StageFetched
	}

	name := job.OutputName
	if name == "" {
		name = videoID
	}
	finalPath := filepath.Join(s.opts.OutputDir, name+"."+string(job.Format))
	s.log.Info("processing: %s -> %s", job.SourceURL, finalPath)

	tempPath, err := s.trimmer.Trim(ctx, srcPath, finalPath, job.Start, job.End, s.opts.Mode)
	if err != nil {
		result.Err = err
		return result
	}
	result.Stage = StageTrimmed

	if err := s.converter.Convert(ctx, tempPath, finalPath, job.Format); err != nil {
		result.Err = err
		return result
	}
	result.Stage = StageConverted

	artifact := snippet.NewClipArtifact(finalPath, name)
	result.Artifact = &artifact
	result.Stage = StageCompleted
	s.log.OK("wrote %s", finalPath)
	return result
}

// cacheDir asks the store where downloads belong; falls back to the output
// directory for stores that do not expose one (in-memory test doubles).
func (s *Service) cacheDir() string {
	if d, ok := s.cache.(interface{ Dir() string }); ok {
		return d.Dir()
	}
	return s.opts.OutputDir
}
