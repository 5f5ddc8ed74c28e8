package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/L3GJ0N/audio-snippet-automation/domain/snippet"
	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/logging"
)

// Fakes for every pipeline port. They do no I/O beyond what a test asks for.

type fakeResolver struct {
	ids   map[string]string
	fail  map[string]error
	calls int
}

func (r *fakeResolver) Resolve(ctx context.Context, url string) (string, error) {
	r.calls++
	if err := r.fail[url]; err != nil {
		return "", err
	}
	if id, ok := r.ids[url]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: unknown url %s", snippet.ErrResolution, url)
}

type fakeFetcher struct {
	fail  map[string]error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url, id, destDir string) (string, error) {
	f.calls++
	if err := f.fail[url]; err != nil {
		return "", err
	}
	return filepath.Join(destDir, id+".m4a"), nil
}

type memCache struct {
	entries map[string]string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]string{}}
}

func (c *memCache) Get(id string) (string, bool) {
	p, ok := c.entries[id]
	return p, ok
}

func (c *memCache) Put(id, path string) error {
	c.entries[id] = path
	return nil
}

type fakeTrimmer struct {
	fail  error
	calls int
}

func (t *fakeTrimmer) Trim(ctx context.Context, in, final string, start, end snippet.Timecode, mode snippet.TrimMode) (string, error) {
	t.calls++
	if t.fail != nil {
		return "", t.fail
	}
	return final + ".cut.m4a", nil
}

type fakeConverter struct {
	fail    error
	formats []snippet.Format
}

func (c *fakeConverter) Convert(ctx context.Context, temp, final string, format snippet.Format) error {
	c.formats = append(c.formats, format)
	return c.fail
}

type fixture struct {
	resolver  *fakeResolver
	fetcher   *fakeFetcher
	cache     *memCache
	trimmer   *fakeTrimmer
	converter *fakeConverter
	out       *bytes.Buffer
}

func newFixture(t *testing.T, opts Options) (*Service, *fixture) {
	t.Helper()
	f := &fixture{
		resolver: &fakeResolver{
			ids: map[string]string{
				"https://youtu.be/a": "aaa111",
				"https://youtu.be/b": "bbb222",
			},
			fail: map[string]error{},
		},
		fetcher:   &fakeFetcher{fail: map[string]error{}},
		cache:     newMemCache(),
		trimmer:   &fakeTrimmer{},
		converter: &fakeConverter{},
		out:       &bytes.Buffer{},
	}
	if opts.OutputDir == "" {
		opts.OutputDir = t.TempDir()
	}
	log := logging.NewWithWriters(f.out, f.out)
	return NewService(f.resolver, f.fetcher, f.cache, f.trimmer, f.converter, log, opts), f
}

func writeCSV(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.csv")
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunProducesArtifactsAndSkipsIncompleteRows(t *testing.T) {
	service, f := newFixture(t, Options{})
	csvPath := writeCSV(t,
		"url,start,end,output,format",
		"https://youtu.be/a,00:00:05,00:00:12,rick-intro,m4a",
		"https://youtu.be/b,5,,missing-end,mp3",
		"https://youtu.be/b,5,12,,mp3",
	)

	summary, err := service.Run(context.Background(), csvPath)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(summary.Artifacts) != 2 {
		t.Fatalf("artifacts = %d, want 2", len(summary.Artifacts))
	}
	completed, skipped, failed := summary.Counts()
	if completed != 2 || skipped != 1 || failed != 0 {
		t.Errorf("counts = %d/%d/%d, want 2 completed, 1 skipped, 0 failed", completed, skipped, failed)
	}
	if !strings.Contains(f.out.String(), "[WARN]") {
		t.Error("skipped row should log a warning")
	}

	// Output naming: explicit name for row 1, video ID default for row 3.
	if got := filepath.Base(summary.Artifacts[0].Path); got != "rick-intro.m4a" {
		t.Errorf("artifact 0 = %q", got)
	}
	if got := filepath.Base(summary.Artifacts[1].Path); got != "bbb222.mp3" {
		t.Errorf("artifact 1 = %q, want video-ID-named bbb222.mp3", got)
	}
	if summary.Artifacts[0].Label != "Rick Intro" {
		t.Errorf("label = %q", summary.Artifacts[0].Label)
	}
}

func TestRunCacheHitSkipsFetch(t *testing.T) {
	service, f := newFixture(t, Options{})
	f.cache.entries["aaa111"] = "/cache/aaa111.m4a"

	csvPath := writeCSV(t,
		"url,start,end",
		"https://youtu.be/a,5,12",
	)

	summary, err := service.Run(context.Background(), csvPath)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.fetcher.calls != 0 {
		t.Errorf("cache hit must not fetch, got %d calls", f.fetcher.calls)
	}
	if len(summary.Artifacts) != 1 {
		t.Fatalf("artifacts = %d", len(summary.Artifacts))
	}
	if summary.Results[0].Stage != StageCompleted {
		t.Errorf("stage = %s", summary.Results[0].Stage)
	}
}

func TestRunCacheMissFetchesOnceThenReuses(t *testing.T) {
	service, f := newFixture(t, Options{})
	csvPath := writeCSV(t,
		"url,start,end,output",
		"https://youtu.be/a,5,12,first",
		"https://youtu.be/a,20,30,second",
	)

	if _, err := service.Run(context.Background(), csvPath); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.fetcher.calls != 1 {
		t.Errorf("identical source should fetch exactly once, got %d", f.fetcher.calls)
	}
}

func TestRunJobFailureDoesNotAbortBatch(t *testing.T) {
	service, f := newFixture(t, Options{})
	f.fetcher.fail["https://youtu.be/a"] = fmt.Errorf("%w: auth failed", snippet.ErrFetch)

	csvPath := writeCSV(t,
		"url,start,end",
		"https://youtu.be/a,5,12",
		"https://youtu.be/b,5,12",
	)

	summary, err := service.Run(context.Background(), csvPath)
	if err != nil {
		t.Fatalf("per-job failure must not fail the run: %v", err)
	}

	completed, _, failed := summary.Counts()
	if completed != 1 || failed != 1 {
		t.Errorf("counts = %d completed, %d failed; want 1/1", completed, failed)
	}
	if !errors.Is(summary.Results[0].Err, snippet.ErrFetch) {
		t.Errorf("result error = %v", summary.Results[0].Err)
	}
	if summary.Results[0].Stage != StageResolved {
		t.Errorf("failed job should freeze at resolved stage, got %s", summary.Results[0].Stage)
	}
	if !strings.Contains(f.out.String(), "row 1") {
		t.Error("failure should be attributed to its row number")
	}
}

func TestRunTrimAndConvertFailuresAreIsolated(t *testing.T) {
	service, f := newFixture(t, Options{})
	f.trimmer.fail = fmt.Errorf("%w: bad range", snippet.ErrTrim)

	csvPath := writeCSV(t,
		"url,start,end",
		"https://youtu.be/a,5,12",
	)

	summary, err := service.Run(context.Background(), csvPath)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !errors.Is(summary.Results[0].Err, snippet.ErrTrim) {
		t.Errorf("err = %v", summary.Results[0].Err)
	}
	if len(f.converter.formats) != 0 {
		t.Error("convert must not run after a trim failure")
	}
}

func TestRunForceWAVOverridesRowFormat(t *testing.T) {
	service, f := newFixture(t, Options{ForceWAV: true})
	csvPath := writeCSV(t,
		"url,start,end,output,format",
		"https://youtu.be/a,5,12,clip,mp3",
	)

	summary, err := service.Run(context.Background(), csvPath)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.converter.formats) != 1 || f.converter.formats[0] != snippet.FormatWAV {
		t.Errorf("formats = %v, want forced wav", f.converter.formats)
	}
	if got := filepath.Base(summary.Artifacts[0].Path); got != "clip.wav" {
		t.Errorf("artifact = %q", got)
	}
}

func TestRunMissingRequiredColumnsIsConfigurationError(t *testing.T) {
	service, _ := newFixture(t, Options{})
	csvPath := writeCSV(t,
		"url,begin,end",
		"https://youtu.be/a,5,12",
	)

	_, err := service.Run(context.Background(), csvPath)
	if !errors.Is(err, snippet.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestRunUnreadableTableIsConfigurationError(t *testing.T) {
	service, _ := newFixture(t, Options{})
	_, err := service.Run(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, snippet.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestRunInterruptStopsBetweenJobs(t *testing.T) {
	service, f := newFixture(t, Options{})
	csvPath := writeCSV(t,
		"url,start,end",
		"https://youtu.be/a,5,12",
		"https://youtu.be/b,5,12",
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := service.Run(ctx, csvPath)
	if !errors.Is(err, snippet.ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}
	if len(summary.Results) != 0 {
		t.Errorf("pre-cancelled context should process no rows, got %d", len(summary.Results))
	}
	if f.resolver.calls != 0 {
		t.Errorf("no job should start after cancellation, got %d resolves", f.resolver.calls)
	}
}
