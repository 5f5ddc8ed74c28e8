//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appbatch "github.com/L3GJ0N/audio-snippet-automation/application/batch"
	"github.com/L3GJ0N/audio-snippet-automation/cmd"
	"github.com/L3GJ0N/audio-snippet-automation/domain/snippet"
	"github.com/L3GJ0N/audio-snippet-automation/domain/soundboard"
	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/logging"

	"github.com/cucumber/godog"
)

// stubResolver maps known URLs to fixed video IDs.
type stubResolver struct {
	ids map[string]string
}

func (r *stubResolver) Resolve(ctx context.Context, url string) (string, error) {
	if id, ok := r.ids[url]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: unknown url %s", snippet.ErrResolution, url)
}

// stubFetcher counts downloads and can fail per URL.
type stubFetcher struct {
	failURLs map[string]bool
	calls    int
}

func (f *stubFetcher) Fetch(ctx context.Context, url, id, destDir string) (string, error) {
	f.calls++
	if f.failURLs[url] {
		return "", fmt.Errorf("%w: download failed for %s", snippet.ErrFetch, url)
	}
	path := filepath.Join(destDir, id+".m4a")
	if err := os.WriteFile(path, []byte("source audio"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

type stubCache struct {
	entries map[string]string
}

func (c *stubCache) Get(id string) (string, bool) {
	p, ok := c.entries[id]
	return p, ok
}

func (c *stubCache) Put(id, path string) error {
	c.entries[id] = path
	return nil
}

type stubTrimmer struct{}

func (stubTrimmer) Trim(ctx context.Context, in, final string, start, end snippet.Timecode, mode snippet.TrimMode) (string, error) {
	temp := strings.TrimSuffix(final, filepath.Ext(final)) + ".cut.m4a"
	if err := os.WriteFile(temp, []byte("cut audio"), 0644); err != nil {
		return "", fmt.Errorf("%w: %v", snippet.ErrTrim, err)
	}
	return temp, nil
}

// stubConverter materializes the final file and records the write order.
type stubConverter struct {
	written []string
}

func (c *stubConverter) Convert(ctx context.Context, temp, final string, format snippet.Format) error {
	if err := os.Rename(temp, final); err != nil {
		return fmt.Errorf("%w: %v", snippet.ErrConvert, err)
	}
	c.written = append(c.written, final)
	return nil
}

// batchContext holds test state for batch scenarios
type batchContext struct {
	dir       string
	csvPath   string
	fetcher   *stubFetcher
	converter *stubConverter
	output    *bytes.Buffer
	err       error
}

// SharedBatchContext is reset before each scenario via Before hook
var SharedBatchContext *batchContext

func getBatchContext() *batchContext {
	return SharedBatchContext
}

func InitializeBatchScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "asa-batch-*")
		if err != nil {
			return c, err
		}
		SharedBatchContext = &batchContext{
			dir:       dir,
			fetcher:   &stubFetcher{failURLs: map[string]bool{}},
			converter: &stubConverter{},
			output:    &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedBatchContext != nil {
			os.RemoveAll(SharedBatchContext.dir)
		}
		SharedBatchContext = nil
		return c, nil
	})

	ctx.Step(`^a job table:$`, aJobTable)
	ctx.Step(`^downloads of "([^"]*)" fail$`, downloadsOfFail)
	ctx.Step(`^I run the batch$`, iRunTheBatch)
	ctx.Step(`^I run the batch with soundboard generation$`, iRunTheBatchWithSoundboardGeneration)
	ctx.Step(`^the batch should succeed$`, theBatchShouldSucceed)
	ctx.Step(`^(\d+) snippets? should be written$`, snippetsShouldBeWritten)
	ctx.Step(`^snippet (\d+) should be named "([^"]*)"$`, snippetShouldBeNamed)
	ctx.Step(`^the output should mention a skipped row$`, theOutputShouldMentionASkippedRow)
	ctx.Step(`^the source should have been downloaded (\d+) times?$`, theSourceShouldHaveBeenDownloadedTimes)
	ctx.Step(`^the output should report a failure for row (\d+)$`, theOutputShouldReportAFailureForRow)
	ctx.Step(`^a soundboard config with (\d+) buttons should exist$`, aSoundboardConfigWithButtonsShouldExist)
}

func aJobTable(table *godog.Table) error {
	b := getBatchContext()

	var lines []string
	for _, row := range table.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, c := range row.Cells {
			cells = append(cells, c.Value)
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	b.csvPath = filepath.Join(b.dir, "jobs.csv")
	return os.WriteFile(b.csvPath, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

func downloadsOfFail(url string) error {
	getBatchContext().fetcher.failURLs[url] = true
	return nil
}

func runBatch(soundboardPath string) error {
	b := getBatchContext()

	log := logging.NewWithWriters(b.output, b.output)
	service := appbatch.NewService(
		&stubResolver{ids: map[string]string{
			"https://youtu.be/a": "aaa111",
			"https://youtu.be/b": "bbb222",
		}},
		b.fetcher,
		&stubCache{entries: map[string]string{}},
		stubTrimmer{},
		b.converter,
		log,
		appbatch.Options{OutputDir: b.dir},
	)

	b.err = cmd.RunBatchWithDependencies(context.Background(), service, log, cmd.BatchOptions{
		CSVPath:        b.csvPath,
		OutputDir:      b.dir,
		SoundboardPath: soundboardPath,
	})
	return nil
}

func iRunTheBatch() error {
	return runBatch("")
}

func iRunTheBatchWithSoundboardGeneration() error {
	b := getBatchContext()
	return runBatch(filepath.Join(b.dir, "soundboard.json"))
}

func theBatchShouldSucceed() error {
	b := getBatchContext()
	if b.err != nil {
		return fmt.Errorf("unexpected error: %v", b.err)
	}
	return nil
}

func snippetsShouldBeWritten(count int) error {
	b := getBatchContext()
	if len(b.converter.written) != count {
		return fmt.Errorf("expected %d snippets, got %d: %v", count, len(b.converter.written), b.converter.written)
	}
	return nil
}

func snippetShouldBeNamed(index int, name string) error {
	b := getBatchContext()
	if index < 1 || index > len(b.converter.written) {
		return fmt.Errorf("no snippet %d, only %d written", index, len(b.converter.written))
	}
	got := filepath.Base(b.converter.written[index-1])
	if got != name {
		return fmt.Errorf("expected snippet %d to be %q, got %q", index, name, got)
	}
	return nil
}

func theOutputShouldMentionASkippedRow() error {
	b := getBatchContext()
	if !strings.Contains(b.output.String(), "skipping") {
		return fmt.Errorf("expected a skipped-row warning in output:\n%s", b.output.String())
	}
	return nil
}

func theSourceShouldHaveBeenDownloadedTimes(count int) error {
	b := getBatchContext()
	if b.fetcher.calls != count {
		return fmt.Errorf("expected %d downloads, got %d", count, b.fetcher.calls)
	}
	return nil
}

func theOutputShouldReportAFailureForRow(row int) error {
	b := getBatchContext()
	if !strings.Contains(b.output.String(), fmt.Sprintf("row %d", row)) {
		return fmt.Errorf("expected a failure report for row %d in output:\n%s", row, b.output.String())
	}
	return nil
}

func aSoundboardConfigWithButtonsShouldExist(count int) error {
	b := getBatchContext()
	cfg, err := soundboard.LoadConfig(filepath.Join(b.dir, "soundboard.json"))
	if err != nil {
		return fmt.Errorf("soundboard config not loadable: %v", err)
	}
	if len(cfg.Buttons) != count {
		return fmt.Errorf("expected %d buttons, got %d", count, len(cfg.Buttons))
	}
	return nil
}
