package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	appbatch "github.com/L3GJ0N/audio-snippet-automation/application/batch"
	appsb "github.com/L3GJ0N/audio-snippet-automation/application/soundboard"
	"github.com/L3GJ0N/audio-snippet-automation/domain/snippet"
	"github.com/L3GJ0N/audio-snippet-automation/domain/soundboard"
	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/cache"
	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/ffmpeg"
	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/logging"
	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/ytdlp"

	"github.com/spf13/cobra"
)

var (
	batchCSVPath         string
	batchFormat          string
	batchPrecise         bool
	batchOutDir          string
	batchCacheDir        string
	batchCookieFile      string
	batchCookieBrowser   string
	batchSoundboardReady bool
	batchSoundboardPath  string
	batchRows            int
	batchCols            int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process a CSV job table into trimmed audio snippets",
	Long: `Process a CSV job table into trimmed audio snippets.

The table needs a header row with columns url,start,end plus optional
output and format. Timecodes are either seconds (90.5) or HH:MM:SS with an
optional fraction. A row missing url, start, or end is skipped; a row whose
download or cut fails is reported and the batch continues.

Example:
  asa batch --csv snippets.csv
  asa batch --csv snippets.csv --precise --format wav --soundboard-ready`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVar(&batchCSVPath, "csv", "", "Path to CSV file with jobs (required)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "Default output format: m4a, mp3, or wav")
	batchCmd.Flags().BoolVar(&batchPrecise, "precise", false, "Re-encode for frame-accurate cuts (slower)")
	batchCmd.Flags().StringVar(&batchOutDir, "outdir", "", "Snippet output directory")
	batchCmd.Flags().StringVar(&batchCacheDir, "tempdir", "", "Download cache directory")
	batchCmd.Flags().StringVar(&batchCookieFile, "cookies", "", "Path to cookies.txt for age-restricted videos")
	batchCmd.Flags().StringVar(&batchCookieBrowser, "cookies-from-browser", "", "Browser to extract cookies from (chrome, firefox, ...)")
	batchCmd.Flags().BoolVar(&batchSoundboardReady, "soundboard-ready", false, "Force WAV output and write a soundboard config")
	batchCmd.Flags().StringVar(&batchSoundboardPath, "generate-soundboard-config", "", "Write a soundboard config for the produced snippets to this path")
	batchCmd.Flags().IntVar(&batchRows, "rows", 0, "Fixed soundboard grid rows (default: computed)")
	batchCmd.Flags().IntVar(&batchCols, "cols", 0, "Fixed soundboard grid cols (default: computed)")
	batchCmd.MarkFlagRequired("csv")
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := logging.New()
	cfg := GetConfig()

	outDir := fallback(batchOutDir, cfg.Paths.OutputDirectory)
	cacheDir := fallback(batchCacheDir, cfg.Paths.CacheDirectory)
	precise := batchPrecise || cfg.Output.Precise
	cookieFile := fallback(batchCookieFile, cfg.Cookies.File)
	cookieBrowser := fallback(batchCookieBrowser, cfg.Cookies.Browser)

	format, err := snippet.ParseFormat(fallback(batchFormat, cfg.Output.Format))
	if err != nil {
		return fmt.Errorf("%w: %v", snippet.ErrConfiguration, err)
	}

	fixed := soundboard.Layout{Rows: batchRows, Cols: batchCols}
	if fixed.Rows == 0 && fixed.Cols == 0 {
		fixed = soundboard.Layout{Rows: cfg.Soundboard.Rows, Cols: cfg.Soundboard.Cols}
	}
	if (fixed.Rows == 0) != (fixed.Cols == 0) {
		return fmt.Errorf("%w: fixed grid needs both --rows and --cols", snippet.ErrConfiguration)
	}

	mode := snippet.TrimFast
	if precise {
		mode = snippet.TrimPrecise
	}

	credential := snippet.NewCredential(cookieFile, cookieBrowser)
	client := ytdlp.NewClient(credential, ytdlp.WithLogger(log))
	trimmer := ffmpeg.NewTrimmer(ffmpeg.WithCommandEcho(log))
	converter := ffmpeg.NewConverter(ffmpeg.WithConverterCommandEcho(log))

	// Missing external tools are structural: fail before any row runs.
	verifyCtx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	if err := client.VerifyInstalled(verifyCtx); err != nil {
		return err
	}
	if err := trimmer.VerifyInstalled(verifyCtx); err != nil {
		return err
	}

	store, err := cache.NewStore(cacheDir)
	if err != nil {
		return fmt.Errorf("%w: %v", snippet.ErrConfiguration, err)
	}

	service := appbatch.NewService(client, client, store, trimmer, converter, log, appbatch.Options{
		OutputDir:     outDir,
		DefaultFormat: format,
		Mode:          mode,
		ForceWAV:      batchSoundboardReady,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return RunBatchWithDependencies(ctx, service, log, BatchOptions{
		CSVPath:         batchCSVPath,
		OutputDir:       outDir,
		FixedLayout:     fixed,
		SoundboardReady: batchSoundboardReady,
		SoundboardPath:  batchSoundboardPath,
	})
}

// BatchOptions carries the post-pipeline wiring of the batch command.
type BatchOptions struct {
	CSVPath         string
	OutputDir       string
	FixedLayout     soundboard.Layout
	SoundboardReady bool
	SoundboardPath  string
}

// RunBatchWithDependencies runs the batch command with an injected service
// (for testing).
func RunBatchWithDependencies(ctx context.Context, service *appbatch.Service, log *logging.Logger, opts BatchOptions) error {
	summary, err := service.Run(ctx, opts.CSVPath)
	if err != nil {
		return err
	}

	wantConfig := opts.SoundboardReady || opts.SoundboardPath != ""
	if !wantConfig || len(summary.Artifacts) == 0 {
		return nil
	}

	doc := appsb.FromArtifacts(summary.Artifacts, opts.FixedLayout, log)
	path := opts.SoundboardPath
	if path == "" {
		path = filepath.Join(opts.OutputDir, "soundboard.json")
	}
	if err := doc.Save(path); err != nil {
		return err
	}
	log.Info("generated soundboard config: %s (%dx%d, %d buttons)",
		path, doc.Layout.Rows, doc.Layout.Cols, len(doc.Buttons))
	if opts.SoundboardReady {
		log.Info("soundboard ready! launch with: asa soundboard serve --config %s", path)
	}
	return nil
}

// fallback returns the flag value, or the config-file value when the flag
// was left empty.
func fallback(flagValue, cfgValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return cfgValue
}
