package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/L3GJ0N/audio-snippet-automation/domain/snippet"
	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "asa",
	Short: "Batch-extract trimmed audio snippets from YouTube and build soundboards",
	Long: `asa cuts precisely trimmed audio snippets out of remote videos listed
in a CSV job table, and can arrange the results into a button-grid
soundboard served in the browser:

  - Resolve and download each video's audio once (cached across runs)
  - Cut a start/end range per row, fast (stream copy) or precise (re-encode)
  - Convert to m4a, mp3, or wav
  - Generate and serve a grid soundboard from the snippets

Example:
  asa batch --csv snippets.csv --format mp3 --precise`,
}

// Execute runs the root command and maps error kinds to process exit codes:
// 0 on success (per-row failures included), 130 on operator interrupt, 1 for
// everything fatal.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, snippet.ErrInterrupted) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		// The config file is optional; flags carry defaults for every value.
		cfg = config.Default()
		return
	}
	cfg = loaded
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}
