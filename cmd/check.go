package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/L3GJ0N/audio-snippet-automation/domain/snippet"
	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/logging"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify external tools and directories",
	Long: `Verify that yt-dlp and ffmpeg are on PATH and that the configured
output and cache directories are writable.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := logging.New()
	cfg := GetConfig()

	ok := true
	ok = checkBinary(log, "yt-dlp") && ok
	ok = checkBinary(log, "ffmpeg") && ok
	ok = checkDir(log, "output", cfg.Paths.OutputDirectory) && ok
	ok = checkDir(log, "cache", cfg.Paths.CacheDirectory) && ok

	if !ok {
		return fmt.Errorf("%w: one or more checks failed", snippet.ErrConfiguration)
	}
	log.OK("all checks passed")
	return nil
}

func checkBinary(log *logging.Logger, name string) bool {
	path, err := exec.LookPath(name)
	if err != nil {
		log.Error("dependency %s: not found on PATH", name)
		return false
	}
	log.Info("dependency %s: %s", name, path)
	return true
}

func checkDir(log *logging.Logger, label, dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Error("%s directory %s: %v", label, dir, err)
		return false
	}
	probe, err := os.CreateTemp(dir, ".asa-check-*")
	if err != nil {
		log.Error("%s directory %s: not writable (%v)", label, dir, err)
		return false
	}
	probe.Close()
	os.Remove(probe.Name())
	log.Info("%s directory %s: writable", label, dir)
	return true
}
