package cmd

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	appsb "github.com/L3GJ0N/audio-snippet-automation/application/soundboard"
	"github.com/L3GJ0N/audio-snippet-automation/domain/snippet"
	"github.com/L3GJ0N/audio-snippet-automation/domain/soundboard"
	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/logging"
	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/web"

	"github.com/spf13/cobra"
)

var soundboardCmd = &cobra.Command{
	Use:   "soundboard",
	Short: "Generate and serve button-grid soundboards",
}

var (
	generateOutput   string
	generateAbsolute bool
	generateExts     []string
	generatePreview  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <audio-folder>",
	Short: "Build a soundboard config from a folder of audio files",
	Long: `Build a soundboard config from a folder of audio files.

Files are arranged name-sorted into a computed grid that is square or
slightly taller than wide. Button labels come from the file names.

Example:
  asa soundboard generate ./snippets
  asa soundboard generate ./snippets -o board.json --absolute-paths --preview`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

var (
	serveConfigPath string
	serveHost       string
	servePort       int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the soundboard player page for a config",
	Long: `Serve the soundboard player page for a config.

The page renders the grid, plays and stops each button's snippet, and has a
stop-all control. Playback happens in the browser; the server only provides
the config document and the audio files.

Example:
  asa soundboard serve --config snippets/soundboard.json`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(soundboardCmd)
	soundboardCmd.AddCommand(generateCmd)
	soundboardCmd.AddCommand(serveCmd)

	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output JSON path (default: soundboard.json in the folder)")
	generateCmd.Flags().BoolVar(&generateAbsolute, "absolute-paths", false, "Write absolute instead of relative file paths")
	generateCmd.Flags().StringSliceVarP(&generateExts, "extensions", "e", nil, "Additional file extensions to include (e.g. -e .aac)")
	generateCmd.Flags().BoolVarP(&generatePreview, "preview", "p", false, "Print the config instead of writing it")

	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to soundboard config JSON (required)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind the web server")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port for the web server")
	serveCmd.MarkFlagRequired("config")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := logging.New()
	folder := args[0]

	doc, err := appsb.FromFolder(folder, appsb.FolderOptions{
		ExtraExtensions: generateExts,
		AbsolutePaths:   generateAbsolute,
	}, log)
	if err != nil {
		return err
	}

	if generatePreview {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	output := generateOutput
	if output == "" {
		output = filepath.Join(folder, "soundboard.json")
	}
	if err := doc.Save(output); err != nil {
		return err
	}
	log.Info("soundboard configuration saved to %s", output)
	log.Info("serve it with: asa soundboard serve --config %s", output)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.New()
	cfg := GetConfig()

	host := fallback(serveHost, cfg.Server.Host)
	port := servePort
	if port == 0 {
		port = cfg.Server.Port
	}

	doc, err := soundboard.LoadConfig(serveConfigPath)
	if err != nil {
		return fmt.Errorf("%w: %v", snippet.ErrConfiguration, err)
	}
	if err := doc.CheckFiles(); err != nil {
		return fmt.Errorf("%w: %v", snippet.ErrConfiguration, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return web.NewServer(doc, log).ListenAndServe(ctx, host, port)
}
