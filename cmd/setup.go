package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/L3GJ0N/audio-snippet-automation/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command walks through the snippet directories, format defaults,
cookie handling, and soundboard server settings.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, "config/config.yaml")
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to asa setup!")
	fmt.Println()

	cfg := config.Default()

	var err error
	if cfg.Paths.OutputDirectory, err = prompter.Input("Snippet output directory:", cfg.Paths.OutputDirectory); err != nil {
		return err
	}
	if cfg.Paths.CacheDirectory, err = prompter.Input("Download cache directory:", cfg.Paths.CacheDirectory); err != nil {
		return err
	}
	if cfg.Output.Format, err = prompter.Input("Default output format (m4a/mp3/wav):", cfg.Output.Format); err != nil {
		return err
	}
	if cfg.Output.Precise, err = prompter.Confirm("Use precise (re-encoded) cuts by default?", cfg.Output.Precise); err != nil {
		return err
	}
	if cfg.Cookies.Browser, err = prompter.Input("Browser for cookie extraction (empty for none):", cfg.Cookies.Browser); err != nil {
		return err
	}
	if cfg.Cookies.File, err = prompter.Input("Cookie file path (empty for none):", cfg.Cookies.File); err != nil {
		return err
	}
	if cfg.Server.Host, err = prompter.Input("Soundboard server host:", cfg.Server.Host); err != nil {
		return err
	}
	port, err := prompter.Input("Soundboard server port:", strconv.Itoa(cfg.Server.Port))
	if err != nil {
		return err
	}
	if cfg.Server.Port, err = strconv.Atoi(port); err != nil {
		return fmt.Errorf("invalid port %q: %w", port, err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}
