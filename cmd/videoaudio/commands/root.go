package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/noliv3/videoaudio/cmd/videoaudio/internal/config"
	"github.com/noliv3/videoaudio/pkg/cli"
)

var (
	// Global flags
	verbose      bool
	formatOutput string
)

var rootCmd = &cobra.Command{
	Use:   "videoaudio",
	Short: "Lip-sync video frames to audio with external engines",
	Long: `videoaudio - normalize frames and audio, run a lip-sync engine and
write the resulting frames.

Engines are external commands described in a provider registry. When the
engine is unavailable or fails, the input frames are written unchanged.

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/videoaudio/
  Linux:   ~/.config/videoaudio/
  Windows: %AppData%/videoaudio/
Set VIDEOAUDIO_CONFIG_DIR to use another directory.

Examples:
  # Create config.yaml and an example providers.yaml
  videoaudio config init

  # Check which engines can run
  videoaudio engines

  # Lip-sync a frame directory
  videoaudio run --frames in/ --audio voice.wav --out out/`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&formatOutput, "format", "", "output format (yaml, json)")
}

func setupLogging(cmd *cobra.Command) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})))
}

// loadConfig loads the configuration from the default location.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config not available: %w", err)
	}
	return cfg, nil
}

// output writes result in the --format format. Without --format, human is
// called instead when it is non-nil.
func output(cmd *cobra.Command, result any, human func() error) error {
	if formatOutput == "" && human != nil {
		return human()
	}
	format, err := cli.ParseFormat(formatOutput)
	if err != nil {
		return err
	}
	return cli.Output(cmd.OutOrStdout(), result, format)
}

func styles() cli.Styles {
	return cli.NewStyles(cli.DefaultTheme)
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}
