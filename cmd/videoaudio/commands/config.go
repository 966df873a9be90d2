package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noliv3/videoaudio/cmd/videoaudio/internal/config"
	"github.com/noliv3/videoaudio/pkg/cli"
)

// exampleProviders is written by 'config init' when no registry exists.
const exampleProviders = `# Lip-sync providers run by the exec engine.
#
# Templates: {audio} {frames} {out} {model} {batch} {mode}
# Params are appended as --key=value.
providers:
  wav2lip:
    command: python3
    args:
      - inference.py
      - --checkpoint_path
      - "{model}"
      - --face
      - "{frames}"
      - --audio
      - "{audio}"
      - --outfile
      - "{out}"
      - --wav2lip_batch_size
      - "{batch}"
    params:
      nosmooth: true
    frames: png
    no_face_exit_code: 2
`

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `Manage the videoaudio configuration.

Files live in the OS config directory (see 'videoaudio config path'):
  config.yaml      engine selection and run defaults
  providers.yaml   external lip-sync commands`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		format, err := cli.ParseFormat(formatOutput)
		if err != nil {
			return err
		}
		return cli.Output(cmd.OutOrStdout(), cfg, format)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := cli.DefaultPaths()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p.ConfigFile())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config.yaml, providers.yaml and the model directory",
	Long: `Create the configuration directory layout. Existing files are kept
unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := cli.DefaultPaths()
		if err != nil {
			return err
		}
		if err := p.Ensure(); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		var lines []cli.Line
		written, err := writeIfMissing(p.ConfigFile(), func() error {
			return config.Default(p).Save()
		})
		if err != nil {
			return err
		}
		lines = append(lines, initLine(p.ConfigFile(), written))

		written, err = writeIfMissing(p.ProvidersFile(), func() error {
			return os.WriteFile(p.ProvidersFile(), []byte(exampleProviders), 0o644)
		})
		if err != nil {
			return err
		}
		lines = append(lines, initLine(p.ProvidersFile(), written))
		lines = append(lines, cli.Line{Status: cli.StatusOK, Label: p.ModelsDir(), Detail: "place " + cli.DefaultModel + " here"})

		return cli.PrintStatus(cmd.OutOrStdout(), styles(), "videoaudio config", lines)
	},
}

func writeIfMissing(path string, write func() error) (bool, error) {
	if !configInitForce {
		_, err := os.Stat(path)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return false, err
		}
	}
	if err := write(); err != nil {
		return false, err
	}
	return true, nil
}

func initLine(path string, written bool) cli.Line {
	if written {
		return cli.Line{Status: cli.StatusOK, Label: path, Detail: "written"}
	}
	return cli.Line{Status: cli.StatusWarn, Label: path, Detail: "exists, kept (use --force to overwrite)"}
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite existing files")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
