package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noliv3/videoaudio/cmd/videoaudio/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := build.Get()
		return output(cmd, info, func() error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, build.String())
			if IsVerbose() {
				fmt.Fprintf(out, "  go:     %s\n", info.Go)
				if cfg, err := loadConfig(); err == nil {
					fmt.Fprintf(out, "  config: %s\n", cfg.Path())
				} else {
					fmt.Fprintf(out, "  config: (unavailable: %v)\n", err)
				}
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
