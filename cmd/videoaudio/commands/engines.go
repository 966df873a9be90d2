package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noliv3/videoaudio/pkg/cli"
	"github.com/noliv3/videoaudio/pkg/lipsync"
	"github.com/noliv3/videoaudio/pkg/lipsync/provider"
)

type engineStatus struct {
	Name      string `yaml:"name" json:"name"`
	Kind      string `yaml:"kind" json:"kind"`
	Command   string `yaml:"command,omitempty" json:"command,omitempty"`
	Selected  bool   `yaml:"selected" json:"selected"`
	Available bool   `yaml:"available" json:"available"`
	Error     string `yaml:"error,omitempty" json:"error,omitempty"`
}

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List engines and configured providers",
	Long: `List the registered engines and the providers of the registry file,
and check whether each provider command can be found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var list []engineStatus
		for _, name := range lipsync.Engines() {
			list = append(list, engineStatus{
				Name:      name,
				Kind:      "engine",
				Selected:  name == cfg.Engine,
				Available: true,
			})
		}

		reg, regErr := provider.LoadRegistry(cfg.ProvidersFile)
		if regErr == nil {
			for _, name := range reg.Names() {
				p, _ := reg.Lookup(name)
				st := engineStatus{
					Name:     name,
					Kind:     "provider",
					Command:  p.Command,
					Selected: cfg.Engine == provider.EngineName && name == cfg.Provider,
				}
				e, err := provider.New(name, p)
				if err == nil {
					err = e.Available()
				}
				if err != nil {
					st.Error = err.Error()
				} else {
					st.Available = true
				}
				list = append(list, st)
			}
		}

		return output(cmd, list, func() error {
			var lines []cli.Line
			for _, st := range list {
				lines = append(lines, statusLine(st))
			}
			if regErr != nil {
				lines = append(lines, cli.Line{Status: cli.StatusWarn, Label: "providers", Detail: regErr.Error()})
			}
			return cli.PrintStatus(cmd.OutOrStdout(), styles(), "Engines", lines)
		})
	},
}

func statusLine(st engineStatus) cli.Line {
	label := st.Name
	if st.Selected {
		label += " *"
	}
	detail := st.Kind
	if st.Command != "" {
		detail = fmt.Sprintf("%s (%s)", st.Kind, st.Command)
	}
	switch {
	case st.Error != "":
		return cli.Line{Status: cli.StatusFail, Label: label, Detail: detail + ": " + st.Error}
	default:
		return cli.Line{Status: cli.StatusOK, Label: label, Detail: detail}
	}
}

func init() {
	rootCmd.AddCommand(enginesCmd)
}
