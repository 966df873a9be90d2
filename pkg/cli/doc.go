// Package cli provides helpers shared by the videoaudio command-line tools.
//
// This package includes:
//   - Output formatting (YAML, JSON, raw)
//   - Job file loading (YAML/JSON)
//   - Directory layout under the OS config directory
//   - Styled status lines for terminal output
//
// Example usage:
//
//	paths, err := cli.DefaultPaths()
//	var job Job
//	err = cli.LoadRequest("job.yaml", &job)
//	cli.Output(os.Stdout, summary, cli.FormatJSON)
package cli
