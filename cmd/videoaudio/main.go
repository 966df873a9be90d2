// Package main is the entry point for the videoaudio CLI.
//
// Usage:
//
//	videoaudio [flags] <command> [subcommand] [args]
//
// Commands:
//
//	run        - Lip-sync a PNG frame directory to a WAV file
//	engines    - List engines and configured providers
//	config     - Show, initialize or locate the configuration
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/noliv3/videoaudio/cmd/videoaudio/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
