// Package main provides the ringbuf CLI tool.
//
// Usage:
//
//	ringbuf [flags] <command> [args]
//
// Commands:
//
//	demo     - Single producer / single consumer walkthrough
//	bench    - Concurrent producers and consumers over one buffer
//	config   - Profile management
//
// Configuration:
//
//	The CLI stores configuration in ~/.ringbuf/ringbuf/
//	Use 'ringbuf config' commands to manage profiles.
package main

import (
	"os"

	"github.com/haivivi/ringbuf/cmd/ringbuf/commands"
	"github.com/haivivi/ringbuf/pkg/cli"
)

func main() {
	if err := commands.Execute(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}
